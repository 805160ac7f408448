package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal       *prometheus.CounterVec
	searchesTotal      *prometheus.CounterVec
	searchResults      *prometheus.HistogramVec
	actionsTotal       *prometheus.CounterVec
	voiceCommandsTotal *prometheus.CounterVec
	voiceConfidence    *prometheus.HistogramVec
	rateLimitedTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fileclerk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fileclerk",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total uploaded documents by category.",
		},
		[]string{"service", "category"},
	)
	searchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "documents",
			Name:      "searches_total",
			Help:      "Total document search requests.",
		},
		[]string{"service"},
	)
	searchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fileclerk",
			Subsystem: "documents",
			Name:      "search_results",
			Help:      "Distribution of results per search request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	actionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "actions",
			Name:      "started_total",
			Help:      "Total started document actions by action name.",
		},
		[]string{"service", "action"},
	)
	voiceCommandsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "voice",
			Name:      "commands_total",
			Help:      "Total classified voice commands by intent.",
		},
		[]string{"service", "intent"},
	)
	voiceConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fileclerk",
			Subsystem: "voice",
			Name:      "confidence",
			Help:      "Distribution of classification confidence scores.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		},
		[]string{"service"},
	)
	rateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		searchesTotal,
		searchResults,
		actionsTotal,
		voiceCommandsTotal,
		voiceConfidence,
		rateLimitedTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		uploadsTotal:       uploadsTotal,
		searchesTotal:      searchesTotal,
		searchResults:      searchResults,
		actionsTotal:       actionsTotal,
		voiceCommandsTotal: voiceCommandsTotal,
		voiceConfidence:    voiceConfidence,
		rateLimitedTotal:   rateLimitedTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses id-bearing routes so label cardinality stays
// bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/activities/memories/"):
		return "/v1/activities/memories/{memory_id}"
	case strings.HasPrefix(path, "/v1/tasks/"):
		return "/v1/tasks/{task_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, category string) {
	if category == "" {
		category = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, category).Inc()
}

func (m *HTTPServerMetrics) RecordSearch(service string, resultCount int) {
	m.searchesTotal.WithLabelValues(service).Inc()
	m.searchResults.WithLabelValues(service).Observe(float64(resultCount))
}

func (m *HTTPServerMetrics) RecordActionStarted(service, action string) {
	if action == "" {
		action = "unknown"
	}
	m.actionsTotal.WithLabelValues(service, action).Inc()
}

func (m *HTTPServerMetrics) RecordVoiceCommand(service, intent string, confidence float64) {
	if intent == "" {
		intent = "unknown"
	}
	m.voiceCommandsTotal.WithLabelValues(service, intent).Inc()
	if confidence > 0 {
		m.voiceConfidence.WithLabelValues(service).Observe(confidence)
	}
}

func (m *HTTPServerMetrics) RecordRateLimited(service string) {
	m.rateLimitedTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
