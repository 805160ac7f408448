package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	completionTotal    *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	completionInFlight prometheus.Gauge
	queueLag           *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	completionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileclerk",
			Subsystem: "worker",
			Name:      "task_completions_total",
			Help:      "Total task completion runs by outcome.",
		},
		[]string{"service", "status"},
	)
	completionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fileclerk",
			Subsystem: "worker",
			Name:      "task_completion_duration_seconds",
			Help:      "Task completion duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	completionInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fileclerk",
			Subsystem: "worker",
			Name:      "task_completions_in_flight",
			Help:      "Number of in-flight task completions.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fileclerk",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between task creation and completion start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(completionTotal, completionDuration, completionInFlight, queueLag)

	return &WorkerMetrics{
		registry:           registry,
		completionTotal:    completionTotal,
		completionDuration: completionDuration,
		completionInFlight: completionInFlight,
		queueLag:           queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartCompletion() {
	m.completionInFlight.Inc()
}

func (m *WorkerMetrics) FinishCompletion(service string, duration time.Duration, err error) {
	m.completionInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.completionTotal.WithLabelValues(service, status).Inc()
	m.completionDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
