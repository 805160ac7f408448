package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/ports"
	"github.com/fileclerk/fileclerkai/internal/observability/metrics"
)

// Dependencies carries everything the router serves. Metrics is optional;
// handler tests leave it nil.
type Dependencies struct {
	Auth       ports.AuthService
	Documents  ports.DocumentService
	Actions    ports.ActionService
	Voice      ports.VoiceService
	Memories   ports.MemoryService
	Activities ports.ActivityService
	Tasks      ports.TaskService
	Metrics    *metrics.HTTPServerMetrics
}

// TrafficControl bounds the request intake. Zero values disable the
// corresponding gate.
type TrafficControl struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
	QueueWait      time.Duration
}

type Router struct {
	auth       ports.AuthService
	documents  ports.DocumentService
	actions    ports.ActionService
	voice      ports.VoiceService
	memories   ports.MemoryService
	activities ports.ActivityService
	tasks      ports.TaskService

	metrics *metrics.HTTPServerMetrics
	service string
	traffic TrafficControl
}

func NewRouter(service string, deps Dependencies, traffic TrafficControl) *Router {
	return &Router{
		auth:       deps.Auth,
		documents:  deps.Documents,
		actions:    deps.Actions,
		voice:      deps.Voice,
		memories:   deps.Memories,
		activities: deps.Activities,
		tasks:      deps.Tasks,
		metrics:    deps.Metrics,
		service:    service,
		traffic:    traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/auth/login", rt.login)
	mux.HandleFunc("POST /v1/auth/session", rt.createSession)
	mux.Handle("GET /v1/auth/session", rt.requireSession(rt.currentSession))
	mux.Handle("POST /v1/auth/logout", rt.requireSession(rt.logout))
	mux.Handle("GET /v1/auth/user/settings", rt.requireSession(rt.userSettings))
	mux.Handle("PUT /v1/auth/user/settings", rt.requireSession(rt.updateUserSettings))

	mux.Handle("GET /v1/documents", rt.requireSession(rt.listDocuments))
	mux.Handle("POST /v1/documents", rt.requireSession(rt.uploadDocument))
	mux.Handle("GET /v1/documents/search", rt.requireSession(rt.searchDocuments))
	mux.Handle("POST /v1/documents/action", rt.requireSession(rt.performAction))
	mux.Handle("GET /v1/documents/{document_id}", rt.requireSession(rt.getDocument))
	mux.Handle("DELETE /v1/documents/{document_id}", rt.requireSession(rt.deleteDocument))
	mux.Handle("GET /v1/documents/{document_id}/download", rt.requireSession(rt.downloadDocument))

	mux.Handle("GET /v1/activities", rt.requireSession(rt.listActivities))
	mux.Handle("GET /v1/activities/summary", rt.requireSession(rt.activitySummary))

	mux.Handle("GET /v1/activities/memories", rt.requireSession(rt.listMemories))
	mux.Handle("POST /v1/activities/memories", rt.requireSession(rt.createMemory))
	mux.Handle("GET /v1/activities/memories/search", rt.requireSession(rt.searchMemories))
	mux.Handle("GET /v1/activities/memories/{memory_id}", rt.requireSession(rt.getMemory))
	mux.Handle("PATCH /v1/activities/memories/{memory_id}", rt.requireSession(rt.updateMemory))
	mux.Handle("DELETE /v1/activities/memories/{memory_id}", rt.requireSession(rt.deleteMemory))

	mux.Handle("GET /v1/tasks", rt.requireSession(rt.listTasks))
	mux.Handle("GET /v1/tasks/{task_id}", rt.requireSession(rt.getTask))
	mux.Handle("POST /v1/tasks/{task_id}/cancel", rt.requireSession(rt.cancelTask))

	mux.Handle("POST /v1/voice/command", rt.requireSession(rt.voiceCommand))
	mux.Handle("POST /v1/voice/transcribe", rt.requireSession(rt.voiceTranscribe))

	var handler http.Handler = mux
	if rt.traffic.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.traffic.MaxConcurrent, rt.traffic.QueueWait)
	}
	if rt.traffic.RateLimitRPS > 0 {
		handler = rt.rateLimitMiddleware(handler)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
