package httpadapter

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func (rt *Router) listActivities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	activityType := domain.ActivityType(r.URL.Query().Get("type"))

	activities, err := rt.activities.List(r.Context(), limit, activityType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": activities, "total": len(activities)})
}

func (rt *Router) activitySummary(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := rt.activities.Summary(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bind query", errors.New(name+" must be a non-negative integer"))
	}
	return n, nil
}
