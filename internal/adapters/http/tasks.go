package httpadapter

import (
	"net/http"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func (rt *Router) listTasks(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	status := domain.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := rt.tasks.List(r.Context(), limit, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "total": len(tasks)})
}

func (rt *Router) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := rt.tasks.GetByID(r.Context(), r.PathValue("task_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (rt *Router) cancelTask(w http.ResponseWriter, r *http.Request) {
	task, err := rt.tasks.Cancel(r.Context(), r.PathValue("task_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
