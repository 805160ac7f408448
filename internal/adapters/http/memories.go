package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func (rt *Router) listMemories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter domain.MemoryFilter
	filter.MemoryType = domain.MemoryType(query.Get("memory_type"))
	if raw := query.Get("starred"); raw != "" {
		starred, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, domain.WrapError(domain.ErrInvalidInput, "bind query", errors.New("starred must be a boolean")))
			return
		}
		filter.Starred = &starred
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	filter.Limit = limit

	memories, err := rt.memories.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memories": memories, "total": len(memories)})
}

func (rt *Router) createMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		MemoryType string   `json:"memory_type"`
		Tags       []string `json:"tags"`
		Starred    bool     `json:"starred"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "create memory", errors.New("invalid json")))
		return
	}

	memory, err := rt.memories.Create(r.Context(), req.Title, req.Content, domain.MemoryType(req.MemoryType), req.Tags, req.Starred)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memory)
}

func (rt *Router) searchMemories(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	memories, err := rt.memories.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memories": memories, "total": len(memories)})
}

func (rt *Router) getMemory(w http.ResponseWriter, r *http.Request) {
	memory, err := rt.memories.GetByID(r.Context(), r.PathValue("memory_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

func (rt *Router) updateMemory(w http.ResponseWriter, r *http.Request) {
	var patch domain.MemoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "update memory", errors.New("invalid json")))
		return
	}

	memory, err := rt.memories.Update(r.Context(), r.PathValue("memory_id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

func (rt *Router) deleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := rt.memories.Delete(r.Context(), r.PathValue("memory_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
