package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	filter, err := documentFilterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	docs, err := rt.documents.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "total": len(docs)})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("multipart field 'file' is required")))
		return
	}
	defer file.Close()

	category := domain.DocumentCategory(r.FormValue("category"))
	var tags []string
	if raw := strings.TrimSpace(r.FormValue("tags")); raw != "" {
		tags = strings.Split(raw, ",")
	}

	autoCategorize, err := rt.autoCategorize(r)
	if err != nil {
		writeError(w, err)
		return
	}

	meta := domain.FileMeta{
		Name:     fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
	}
	doc, err := rt.documents.Upload(r.Context(), meta, file, category, tags, autoCategorize)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(rt.service, string(doc.Category))
	}
	writeJSON(w, http.StatusCreated, doc)
}

// autoCategorize reads the form override, falling back to the stored user
// preference.
func (rt *Router) autoCategorize(r *http.Request) (bool, error) {
	if raw := r.FormValue("auto_categorize"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return false, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("auto_categorize must be a boolean"))
		}
		return parsed, nil
	}

	settings, err := rt.auth.UserSettings(r.Context())
	if err != nil {
		return false, err
	}
	return settings.AutoCategorize, nil
}

func (rt *Router) searchDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "search", errors.New("query parameter 'q' is required")))
		return
	}

	filter, err := documentFilterFromQuery(query)
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := rt.documents.Search(r.Context(), q, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSearch(rt.service, len(results))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "total": len(results)})
}

func (rt *Router) performAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action      string         `json:"action"`
		DocumentIDs []string       `json:"document_ids"`
		Parameters  map[string]any `json:"parameters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "perform action", errors.New("invalid json")))
		return
	}
	if strings.TrimSpace(req.Action) == "" {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "perform action", errors.New("action is required")))
		return
	}

	receipt, err := rt.actions.PerformAction(r.Context(), req.Action, req.DocumentIDs, req.Parameters)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordActionStarted(rt.service, req.Action)
	}
	writeJSON(w, http.StatusAccepted, receipt)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.documents.GetByID(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := rt.documents.Delete(r.Context(), r.PathValue("document_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (rt *Router) downloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, body, err := rt.documents.Open(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.OriginalFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

// documentFilterFromQuery binds the list/search parameters. Category lists
// and tags arrive comma separated.
func documentFilterFromQuery(query url.Values) (domain.DocumentFilter, error) {
	var filter domain.DocumentFilter

	filter.Category = domain.DocumentCategory(query.Get("category"))

	if query.Has("categories") {
		var categories []string
		if err := runtime.BindQueryParameter("form", false, false, "categories", query, &categories); err != nil {
			return filter, domain.WrapError(domain.ErrInvalidInput, "bind query", err)
		}
		for _, c := range categories {
			filter.Categories = append(filter.Categories, domain.DocumentCategory(c))
		}
	}

	if query.Has("tags") {
		if err := runtime.BindQueryParameter("form", false, false, "tags", query, &filter.Tags); err != nil {
			return filter, domain.WrapError(domain.ErrInvalidInput, "bind query", err)
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, domain.WrapError(domain.ErrInvalidInput, "bind query", errors.New("limit must be a non-negative integer"))
		}
		filter.Limit = limit
	}

	return filter, nil
}
