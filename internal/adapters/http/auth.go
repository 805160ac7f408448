package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "login", errors.New("invalid json")))
		return
	}

	grant, err := rt.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

// createSession issues a demo session without credentials, matching the
// auto-login behavior of the dashboard.
func (rt *Router) createSession(w http.ResponseWriter, r *http.Request) {
	grant, err := rt.auth.CreateSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

func (rt *Router) currentSession(w http.ResponseWriter, r *http.Request) {
	session, user := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"user":    user,
	})
}

func (rt *Router) logout(w http.ResponseWriter, r *http.Request) {
	if err := rt.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (rt *Router) userSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := rt.auth.UserSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (rt *Router) updateUserSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "update settings", errors.New("invalid json")))
		return
	}

	if err := rt.auth.UpdateUserSettings(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
