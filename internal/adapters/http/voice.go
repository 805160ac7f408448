package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func (rt *Router) voiceCommand(w http.ResponseWriter, r *http.Request) {
	var cmd domain.VoiceCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "voice command", errors.New("invalid json")))
		return
	}
	if strings.TrimSpace(cmd.Command) == "" {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "voice command", errors.New("command is required")))
		return
	}

	result, err := rt.voice.ProcessCommand(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordVoiceCommand(rt.service, string(result.Intent), result.Confidence)
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) voiceTranscribe(w http.ResponseWriter, r *http.Request) {
	text, err := rt.voice.Transcribe(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
