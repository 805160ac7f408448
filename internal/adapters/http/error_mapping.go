package httpadapter

import (
	"net/http"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrInvalidCredentials),
		domain.IsKind(err, domain.ErrNoActiveSession):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound),
		domain.IsKind(err, domain.ErrDocumentsNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
