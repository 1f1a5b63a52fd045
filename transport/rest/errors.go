package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/usecase"
)

type errorResponse struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusCode maps domain errors to HTTP statuses.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidRanksCompared):
		return http.StatusInternalServerError
	case errors.Is(err, apperror.ErrGameFull), errors.Is(err, apperror.ErrGameNotJoinable):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrNotInGame):
		return http.StatusForbidden
	case usecase.IsRuleViolation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		message = "Internal Server Error"
	}

	that.writeJSON(w, status, errorResponse{
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}
