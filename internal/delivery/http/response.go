package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/fabstock/internal/auth"
	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, Response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Error: message})
}

// statusFor maps the error taxonomy to an HTTP status.
func statusFor(err error) int {
	var (
		validation *domain.ValidationError
		permission *domain.PermissionError
		config     *domain.ConfigurationError
		remoteErr  *domain.RemoteError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &permission):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.As(err, &config):
		return http.StatusPreconditionFailed
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrUnknownMember), auth.IsAuthError(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondErr writes err with its mapped status. Unexpected errors are logged and hidden.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, status, "Internal server error")
		return
	}
	logger.Debug(r.Context()).Err(err).Int("status", status).Msg("Request rejected")
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
