package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bakehouse/internal/model"

	"github.com/rs/zerolog"
)

// statusForCode maps domain error codes to HTTP statuses.
var statusForCode = map[string]int{
	model.ErrCodeInvalidJSON:       http.StatusBadRequest,
	model.ErrCodeValidation:        http.StatusBadRequest,
	model.ErrCodeCartEmpty:         http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:   http.StatusBadRequest,
	model.ErrCodeInvalidTransition: http.StatusBadRequest,
	model.ErrCodeProductNotFound:   http.StatusNotFound,
	model.ErrCodeOrderNotFound:     http.StatusNotFound,
	model.ErrCodeUnauthorised:      http.StatusUnauthorized,
	model.ErrCodeForbidden:         http.StatusForbidden,
	model.ErrCodeUpstreamTimeout:   http.StatusGatewayTimeout,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already written; nothing useful left to do.
		return
	}
}

// writeError writes a coded error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Debug().Str("code", code).Int("status", status).Str("message", message).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError translates a service failure into an HTTP response.
// Domain errors keep their code and message; store timeouts surface as
// retryable; everything else is an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusForCode[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, model.ErrCodeUpstreamTimeout,
			model.ErrUpstreamTimeout.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
		"internal server error", logger)
}

// decodeJSON decodes a request body, rejecting malformed payloads.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
	}
	return nil
}
