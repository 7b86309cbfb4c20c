package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"item-compare/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeErrorBody writes the standard error envelope.
func writeErrorBody(w http.ResponseWriter, status int, body model.ErrorBody) {
	writeJSON(w, status, model.ErrorResponse{Error: body})
}

// writeError maps err to a status code and error body. Errors that are not
// domain errors become a 500 without exposing the cause.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, body := errorResponse(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("error_type", body.Type).
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("handler error")

	writeErrorBody(w, status, body)
}

func errorResponse(err error) (int, model.ErrorBody) {
	de, ok := model.AsDomainError(err)
	if !ok {
		return http.StatusInternalServerError, internalErrorBody()
	}

	body := model.ErrorBody{
		Type:    de.Code,
		Message: de.Message,
		Details: de.Details,
	}

	switch {
	case errors.Is(de, model.ErrValidation), errors.Is(de, model.ErrInvalidIdentifier):
		return http.StatusBadRequest, body
	case errors.Is(de, model.ErrNotFound):
		return http.StatusNotFound, body
	default:
		return http.StatusInternalServerError, internalErrorBody()
	}
}

func internalErrorBody() model.ErrorBody {
	return model.ErrorBody{
		Type:    model.ErrCodeInternalError,
		Message: "an unexpected error occurred",
	}
}

// NotFound answers requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, http.StatusNotFound, model.ErrorBody{
		Type:    model.ErrCodeNotFound,
		Message: "resource not found",
		Details: map[string]any{"path": r.URL.Path},
	})
}

// MethodNotAllowed answers requests using a method the route does not serve.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, http.StatusMethodNotAllowed, model.ErrorBody{
		Type:    model.ErrCodeMethodNotAllowed,
		Message: "method not allowed",
		Details: map[string]any{"method": r.Method},
	})
}
