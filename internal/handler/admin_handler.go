package handler

import (
	"net/http"

	"item-compare/internal/model"
	"item-compare/internal/service"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// ReloadRecorder observes catalog reload outcomes.
type ReloadRecorder interface {
	RecordReload(count int, err error)
}

// AdminHandler handles operator requests against the catalog.
type AdminHandler struct {
	service  service.ProductService
	recorder ReloadRecorder
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler. recorder may be nil.
func NewAdminHandler(service service.ProductService, recorder ReloadRecorder, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service:  service,
		recorder: recorder,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// Reload handles POST /admin/catalog/reload requests. A failed reload leaves
// the previous catalog serving and answers 503.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Reload(r.Context())

	if h.recorder != nil {
		h.recorder.RecordReload(status.Count, err)
	}

	if err != nil {
		h.logger.Error().Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("catalog reload rejected")

		body := model.ErrorBody{
			Type:    model.ErrCodeServiceUnavailable,
			Message: "catalog reload failed; previous catalog still served",
		}
		if de, ok := model.AsDomainError(err); ok {
			body.Details = map[string]any{"cause": de.Code}
		}
		writeErrorBody(w, http.StatusServiceUnavailable, body)
		return
	}

	h.logger.Info().Int("count", status.Count).Msg("catalog reloaded via admin endpoint")
	writeJSON(w, http.StatusOK, status)
}
