package handler

import (
	"net/http"
	"strings"

	"item-compare/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListAll(r.Context()))
}

// GetByID handles GET /products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Compare handles GET /products/compare/batch requests. Identifiers come
// from repeated product_ids parameters, each of which may also hold a
// comma-separated list.
func (h *ProductHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ids := productIDsParam(r)

	result, err := h.service.Compare(r.Context(), ids)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// countResponse is the body of the catalog count endpoint.
type countResponse struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
}

// Count handles GET /products/health/count requests.
func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{
		Count:  h.service.Count(r.Context()),
		Status: "healthy",
	})
}

func productIDsParam(r *http.Request) []string {
	ids := []string{}
	for _, value := range r.URL.Query()["product_ids"] {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
