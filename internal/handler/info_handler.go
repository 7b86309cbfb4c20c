package handler

import (
	"net/http"

	"item-compare/internal/config"
)

// InfoHandler serves service metadata and liveness.
type InfoHandler struct {
	app       config.AppConfig
	endpoints map[string]string
}

// NewInfoHandler creates a new info handler. endpoints is reported verbatim
// by the root endpoint.
func NewInfoHandler(app config.AppConfig, endpoints map[string]string) *InfoHandler {
	return &InfoHandler{
		app:       app,
		endpoints: endpoints,
	}
}

type infoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	APIVersion  string            `json:"api_version"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Root handles GET / requests.
func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Name:        h.app.Name,
		Version:     h.app.Version,
		APIVersion:  h.app.APIVersion,
		Environment: h.app.Environment,
		Endpoints:   h.endpoints,
	})
}

// Health handles GET /health requests.
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: h.app.Name,
		Version: h.app.Version,
	})
}
