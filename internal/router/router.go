package router

import (
	"net/http"

	"item-compare/internal/handler"
	"item-compare/internal/metrics"
	"item-compare/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options configures the HTTP surface.
type Options struct {
	// APIPrefix mounts the versioned API, e.g. "/api/v1".
	APIPrefix      string
	AllowedOrigins []string
	// APIKey guards the admin routes. They are not mounted when it is empty.
	APIKey string
	// Metrics is optional. When nil there is no /metrics endpoint.
	Metrics *metrics.Metrics
}

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Admin   *handler.AdminHandler
	Info    *handler.InfoHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/", h.Info.Root)
	r.Get("/health", h.Info.Health)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route(opts.APIPrefix, func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.List)
			r.Get("/compare/batch", h.Product.Compare)
			r.Get("/health/count", h.Product.Count)
			r.Get("/{id}", h.Product.GetByID)
		})

		if opts.APIKey != "" && h.Admin != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.APIKeyAuth(opts.APIKey, logger))
				r.Post("/catalog/reload", h.Admin.Reload)
			})
		}
	})

	return r
}

// Endpoints lists the public routes for the service info endpoint.
func Endpoints(opts Options) map[string]string {
	endpoints := map[string]string{
		"health":   "/health",
		"products": opts.APIPrefix + "/products",
		"product":  opts.APIPrefix + "/products/{id}",
		"compare":  opts.APIPrefix + "/products/compare/batch?product_ids={id}&product_ids={id}",
		"count":    opts.APIPrefix + "/products/health/count",
	}
	if opts.Metrics != nil {
		endpoints["metrics"] = "/metrics"
	}
	if opts.APIKey != "" {
		endpoints["reload"] = opts.APIPrefix + "/admin/catalog/reload"
	}
	return endpoints
}
