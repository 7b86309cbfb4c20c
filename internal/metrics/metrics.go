package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	labelMethod = "method"
	labelPath   = "path"
	labelStatus = "status"
	labelResult = "result"

	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Latency         *prometheus.HistogramVec
	CatalogProducts prometheus.Gauge
	CatalogReloads  *prometheus.CounterVec

	reg *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{labelMethod, labelPath, labelStatus},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{labelMethod, labelPath},
		),
		CatalogProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products in the catalog currently served",
		}),
		CatalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_reloads_total",
				Help: "Catalog reload attempts by result",
			},
			[]string{labelResult},
		),
		reg: reg,
	}

	reg.MustRegister(m.Requests, m.Latency, m.CatalogProducts, m.CatalogReloads)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// SetCatalogSize records the size of the catalog being served.
func (m *Metrics) SetCatalogSize(n int) {
	m.CatalogProducts.Set(float64(n))
}

// RecordReload counts a reload attempt. The size gauge only moves on success
// because a failed reload keeps the previous catalog.
func (m *Metrics) RecordReload(count int, err error) {
	if err != nil {
		m.CatalogReloads.WithLabelValues(resultFailure).Inc()
		return
	}
	m.CatalogReloads.WithLabelValues(resultSuccess).Inc()
	m.SetCatalogSize(count)
}

// Middleware records request count and latency, labelled by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := routePattern(r)
		m.Latency.WithLabelValues(r.Method, path).
			Observe(time.Since(start).Seconds())

		m.Requests.WithLabelValues(r.Method, path, strconv.Itoa(status)).
			Inc()
	})
}

// routePattern keeps label cardinality bounded: product ids never appear in
// labels, and unmatched paths share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if rp := rctx.RoutePattern(); rp != "" {
			return rp
		}
	}
	return "unmatched"
}
