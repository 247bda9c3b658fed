// Package metrics holds the Prometheus collectors of the storefront service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/almajid/internal/apperrors"
)

const namespace = "almajid"

// Metrics is the set of collectors registered by the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CatalogFetches      *prometheus.CounterVec
	CategoryMisses      prometheus.Counter
	UploadRejections    *prometheus.CounterVec
	AuthEvents          *prometheus.CounterVec
	FavoriteToggles     *prometheus.CounterVec
	SKUCollisionRetries prometheus.Counter

	registry *prometheus.Registry
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CatalogFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "fetches_total",
			Help:      "Catalog listing fetches by outcome",
		}, []string{"outcome"}),
		CategoryMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "category_misses_total",
			Help:      "Category slugs that did not resolve",
		}),
		UploadRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "upload_rejections_total",
			Help:      "Uploads rejected by local validation",
		}, []string{"reason"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Session change events",
		}, []string{"kind"}),
		FavoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "favorites",
			Name:      "toggles_total",
			Help:      "Favorite toggles by resulting state",
		}, []string{"state"}),
		SKUCollisionRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "products",
			Name:      "sku_collision_retries_total",
			Help:      "Generated SKUs retried after a duplicate key",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CatalogFetches,
		m.CategoryMisses,
		m.UploadRejections,
		m.AuthEvents,
		m.FavoriteToggles,
		m.SKUCollisionRetries,
	)
	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records the outcome of a catalog fetch.
func (m *Metrics) ObserveFetch(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CatalogFetches.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		method := utils.CopyString(c.Method())
		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.HTTPStatus(err)
		}
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
