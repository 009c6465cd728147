// Package http provides HTTP API with metrics instrumentation.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/actiond/internal/extraction"
)

// Metrics holds the server's Prometheus collectors. Each server carries its
// own registry so tests can construct servers independently.
type Metrics struct {
	registry *prometheus.Registry
	logger   *zap.Logger

	requestsTotal    *prometheus.CounterVec
	requestDur       *prometheus.HistogramVec
	extractionsTotal *prometheus.CounterVec
	extractedItems   prometheus.Counter
}

// NewMetrics creates a Metrics instance with all collectors registered.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		logger:   logger,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actiond_http_requests_total",
			Help: "Total HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		requestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actiond_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by method and path.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "path"}),
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actiond_extractions_total",
			Help: "Completed extraction requests by result source (llm, heuristic, empty).",
		}, []string{"source"}),
		extractedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actiond_extracted_items_total",
			Help: "Total action items produced by extraction.",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDur, m.extractionsTotal, m.extractedItems)

	return m
}

// Middleware returns an Echo middleware that records request metrics.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// c.Path() is the route template (e.g. /action-items/:id/done),
			// keeping label cardinality bounded.
			path := c.Path()
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.requestsTotal.WithLabelValues(method, path, status).Inc()
			m.requestDur.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordExtraction records one completed extraction request.
func (m *Metrics) RecordExtraction(source extraction.Source, itemCount int) {
	m.extractionsTotal.WithLabelValues(string(source)).Inc()
	m.extractedItems.Add(float64(itemCount))
}

// Handler returns the /metrics handler for this server's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
