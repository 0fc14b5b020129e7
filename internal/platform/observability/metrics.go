package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the prometheus instruments the server exposes. A single
// instance is created at bootstrap and shared by all services.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Analyses        *prometheus.CounterVec
	ModelCallSecs   *prometheus.HistogramVec
	UploadBytes     prometheus.Histogram
	StorageFailures prometheus.Counter
}

// NewMetrics registers all instruments on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skyrchitect_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skyrchitect_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skyrchitect_diagram_analyses_total",
			Help: "Diagram analyses by outcome (ok, degraded, failed).",
		}, []string{"outcome"}),
		ModelCallSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skyrchitect_model_call_duration_seconds",
			Help:    "Remote model call latency by provider type.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		UploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skyrchitect_upload_bytes",
			Help:    "Size of accepted diagram uploads.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		StorageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyrchitect_storage_backup_failures_total",
			Help: "Diagram backup uploads that failed.",
		}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Analyses,
		m.ModelCallSecs,
		m.UploadBytes,
		m.StorageFailures,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
