// Package metrics wires the server's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric collectors for the famsync server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Document store metrics.
	FamiliesCreatedTotal  prometheus.Counter
	DocumentsWrittenTotal prometheus.Counter

	// Subscription metrics.
	BroadcastsTotal   prometheus.Counter
	ActiveSubscribers prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "famsync_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "famsync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		FamiliesCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famsync_families_created_total",
			Help: "Total number of family namespaces created.",
		}),

		DocumentsWrittenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famsync_documents_written_total",
			Help: "Total number of whole-document writes.",
		}),

		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famsync_broadcasts_total",
			Help: "Total number of document broadcasts to subscribers.",
		}),

		ActiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "famsync_active_subscribers",
			Help: "Number of currently connected subscription clients.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.FamiliesCreatedTotal,
		m.DocumentsWrittenTotal,
		m.BroadcastsTotal,
		m.ActiveSubscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the /metrics HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
