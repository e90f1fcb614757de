// Package metrics provides Prometheus metrics for the edge server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default histogram buckets for request latency.
var defaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds all Prometheus metric collectors for the edge server.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	AssetFetchDuration *prometheus.HistogramVec
	AssetResponses     *prometheus.CounterVec
	FallbacksTotal     *prometheus.CounterVec
}

// New creates a Metrics instance with a custom registry and all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_edge_http_requests_total",
			Help: "Total inbound HTTP requests.",
		}, []string{"method", "status_code", "route"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_edge_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency in seconds.",
			Buckets: defaultBuckets,
		}, []string{"method", "status_code", "route"}),

		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "site_edge_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed.",
		}),

		AssetFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_edge_asset_fetch_duration_seconds",
			Help:    "Asset store lookup latency in seconds.",
			Buckets: defaultBuckets,
		}, []string{"store", "method"}),

		AssetResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_edge_asset_responses_total",
			Help: "Asset store responses by store, method and status code; status_code is \"error\" on fetch failure.",
		}, []string{"store", "method", "status_code"}),

		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_edge_fallbacks_total",
			Help: "HTML navigations answered with the index document, by the index lookup's status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.AssetFetchDuration,
		m.AssetResponses,
		m.FallbacksTotal,
	)

	return m
}

// knownMethods lists the allowed HTTP method label values (bounded cardinality).
var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// NormalizeMethod returns a bounded HTTP method label for Prometheus metrics.
// Non-standard methods are mapped to "other" to prevent cardinality explosion.
func NormalizeMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return "other"
}

// internalRoutes lists the paths answered by the edge itself.
var internalRoutes = map[string]bool{
	"/healthz":     true,
	"/edge/status": true,
	"/metrics":     true,
}

// NormalizePath returns a bounded route label for Prometheus metrics. Site
// paths are unbounded, so everything that is not an internal route is "site".
func NormalizePath(path string) string {
	if internalRoutes[path] {
		return path
	}
	return "site"
}
