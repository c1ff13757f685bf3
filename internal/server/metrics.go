package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API.
//
// Collectors live on their own registry so tests can create any number of servers.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	entries  *prometheus.GaugeVec
	failures *prometheus.CounterVec
}

// NewMetrics creates and registers the API collectors, plus the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "banger",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "banger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{"route"}),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "banger",
			Name:      "normalized_entries",
			Help:      "Entries seen by the last normalization pass, by source and outcome.",
		}, []string{"source", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "banger",
			Name:      "source_failures_total",
			Help:      "Failed document loads by source and failure kind.",
		}, []string{"source", "kind"}),
	}

	reg.MustRegister(
		m.requests, m.duration, m.entries, m.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency. route should be the registered pattern, not the raw path.
func (m *Metrics) Middleware(route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
			m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveEntries records the counts of a normalization pass.
func (m *Metrics) ObserveEntries(source string, valid, skipped int) {
	m.entries.WithLabelValues(source, "valid").Set(float64(valid))
	m.entries.WithLabelValues(source, "skipped").Set(float64(skipped))
}

// ObserveFailure counts a failed load.
func (m *Metrics) ObserveFailure(source, kind string) {
	m.failures.WithLabelValues(source, kind).Inc()
}

// metricsHandler serves the Prometheus exposition format.
type metricsHandler struct {
	http.Handler
}

func (m *Metrics) handler() Handler {
	return metricsHandler{promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})}
}

func (metricsHandler) Routes() []string { return []string{"/metrics"} }
