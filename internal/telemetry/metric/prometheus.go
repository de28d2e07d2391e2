// Package metric provides Prometheus metrics for hexmatch.
//
// It exposes metrics in Prometheus format for monitoring
// validation outcomes, request rates, latencies, and cache efficiency.
package metric

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hexmatch"

// Registry holds all application metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// Validation metrics
	Validations        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	BatchSize          prometheus.Histogram
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all metrics and the Go and
// process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Inputs classified, by engine and result.",
		}, []string{"engine", "result"}),

		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected inputs, by grammar rule.",
		}, []string{"reason"}),

		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of inputs per batch request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Verdict cache hits.",
		}),

		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Verdict cache misses.",
		}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route pattern and status.",
		}, []string{"method", "path", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"method", "path"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Validations,
		r.ValidationFailures,
		r.BatchSize,
		r.CacheHits,
		r.CacheMisses,
		r.RequestsTotal,
		r.RequestDuration,
	)

	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Register adds an extra collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// ObserveValidation records one classified input.
func (r *Registry) ObserveValidation(engine string, valid bool, reason string) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	r.Validations.WithLabelValues(engine, result).Inc()
	if !valid {
		r.ValidationFailures.WithLabelValues(reason).Inc()
	}
}

// ObserveBatch records the size of a batch request.
func (r *Registry) ObserveBatch(size int) {
	r.BatchSize.Observe(float64(size))
}

// CacheHit records a verdict cache hit.
func (r *Registry) CacheHit() {
	r.CacheHits.Inc()
}

// CacheMiss records a verdict cache miss.
func (r *Registry) CacheMiss() {
	r.CacheMisses.Inc()
}

// RecordRequest records a completed HTTP request.
func (r *Registry) RecordRequest(method, path string, status int) {
	r.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// ObserveRequestDuration records HTTP request latency in seconds.
func (r *Registry) ObserveRequestDuration(method, path string, seconds float64) {
	r.RequestDuration.WithLabelValues(method, path).Observe(seconds)
}
