// Package metric provides Prometheus metrics for hexmatch.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Custom collector for values sampled at scrape time
//
// Metrics include:
//
//   - Validation outcomes per engine and rejection reasons
//   - Batch sizes and verdict cache efficiency
//   - HTTP request counts and latency histograms
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
