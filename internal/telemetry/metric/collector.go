// Package metric provides Prometheus metrics for hexmatch.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector samples gauges at scrape time instead of tracking them
// on every update.
type Collector struct {
	cacheEntries func() int
	cacheDesc    *prometheus.Desc
}

// NewCollector creates a collector reading the verdict cache size
// from cacheEntries.
func NewCollector(cacheEntries func() int) *Collector {
	return &Collector{
		cacheEntries: cacheEntries,
		cacheDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "cache_entries"),
			"Verdicts currently held in the cache.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cacheDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	n := 0
	if c.cacheEntries != nil {
		n = c.cacheEntries()
	}
	ch <- prometheus.MustNewConstMetric(c.cacheDesc, prometheus.GaugeValue, float64(n))
}
