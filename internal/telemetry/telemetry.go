// Package telemetry exposes pagination internals as prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glowdocs/paginate/internal/cache"
)

// StatsSource supplies the current cache counters.
type StatsSource func() cache.Stats

// PageCountSource supplies the current page count.
type PageCountSource func() int

// Collector implements prometheus.Collector over the measurement cache
// and the pagination result. Counters are read on scrape; nothing is
// sampled in the hot path.
type Collector struct {
	stats StatsSource
	pages PageCountSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	size      *prometheus.Desc
	pageCount *prometheus.Desc
}

// NewCollector creates a collector reading from the given sources.
func NewCollector(stats StatsSource, pages PageCountSource) *Collector {
	return &Collector{
		stats: stats,
		pages: pages,
		hits: prometheus.NewDesc(
			"paginate_cache_hits_total",
			"Measurement cache hits",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"paginate_cache_misses_total",
			"Measurement cache misses",
			nil, nil,
		),
		evictions: prometheus.NewDesc(
			"paginate_cache_evictions_total",
			"Snapshots evicted from the measurement cache",
			nil, nil,
		),
		size: prometheus.NewDesc(
			"paginate_cache_size",
			"Cached line positions across live snapshots",
			nil, nil,
		),
		pageCount: prometheus.NewDesc(
			"paginate_pages",
			"Pages in the current pagination result",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.size
	ch <- c.pageCount
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.stats != nil {
		s := c.stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	}
	if c.pages != nil {
		ch <- prometheus.MustNewConstMetric(c.pageCount, prometheus.GaugeValue, float64(c.pages()))
	}
}
