// Package metrics provides Prometheus collectors for resolution and
// favorites synchronization. Every recorder is safe to call on a nil
// receiver so components can run without metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Page fetch statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ResolverMetrics contains Prometheus metrics for entity resolution
type ResolverMetrics struct {
	resolutionsTotal   *prometheus.CounterVec
	pageFetchesTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	candidatesScored   prometheus.Counter
}

// NewResolverMetrics creates and registers resolver metrics
func NewResolverMetrics(registry prometheus.Registerer) (*ResolverMetrics, error) {
	m := &ResolverMetrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digidex",
				Name:      "resolutions_total",
				Help:      "Total number of name resolutions by deciding tier",
			},
			[]string{"tier"}, // tier: override, direct, exact, high_confidence, best_effort, none
		),
		pageFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digidex",
				Name:      "catalog_page_fetches_total",
				Help:      "Total number of catalog page fetches",
			},
			[]string{"status"},
		),
		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "digidex",
				Name:      "resolution_duration_seconds",
				Help:      "Time taken to resolve a name",
				// 10ms to ~40s; a full catalog walk is the slow end
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		candidatesScored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "digidex",
				Name:      "candidates_scored_total",
				Help:      "Total number of catalog candidates scored by the fuzzy matcher",
			},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *ResolverMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.resolutionsTotal.Describe(ch)
	m.pageFetchesTotal.Describe(ch)
	m.resolutionDuration.Describe(ch)
	m.candidatesScored.Describe(ch)
}

// Collect implements the Collector interface
func (m *ResolverMetrics) Collect(ch chan<- prometheus.Metric) {
	m.resolutionsTotal.Collect(ch)
	m.pageFetchesTotal.Collect(ch)
	m.resolutionDuration.Collect(ch)
	m.candidatesScored.Collect(ch)
}

// RecordResolution records a finished resolution and how long it took
func (m *ResolverMetrics) RecordResolution(tier string, duration time.Duration) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(tier).Inc()
	m.resolutionDuration.Observe(duration.Seconds())
}

// RecordPageFetch records a catalog page fetch
func (m *ResolverMetrics) RecordPageFetch(status string) {
	if m == nil {
		return
	}
	m.pageFetchesTotal.WithLabelValues(status).Inc()
}

// RecordCandidates adds to the number of scored candidates
func (m *ResolverMetrics) RecordCandidates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidatesScored.Add(float64(n))
}
