package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics contains Prometheus metrics for remote favorite pushes
type OutboxMetrics struct {
	pushesTotal *prometheus.CounterVec
	pending     prometheus.Gauge
}

// NewOutboxMetrics creates and registers outbox metrics
func NewOutboxMetrics(registry prometheus.Registerer) (*OutboxMetrics, error) {
	m := &OutboxMetrics{
		pushesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "digidex",
				Name:      "outbox_pushes_total",
				Help:      "Total number of remote favorite push attempts",
			},
			[]string{"op", "outcome"}, // outcome: delivered, retry, failed
		),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "digidex",
			Name:      "outbox_pending",
			Help:      "Number of remote pushes waiting for delivery",
		}),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *OutboxMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.pushesTotal.Describe(ch)
	m.pending.Describe(ch)
}

// Collect implements the Collector interface
func (m *OutboxMetrics) Collect(ch chan<- prometheus.Metric) {
	m.pushesTotal.Collect(ch)
	m.pending.Collect(ch)
}

// RecordPush records the outcome of one push attempt
func (m *OutboxMetrics) RecordPush(op, outcome string) {
	if m == nil {
		return
	}
	m.pushesTotal.WithLabelValues(op, outcome).Inc()
}

// SetPending sets the current pending depth
func (m *OutboxMetrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
