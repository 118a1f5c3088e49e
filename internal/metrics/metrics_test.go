package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewResolverMetrics(registry)
	require.NoError(t, err)

	m.RecordResolution("exact", 20*time.Millisecond)
	m.RecordResolution("exact", 30*time.Millisecond)
	m.RecordResolution("none", time.Second)
	m.RecordPageFetch(StatusSuccess)
	m.RecordPageFetch(StatusError)
	m.RecordCandidates(25)
	m.RecordCandidates(-1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("exact")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("none")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.pageFetchesTotal.WithLabelValues(StatusError)), 0)
	assert.InDelta(t, 25, testutil.ToFloat64(m.candidatesScored), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.resolutionDuration))
}

func TestResolverMetricsDoubleRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewResolverMetrics(registry)
	require.NoError(t, err)

	_, err = NewResolverMetrics(registry)
	assert.Error(t, err)
}

func TestOutboxMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewOutboxMetrics(registry)
	require.NoError(t, err)

	m.RecordPush("set", "delivered")
	m.RecordPush("delete", "retry")
	m.SetPending(3)

	assert.InDelta(t, 1, testutil.ToFloat64(m.pushesTotal.WithLabelValues("set", "delivered")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.pending), 0)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var r *ResolverMetrics
	var o *OutboxMetrics

	assert.NotPanics(t, func() {
		r.RecordResolution("none", time.Second)
		r.RecordPageFetch(StatusSuccess)
		r.RecordCandidates(1)
		o.RecordPush("set", "failed")
		o.SetPending(1)
	})
}
