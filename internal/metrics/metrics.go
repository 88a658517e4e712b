package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus collectors the controllers and the
// assistant dispatcher report into.
type Metrics struct {
	Mutations        *prometheus.CounterVec
	DispatchRetries  prometheus.Counter
	DispatchFailures *prometheus.CounterVec
	DispatchDuration prometheus.Histogram
	SnapshotHits     prometheus.Counter
	SnapshotMisses   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gnatwriter_mutations_total",
			Help: "Mutating controller calls by entity type and operation.",
		}, []string{"entity", "operation"}),
		DispatchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnatwriter_dispatch_retries_total",
			Help: "Assistant dispatch attempts retried after connectivity failures.",
		}),
		DispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gnatwriter_dispatch_failures_total",
			Help: "Assistant dispatches that ended in an error, by kind.",
		}, []string{"kind"}),
		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gnatwriter_dispatch_duration_seconds",
			Help:    "Wall time of assistant dispatches including retries.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		SnapshotHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnatwriter_snapshot_cache_hits_total",
			Help: "Story snapshot cache hits.",
		}),
		SnapshotMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnatwriter_snapshot_cache_misses_total",
			Help: "Story snapshot cache misses.",
		}),
	}
	reg.MustRegister(
		m.Mutations,
		m.DispatchRetries,
		m.DispatchFailures,
		m.DispatchDuration,
		m.SnapshotHits,
		m.SnapshotMisses,
	)
	return m
}
