package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
)

var (
	resolutionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cid",
			Subsystem: "lookup",
			Name:      "outcomes_total",
			Help:      "Resolution outcomes by kind",
		},
		[]string{"kind"},
	)

	providerQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cid",
			Subsystem: "provider",
			Name:      "queries_total",
			Help:      "Provider queries by provider and result status",
		},
		[]string{"provider", "status"},
	)

	providerQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cid",
			Subsystem: "provider",
			Name:      "query_duration_seconds",
			Help:      "Provider query duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"provider"},
	)
)

// prometheusMetrics feeds resolution observations into the process-wide
// Prometheus registry exposed on /metrics.
type prometheusMetrics struct{}

func (prometheusMetrics) RecordOutcome(kind identity.OutcomeKind) {
	resolutionOutcomes.WithLabelValues(string(kind)).Inc()
}

func (prometheusMetrics) RecordProviderQuery(provider string, status identity.ResultStatus, duration time.Duration) {
	providerQueries.WithLabelValues(provider, string(status)).Inc()
	providerQueryDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
