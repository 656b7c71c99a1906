// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests handled, by method, route pattern, and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// RerankDuration times one reranker pass, labeled by the orchestrator
	// operation that invoked it (similar, recommendations, match).
	RerankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_rerank_duration_seconds",
			Help:    "Duration of a reranker pass in seconds, by operation.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CandidatePoolSize records how many candidates the Sourcer produced
	// before truncation, labeled by operation.
	CandidatePoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_candidate_pool_size",
			Help:    "Number of candidates sourced before reranking, by operation.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"operation"},
	)

	// ProfileRebuildDuration times the synchronous profile recompute inside
	// RateMovie.
	ProfileRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_profile_rebuild_duration_seconds",
			Help:    "Duration of a synchronous user profile rebuild in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ProfileRebuildsTotal counts rebuild outcomes: "upserted" when the
	// profile gained a contributor set, "deleted" when the last contributor
	// was removed.
	ProfileRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_profile_rebuilds_total",
			Help: "Total profile rebuilds, by outcome.",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState tracks each Store/Index dependency breaker's
	// current state (0=closed, 1=half-open, 2=open), by breaker name.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open), by dependency.",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequestsTotal counts requests through a breaker by
	// outcome: "success", "failure", or "rejected" (breaker open).
	CircuitBreakerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_circuit_breaker_requests_total",
			Help: "Total requests attempted through a Store/Index circuit breaker, by outcome.",
		},
		[]string{"name", "outcome"},
	)

	// RetriesTotal counts read-path retries attempted after a transient
	// Store/Index error, by dependency name.
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_retries_total",
			Help: "Total single retries attempted after a transient Store/Index error, by dependency.",
		},
		[]string{"name"},
	)
)

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(starting bool) {
	if starting {
		httpRequestsInFlight.Inc()
		return
	}
	httpRequestsInFlight.Dec()
}

// RecordAPIRequest records one completed HTTP request's count and latency.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRerank records one reranker pass.
func RecordRerank(operation string, duration time.Duration, poolSize int) {
	RerankDuration.WithLabelValues(operation).Observe(duration.Seconds())
	CandidatePoolSize.WithLabelValues(operation).Observe(float64(poolSize))
}

// RecordProfileRebuild records the outcome of a synchronous profile rebuild.
func RecordProfileRebuild(duration time.Duration, deleted bool) {
	ProfileRebuildDuration.Observe(duration.Seconds())
	outcome := "upserted"
	if deleted {
		outcome = "deleted"
	}
	ProfileRebuildsTotal.WithLabelValues(outcome).Inc()
}

// RecordCircuitBreakerState updates the gauge for one breaker's state.
func RecordCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerRequest counts one attempt through a breaker.
func RecordCircuitBreakerRequest(name, outcome string) {
	CircuitBreakerRequestsTotal.WithLabelValues(name, outcome).Inc()
}

// RecordRetry counts one retry attempted after a transient error.
func RecordRetry(name string) {
	RetriesTotal.WithLabelValues(name).Inc()
}
