// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode string
		duration   time.Duration
	}{
		{"successful GET", "GET", "/v1/movies/{id}", "200", 5 * time.Millisecond},
		{"successful POST", "POST", "/v1/users", "200", 12 * time.Millisecond},
		{"not found", "GET", "/v1/movies/{id}", "404", 2 * time.Millisecond},
		{"bad request", "GET", "/v1/movies/{id}/similar", "400", time.Millisecond},
		{"internal error", "GET", "/v1/users/{id}/recommendations", "500", 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAPIRequest(tt.method, tt.path, tt.statusCode, tt.duration)
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsInFlight)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(httpRequestsInFlight); got != before+1 {
		t.Errorf("after start: got %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(httpRequestsInFlight); got != before {
		t.Errorf("after end: got %v, want %v", got, before)
	}
}

func TestTrackActiveRequest_Lifecycle(t *testing.T) {
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}
}

func TestRecordRerank(t *testing.T) {
	tests := []struct {
		operation string
		duration  time.Duration
		poolSize  int
	}{
		{"similar", 3 * time.Millisecond, 40},
		{"recommendations", 8 * time.Millisecond, 120},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			RecordRerank(tt.operation, tt.duration, tt.poolSize)
		})
	}
}

func TestRecordProfileRebuild(t *testing.T) {
	upsertedBefore := testutil.ToFloat64(ProfileRebuildsTotal.WithLabelValues("upserted"))
	RecordProfileRebuild(5*time.Millisecond, false)
	if got := testutil.ToFloat64(ProfileRebuildsTotal.WithLabelValues("upserted")); got != upsertedBefore+1 {
		t.Errorf("upserted count: got %v, want %v", got, upsertedBefore+1)
	}

	deletedBefore := testutil.ToFloat64(ProfileRebuildsTotal.WithLabelValues("deleted"))
	RecordProfileRebuild(time.Millisecond, true)
	if got := testutil.ToFloat64(ProfileRebuildsTotal.WithLabelValues("deleted")); got != deletedBefore+1 {
		t.Errorf("deleted count: got %v, want %v", got, deletedBefore+1)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	const goroutines = 50
	const perGoroutine = 50

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				RecordAPIRequest("GET", "/v1/movies/{id}", "200", time.Duration(j)*time.Millisecond)
				TrackActiveRequest(true)
				TrackActiveRequest(false)
				RecordRerank("similar", time.Duration(j)*time.Millisecond, j)
				RecordProfileRebuild(time.Duration(j)*time.Millisecond, j%2 == 0)
			}
		}()
	}
	wg.Wait()
}

func TestRecordCircuitBreakerState(t *testing.T) {
	RecordCircuitBreakerState("vector_index", 0)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("vector_index")); got != 0 {
		t.Errorf("closed state: got %v, want 0", got)
	}
	RecordCircuitBreakerState("vector_index", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("vector_index")); got != 2 {
		t.Errorf("open state: got %v, want 2", got)
	}
}

func TestRecordCircuitBreakerRequest(t *testing.T) {
	before := testutil.ToFloat64(CircuitBreakerRequestsTotal.WithLabelValues("store", "failure"))
	RecordCircuitBreakerRequest("store", "failure")
	if got := testutil.ToFloat64(CircuitBreakerRequestsTotal.WithLabelValues("store", "failure")); got != before+1 {
		t.Errorf("got %v, want %v", got, before+1)
	}
}

func TestRecordRetry(t *testing.T) {
	before := testutil.ToFloat64(RetriesTotal.WithLabelValues("vector_index"))
	RecordRetry("vector_index")
	if got := testutil.ToFloat64(RetriesTotal.WithLabelValues("vector_index")); got != before+1 {
		t.Errorf("got %v, want %v", got, before+1)
	}
}

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,
		RerankDuration,
		CandidatePoolSize,
		ProfileRebuildDuration,
		ProfileRebuildsTotal,
		CircuitBreakerState,
		CircuitBreakerRequestsTotal,
		RetriesTotal,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("collector has no descriptors")
		}
	}
}

func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/v1/health", "200", time.Millisecond)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/v1/movies/{id}", "200", 5*time.Millisecond)
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}
