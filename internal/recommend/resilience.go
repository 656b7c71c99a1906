// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/metrics"
)

// isTransient classifies a Store/Index read failure as worth one retry.
// The not-found and validation sentinels are definitive outcomes, never
// transient I/O hiccups, so they are excluded.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrMovieNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrEmbeddingNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrInvalidArgument):
		return false
	default:
		return true
	}
}

// newBreaker builds a circuit breaker for one Store/Index dependency. It
// opens once a rolling minute sees at least 10 requests with a 60% failure
// rate, and probes again after 30 seconds half-open, letting up to 3
// requests through while half-open.
func newBreaker[T any](name string) *gobreaker.CircuitBreaker[T] {
	metrics.RecordCircuitBreakerState(name, stateToFloat(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.RecordCircuitBreakerState(name, stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// withRetry executes fn through cb and, if the first attempt fails with a
// transient error and ctx still has room to run it again, retries exactly
// once. Both attempts are recorded against cb, so a dependency that is
// genuinely down trips the breaker at the same rate as without the retry.
func withRetry[T any](ctx context.Context, name string, cb *gobreaker.CircuitBreaker[T], fn func() (T, error)) (T, error) {
	result, err := cb.Execute(func() (T, error) { return fn() })
	recordBreakerOutcome(name, err)
	if err == nil || !isTransient(err) || ctx.Err() != nil {
		return result, err
	}
	metrics.RecordRetry(name)
	result, err = cb.Execute(func() (T, error) { return fn() })
	recordBreakerOutcome(name, err)
	return result, err
}

func recordBreakerOutcome(name string, err error) {
	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(name, "success")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(name, "rejected")
	default:
		metrics.RecordCircuitBreakerRequest(name, "failure")
	}
}
