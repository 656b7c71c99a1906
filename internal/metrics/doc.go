// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package metrics provides Prometheus instrumentation for the HTTP API and
// the recommendation engine. Metrics are exposed in text format at /metrics
// via promhttp.Handler.
//
// HTTP metrics:
//   - http_requests_total{method,path,status}
//   - http_request_duration_seconds{method,path}
//   - http_requests_in_flight
//
// Recommendation engine metrics:
//   - recommend_rerank_duration_seconds{operation}
//   - recommend_candidate_pool_size{operation}
//   - recommend_profile_rebuild_duration_seconds
//   - recommend_profile_rebuilds_total{outcome}
//   - recommend_circuit_breaker_state{name}
//   - recommend_circuit_breaker_requests_total{name,outcome}
//   - recommend_retries_total{name}
package metrics
