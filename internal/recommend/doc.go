// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package recommend implements Taste-Kid's personalization and similarity
// engine: taste-vector maintenance, ANN candidate retrieval, and a
// deterministic feature-weighted reranker.
//
// # Architecture
//
// A rating mutation updates the Store and synchronously rewrites the
// user's row in user_profiles via the ProfileBuilder. A read request
// resolves a query vector (profile or anchor movie), asks the Sourcer for
// a filtered candidate pool, the ContextBuilder assembles like/dislike
// signals from recent ratings, and the reranking package produces the
// final ordered, scored result. The Engine composes these into the five
// read operations: Similar, Recommendations, Feed, Match, Next.
//
// # Design Principles
//
//   - Deterministic: identical inputs produce identical ordering and scores
//   - No background jobs: profile recompute is synchronous and in-transaction
//   - No global mutable state: every request is independent
//   - Typed failures: sentinel errors, mapped once at the transport boundary
//
// # Thread Safety
//
// Engine holds no mutable state; one instance safely serves concurrent
// requests. The only shared mutable state is in the Store's connection
// pool and Postgres itself.
package recommend
