// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package main is the entry point for the Taste-Kid recommendation server.
//
// Taste-Kid personalizes movie discovery from a catalog of pre-computed
// content embeddings: it builds a per-user taste vector from ratings,
// sources nearest-neighbor candidates from a Postgres + pgvector index,
// and reranks them against a deterministic, feature-weighted scoring
// function.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: load settings from built-in defaults and environment
//     variables (Koanf v2)
//  2. Logging: initialize zerolog with the configured level and format
//  3. Store: open the Postgres + pgvector connection pool and ensure the
//     schema exists
//  4. Engine: wire the Store as both recommend.Store and
//     recommend.VectorIndex into a recommend.Engine
//  5. HTTP Server: the /v1 API, instrumented with request id, access
//     logging, CORS, rate limiting, and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, then built-in defaults. See
// internal/config for the full set of recognized keys.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests to complete
// (bounded by a shutdown timeout), then closes the store's connection pool.
package main
