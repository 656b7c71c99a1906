// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package store implements recommend.Store and recommend.VectorIndex on top
// of Postgres with the pgvector extension. Embeddings are stored as a
// fixed-dimension vector column and queried with pgvector's cosine-distance
// operator (<=>), backed by an HNSW index.
package store
