// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package reranking implements the deterministic, feature-weighted reranker
// that turns vector-index candidates into the final ordered, scored result.
//
// # Algorithm
//
// Each candidate is scored as a weighted sum of seven features (similarity,
// genre overlap, style overlap, runtime proximity, year proximity, language
// match, popularity quality) plus a tonal-mismatch penalty, then the whole
// batch is min-max normalized to [0,1]. In user mode, a second pass scores
// each candidate against the dislike context and subtracts a weighted
// dislike_score from the like_score.
//
// Ordering is deterministic: descending by final score, ties broken by
// ascending distance, then descending vote count, then ascending movie id.
//
// # Thread Safety
//
// Reranker is stateless and safe for concurrent use; the same instance
// serves every request.
package reranking
