// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import "fmt"

// Config holds every tunable of the personalization/similarity engine.
// It is loaded once at process start (see internal/config) and never
// mutated afterward; callers share a single *Config by reference.
type Config struct {
	// NeutralRatingWeight is the profile-aggregation weight for a
	// rating=3 contributor.
	// Default: 0.2
	NeutralRatingWeight float64

	// DislikeWeight scales the dislike-context score subtracted from the
	// like-context score in user-mode reranking.
	// Default: 0.35
	DislikeWeight float64

	// DislikeMinCount is the minimum number of dislike ratings before the
	// dislike-aware penalty is applied at all.
	// Default: 3
	DislikeMinCount int

	// ScoringContextLimit is how many of a user's most recent ratings feed
	// BuildContext.
	// Default: 50
	ScoringContextLimit int

	// RerankFetchMultiplier controls how many candidates are over-fetched
	// from the Vector Index relative to the requested page size, to absorb
	// post-retrieval filtering.
	// Default: 5
	RerankFetchMultiplier int

	// MaxFetchCandidates caps the absolute number of candidates pulled
	// from the Vector Index per request regardless of the multiplier.
	// Default: 500
	MaxFetchCandidates int

	// MaxScoringGenres caps how many distinct genres (by frequency) are
	// kept per side of a ScoringContext.
	// Default: 8
	MaxScoringGenres int

	// MaxScoringKeywords caps how many allowlisted style keywords (by
	// frequency) are kept per side of a ScoringContext.
	// Default: 8
	MaxScoringKeywords int

	// SimCandidatesK is the default Vector Index fetch size for the
	// similar-movies endpoint before reranking.
	// Default: 100
	SimCandidatesK int

	// SimTopN is the default number of results returned by the similar
	// endpoint when the caller does not specify k.
	// Default: 20
	SimTopN int

	// SimRerankEnabled toggles whether the similar endpoint applies the
	// full feature-weighted reranker or returns raw vector-index order.
	// Default: true
	SimRerankEnabled bool

	// EmbeddingDimension is the deploy-time constant D for movie and
	// profile embeddings. Fixed for the lifetime of a deployment; see
	// DESIGN.md for the chosen value and rationale.
	// Default: 768
	EmbeddingDimension int

	// VoteCountCap bounds the popularity-quality feature's logarithmic
	// scale in the reranker.
	// Default: 100000
	VoteCountCap int64
}

// DefaultConfig returns a Config populated with the documented default for every tunable.
func DefaultConfig() Config {
	return Config{
		NeutralRatingWeight:   0.2,
		DislikeWeight:         0.35,
		DislikeMinCount:       3,
		ScoringContextLimit:   50,
		RerankFetchMultiplier: 5,
		MaxFetchCandidates:    500,
		MaxScoringGenres:      8,
		MaxScoringKeywords:    8,
		SimCandidatesK:        100,
		SimTopN:               20,
		SimRerankEnabled:      true,
		EmbeddingDimension:    768,
		VoteCountCap:          100000,
	}
}

// Validate checks every field is within an operable range, failing fast at
// startup rather than producing silently wrong scores at request time.
func (c Config) Validate() error {
	if c.NeutralRatingWeight < 0 || c.NeutralRatingWeight > 1 {
		return fmt.Errorf("neutral rating weight must be in [0,1], got %f", c.NeutralRatingWeight)
	}
	if c.DislikeWeight < 0 || c.DislikeWeight > 1 {
		return fmt.Errorf("dislike weight must be in [0,1], got %f", c.DislikeWeight)
	}
	if c.DislikeMinCount < 0 {
		return fmt.Errorf("dislike min count must be >= 0, got %d", c.DislikeMinCount)
	}
	if c.ScoringContextLimit <= 0 {
		return fmt.Errorf("scoring context limit must be > 0, got %d", c.ScoringContextLimit)
	}
	if c.RerankFetchMultiplier <= 0 {
		return fmt.Errorf("rerank fetch multiplier must be > 0, got %d", c.RerankFetchMultiplier)
	}
	if c.MaxFetchCandidates <= 0 {
		return fmt.Errorf("max fetch candidates must be > 0, got %d", c.MaxFetchCandidates)
	}
	if c.MaxScoringGenres <= 0 {
		return fmt.Errorf("max scoring genres must be > 0, got %d", c.MaxScoringGenres)
	}
	if c.MaxScoringKeywords <= 0 {
		return fmt.Errorf("max scoring keywords must be > 0, got %d", c.MaxScoringKeywords)
	}
	if c.SimCandidatesK <= 0 {
		return fmt.Errorf("sim candidates k must be > 0, got %d", c.SimCandidatesK)
	}
	if c.SimTopN <= 0 {
		return fmt.Errorf("sim top n must be > 0, got %d", c.SimTopN)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding dimension must be > 0, got %d", c.EmbeddingDimension)
	}
	if c.VoteCountCap <= 0 {
		return fmt.Errorf("vote count cap must be > 0, got %d", c.VoteCountCap)
	}
	return nil
}

// FetchSize computes k_fetch: min(MaxFetchCandidates, kFinal*RerankFetchMultiplier).
func (c Config) FetchSize(kFinal int) int {
	fetch := kFinal * c.RerankFetchMultiplier
	if fetch > c.MaxFetchCandidates {
		return c.MaxFetchCandidates
	}
	if fetch <= 0 {
		return c.MaxFetchCandidates
	}
	return fetch
}
