// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/metrics"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend/reranking"
)

// Reranker is the subset of reranking.Reranker the engine depends on. The
// orchestrator is declared against this narrow interface rather than the
// concrete type so it stays testable without the reranking package.
type Reranker interface {
	Rerank(candidates []Candidate, features FeatureBundle) []ScoredCandidate
	RerankWithDislikes(candidates []Candidate, sctx ScoringContext) []ScoredCandidate
	Score(c Candidate, sctx ScoringContext) float64
}

// Engine composes the Store, Vector Index, Profile Builder, Candidate
// Sourcer, Scoring Context builder, and Reranker into the five read
// operations and the rating-mutation write path. It holds no mutable state
// of its own — every request is independent.
type Engine struct {
	cfg      Config
	store    Store
	sourcer  *Sourcer
	profiles *ProfileBuilder
	context  *ContextBuilder
	reranker Reranker
	logger   zerolog.Logger
}

// NewEngine wires a ready-to-serve Engine. index and store are the only
// I/O-performing dependencies; everything else is pure computation.
func NewEngine(cfg Config, store Store, index VectorIndex, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}
	return &Engine{
		cfg:      cfg,
		store:    store,
		sourcer:  NewSourcer(cfg, index),
		profiles: NewProfileBuilder(cfg),
		context:  NewContextBuilder(cfg),
		reranker: reranking.New(cfg),
		logger:   logger.With().Str("component", "recommend.Engine").Logger(),
	}, nil
}

// Store exposes the backing Store for operations the engine itself does not
// orchestrate (user lookups, rating listing, the popularity queue), so the
// transport layer only needs to depend on one Engine, not Engine and Store.
func (e *Engine) Store() Store {
	return e.store
}

// RateMovie upserts a rating and synchronously recomputes the user's
// profile inside a single Store-managed transaction (Store.WithRatingTx),
// so the two never commit independently. Rebuilds are synchronous, not
// deferred to a background job.
func (e *Engine) RateMovie(ctx context.Context, userID, movieID int64, rating *int, status RatingStatus) error {
	return e.store.WithRatingTx(ctx, userID, func(tx Store) error {
		if err := tx.UpsertRating(ctx, userID, movieID, rating, status); err != nil {
			return fmt.Errorf("engine: upsert rating: %w", err)
		}

		start := time.Now()
		profile, ok, err := e.profiles.Rebuild(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("engine: rebuild profile: %w", err)
		}
		if !ok {
			if err := tx.DeleteProfile(ctx, userID); err != nil {
				return fmt.Errorf("engine: delete profile: %w", err)
			}
			metrics.RecordProfileRebuild(time.Since(start), true)
			return nil
		}
		if err := tx.UpsertProfile(ctx, userID, profile.Embedding, profile.NumRatings); err != nil {
			return fmt.Errorf("engine: upsert profile: %w", err)
		}
		metrics.RecordProfileRebuild(time.Since(start), false)
		return nil
	})
}

// Similar runs anchor-mode sourcing reranked against the
// anchor movie's own feature bundle.
func (e *Engine) Similar(ctx context.Context, movieID int64, k int) ([]ScoredCandidate, error) {
	anchor, err := e.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("engine: similar: %w", ErrMovieNotFound)
	}
	anchorEmb, err := e.store.GetMovieEmbedding(ctx, movieID)
	if err != nil {
		return nil, ErrEmbeddingNotFound
	}

	candidates, err := e.sourcer.Source(ctx, e.store, anchorEmb.Embedding, k, movieID, nil)
	if err != nil {
		return nil, err
	}

	if !e.cfg.SimRerankEnabled {
		return passthroughScores(candidates, k), nil
	}

	start := time.Now()
	features := reranking.FeatureBundleFromMovie(anchor)
	scored := e.reranker.Rerank(candidates, features)
	metrics.RecordRerank("similar", time.Since(start), len(candidates))
	return truncate(scored, k), nil
}

// Recommendations runs user-mode sourcing reranked with
// like/dislike contexts. Fails ProfileNotFound if the user has no profile.
func (e *Engine) Recommendations(ctx context.Context, userID int64, k int) ([]ScoredCandidate, error) {
	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	seen, err := e.store.GetSeenMovieIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("engine: recommendations: seen ids: %w", err)
	}

	candidates, err := e.sourcer.Source(ctx, e.store, profile.Embedding, k, 0, seen)
	if err != nil {
		return nil, err
	}

	sctx, err := e.context.BuildContext(ctx, e.store, userID)
	if err != nil {
		return nil, fmt.Errorf("engine: recommendations: scoring context: %w", err)
	}

	start := time.Now()
	scored := e.reranker.RerankWithDislikes(candidates, sctx)
	metrics.RecordRerank("recommendations", time.Since(start), len(candidates))
	return truncate(scored, k), nil
}

// Feed is identical to Recommendations when a profile
// exists, otherwise falls back to the popularity queue with score=null.
func (e *Engine) Feed(ctx context.Context, userID int64, k, cursor int) ([]ScoredCandidate, bool, error) {
	recs, err := e.Recommendations(ctx, userID, k)
	if err == nil {
		return recs, false, nil
	}
	if err != ErrProfileNotFound {
		return nil, false, err
	}

	seen, err := e.store.GetSeenMovieIDs(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("engine: feed: seen ids: %w", err)
	}
	movies, hasMore, err := e.store.PopularityQueue(ctx, seen, k, cursor)
	if err != nil {
		return nil, false, fmt.Errorf("engine: feed: popularity queue: %w", err)
	}
	return popularityToScored(movies), hasMore, nil
}

// Match scores a single candidate against the user's
// contexts via the full reranker path, returned as a 0-100 integer. Returns
// (0, false, nil) when the user has no profile or the movie has no
// embedding — both are soft cases, not errors.
func (e *Engine) Match(ctx context.Context, userID, movieID int64) (int, bool, error) {
	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return 0, false, nil
	}

	movie, err := e.store.GetMovie(ctx, movieID)
	if err != nil {
		return 0, false, nil
	}
	emb, err := e.store.GetMovieEmbedding(ctx, movieID)
	if err != nil {
		return 0, false, nil
	}

	sctx, err := e.context.BuildContext(ctx, e.store, userID)
	if err != nil {
		return 0, false, fmt.Errorf("engine: match: scoring context: %w", err)
	}

	candidate := Candidate{
		Movie:     movie,
		Distance:  CosineDistance(emb.Embedding, profile.Embedding),
		Embedding: emb.Embedding,
		HasScore:  true,
	}
	score := e.reranker.Score(candidate, sctx)
	return scoreToPercent(score), true, nil
}

// Next pops one item from the popularity queue
// excluding seen ids. When the user has a profile, movies without an
// embedding are skipped.
func (e *Engine) Next(ctx context.Context, userID int64) (Movie, bool, error) {
	seen, err := e.store.GetSeenMovieIDs(ctx, userID)
	if err != nil {
		return Movie{}, false, fmt.Errorf("engine: next: seen ids: %w", err)
	}
	_, profileErr := e.store.GetProfile(ctx, userID)
	if profileErr != nil && profileErr != ErrProfileNotFound {
		return Movie{}, false, fmt.Errorf("engine: next: profile: %w", profileErr)
	}
	for cursor := 0; ; cursor++ {
		movies, hasMore, err := e.store.PopularityQueue(ctx, seen, 1, cursor)
		if err != nil {
			return Movie{}, false, fmt.Errorf("engine: next: popularity queue: %w", err)
		}
		if len(movies) == 0 {
			return Movie{}, false, nil
		}
		if profileErr != nil {
			return movies[0], true, nil
		}
		if _, err := e.store.GetMovieEmbedding(ctx, movies[0].ID); err == nil {
			return movies[0], true, nil
		}
		if !hasMore {
			return Movie{}, false, nil
		}
	}
}

func scoreToPercent(score float64) int {
	pct := int(score*100 + 0.5)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func truncate(scored []ScoredCandidate, k int) []ScoredCandidate {
	if k <= 0 || len(scored) <= k {
		return scored
	}
	return scored[:k]
}

// passthroughScores is used when SimRerankEnabled=false: raw vector-index
// order, similarity-only score.
func passthroughScores(candidates []Candidate, k int) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		s := 1 - c.Distance
		if s < 0 {
			s = 0
		}
		if s > 1 {
			s = 1
		}
		out = append(out, ScoredCandidate{Candidate: c, Score: &s})
	}
	return truncate(out, k)
}

func popularityToScored(movies []Movie) []ScoredCandidate {
	out := make([]ScoredCandidate, len(movies))
	for i, m := range movies {
		out[i] = ScoredCandidate{Candidate: Candidate{Movie: m, HasScore: false}, Score: nil}
	}
	return out
}
