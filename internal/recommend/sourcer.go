// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
)

// hydrateConcurrency bounds how many Store round trips (GetMovie +
// GetMovieEmbedding) run at once while hydrating a candidate batch.
const hydrateConcurrency = 8

// Sourcer produces an expanded, filtered candidate set for a query vector,
// based on the over-fetch multiplier. Its three read dependencies (the
// Vector Index, and the Store's movie and embedding lookups) each sit
// behind their own circuit breaker; a transient failure on any of them is
// retried once before the candidate is dropped.
type Sourcer struct {
	cfg   Config
	index VectorIndex

	indexBreaker     *gobreaker.CircuitBreaker[[]IndexHit]
	movieBreaker     *gobreaker.CircuitBreaker[Movie]
	embeddingBreaker *gobreaker.CircuitBreaker[MovieEmbedding]
}

// NewSourcer constructs a Sourcer bound to cfg and the given Vector Index.
func NewSourcer(cfg Config, index VectorIndex) *Sourcer {
	return &Sourcer{
		cfg:              cfg,
		index:            index,
		indexBreaker:     newBreaker[[]IndexHit]("vector_index"),
		movieBreaker:     newBreaker[Movie]("store.movie"),
		embeddingBreaker: newBreaker[MovieEmbedding]("store.embedding"),
	}
}

// Source fetches k_fetch candidates from the Vector Index for query, then
// applies filters in order: drop excludeID (anchor
// mode), drop seen ids (user mode), hydrate and drop any without an
// embedding. Order is preserved (ascending distance).
func (s *Sourcer) Source(ctx context.Context, store Store, query []float32, kFinal int, excludeID int64, seen map[int64]struct{}) ([]Candidate, error) {
	kFetch := s.cfg.FetchSize(kFinal)
	hits, err := withRetry(ctx, "vector_index", s.indexBreaker, func() ([]IndexHit, error) {
		return s.index.KNN(ctx, query, kFetch)
	})
	if err != nil {
		return nil, fmt.Errorf("candidate sourcer: knn: %w", err)
	}

	kept := make([]IndexHit, 0, len(hits))
	for _, h := range hits {
		if excludeID != 0 && h.MovieID == excludeID {
			continue
		}
		if seen != nil {
			if _, isSeen := seen[h.MovieID]; isSeen {
				continue
			}
		}
		kept = append(kept, h)
	}

	// Hydration is one Store round trip per candidate (movie row plus an
	// embedding existence check); fan those out instead of paying the
	// latency serially.
	hydrated := make([]*Candidate, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateConcurrency)
	for i, h := range kept {
		i, h := i, h
		g.Go(func() error {
			m, err := withRetry(gctx, "store.movie", s.movieBreaker, func() (Movie, error) {
				return store.GetMovie(gctx, h.MovieID)
			})
			if err != nil {
				return nil // dropped below, not fatal to the batch
			}
			emb, err := withRetry(gctx, "store.embedding", s.embeddingBreaker, func() (MovieEmbedding, error) {
				return store.GetMovieEmbedding(gctx, h.MovieID)
			})
			if err != nil {
				// Defensive: index returned an id whose embedding vanished.
				return nil
			}
			hydrated[i] = &Candidate{Movie: m, Distance: h.Distance, Embedding: emb.Embedding, HasScore: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("candidate sourcer: hydrate: %w", err)
	}

	candidates := make([]Candidate, 0, len(hydrated))
	for _, c := range hydrated {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates, nil
}
