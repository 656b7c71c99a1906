// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"math"
)

// ProfileBuilder recomputes a user's taste vector from their rating history.
// Engine.RateMovie runs it synchronously inside Store.WithRatingTx — no
// post-commit background job ever touches user_profiles.
type ProfileBuilder struct {
	cfg Config
}

// NewProfileBuilder constructs a ProfileBuilder bound to cfg.
func NewProfileBuilder(cfg Config) *ProfileBuilder {
	return &ProfileBuilder{cfg: cfg}
}

// ratingWeight returns w(r): 1.0 for 5, 0.8 for 4, NeutralRatingWeight for 3.
func (b *ProfileBuilder) ratingWeight(r int) float64 {
	switch r {
	case 5:
		return 1.0
	case 4:
		return 0.8
	case 3:
		return b.cfg.NeutralRatingWeight
	default:
		return 0
	}
}

// Rebuild computes the new profile vector for userID from its contributing
// ratings (status=watched AND rating>=3) and their embeddings. A zero-value
// result with ok=false means the caller must DELETE the user_profiles row.
func (b *ProfileBuilder) Rebuild(ctx context.Context, store Store, userID int64) (UserProfile, bool, error) {
	ratings, err := store.ListAllRatings(ctx, userID)
	if err != nil {
		return UserProfile{}, false, fmt.Errorf("profile builder: list ratings: %w", err)
	}

	dim := b.cfg.EmbeddingDimension
	sum := make([]float64, dim)
	var weightTotal float64
	contributors := 0

	for _, r := range ratings {
		if !r.IsContributor() {
			continue
		}
		emb, err := store.GetMovieEmbedding(ctx, r.MovieID)
		if err != nil {
			// No embedding: drop the contributor and continue, don't fail the rebuild.
			continue
		}
		w := b.ratingWeight(*r.Rating)
		if w <= 0 {
			continue
		}
		for i := 0; i < dim && i < len(emb.Embedding); i++ {
			sum[i] += w * float64(emb.Embedding[i])
		}
		weightTotal += w
		contributors++
	}

	if contributors == 0 || weightTotal == 0 {
		return UserProfile{}, false, nil
	}

	vec := make([]float32, dim)
	for i := range sum {
		vec[i] = float32(sum[i] / weightTotal)
	}
	l2Normalize(vec)

	return UserProfile{
		UserID:     userID,
		Embedding:  vec,
		NumRatings: contributors,
	}, true, nil
}

// l2Normalize scales v in place to unit length. A zero vector is left as-is
// (normalizing it would divide by zero and produce NaNs).
func l2Normalize(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
