// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"math"
	"sort"
)

// StyleKeywords is the deploy-time allowlist of style/tone tokens considered
// during scoring. It is a compile-time-initialized set, not loaded from the
// database, so scoring inputs stay hermetic and reviewable.
var StyleKeywords = map[string]struct{}{
	"neo-noir":               {},
	"whodunit":               {},
	"nonlinear timeline":     {},
	"psychological thriller": {},
	"mind-bending":           {},
	"unreliable narrator":    {},
	"twist ending":           {},
	"time loop":              {},
	"found footage":          {},
	"slow burn":              {},
	"coming of age":          {},
	"dark comedy":            {},
	"ensemble cast":          {},
	"based on true story":    {},
	"anthology":              {},
}

// ContextBuilder assembles per-user like/dislike ScoringContext signals
// from recent ratings.
type ContextBuilder struct {
	cfg Config
}

// NewContextBuilder constructs a ContextBuilder bound to cfg.
func NewContextBuilder(cfg Config) *ContextBuilder {
	return &ContextBuilder{cfg: cfg}
}

// BuildContext loads the user's ScoringContextLimit most recent ratings and
// splits them into like/dislike feature bundles.
func (b *ContextBuilder) BuildContext(ctx context.Context, store Store, userID int64) (ScoringContext, error) {
	all, err := store.ListAllRatings(ctx, userID)
	if err != nil {
		return ScoringContext{}, err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	if len(all) > b.cfg.ScoringContextLimit {
		all = all[:b.cfg.ScoringContextLimit]
	}

	var likes, dislikes []Rating
	for _, r := range all {
		switch {
		case r.IsLike():
			likes = append(likes, r)
		case r.IsDislike():
			dislikes = append(dislikes, r)
		}
	}

	likeBundle := b.aggregate(ctx, store, likes)
	dislikeBundle := b.aggregate(ctx, store, dislikes)
	centroid := b.dislikeCentroid(ctx, store, dislikes)

	return ScoringContext{
		LikeContext:              likeBundle,
		DislikeContext:           dislikeBundle,
		DislikeEmbeddingCentroid: centroid,
		DislikeCount:             len(dislikes),
	}, nil
}

// aggregate builds a FeatureBundle from one side's ratings: top genres by
// frequency, top allowlisted style keywords by frequency, mean runtime,
// mean release year, and the mode of original_language.
func (b *ContextBuilder) aggregate(ctx context.Context, store Store, ratings []Rating) FeatureBundle {
	genreCounts := map[string]int{}
	keywordCounts := map[string]int{}
	langCounts := map[string]int{}
	var runtimeSum, yearSum float64
	n := 0

	for _, r := range ratings {
		m, err := store.GetMovie(ctx, r.MovieID)
		if err != nil {
			continue
		}
		for _, g := range m.Genres {
			genreCounts[g]++
		}
		for _, kw := range m.Keywords {
			if _, ok := StyleKeywords[kw]; ok {
				keywordCounts[kw]++
			}
		}
		if m.OriginalLanguage != "" {
			langCounts[m.OriginalLanguage]++
		}
		runtimeSum += float64(m.Runtime)
		if !m.ReleaseDate.IsZero() {
			yearSum += float64(m.ReleaseDate.Year())
		}
		n++
	}

	bundle := FeatureBundle{
		Genres:        topByFrequency(genreCounts, b.cfg.MaxScoringGenres),
		StyleKeywords: topByFrequency(keywordCounts, b.cfg.MaxScoringKeywords),
		ModeLanguage:  modeOf(langCounts),
	}
	if n > 0 {
		bundle.MeanRuntime = runtimeSum / float64(n)
		bundle.MeanReleaseYear = yearSum / float64(n)
	}
	return bundle
}

// dislikeCentroid computes a unit-normalized centroid of the embeddings of
// dislike-rated movies that have one; nil if none do.
func (b *ContextBuilder) dislikeCentroid(ctx context.Context, store Store, dislikes []Rating) []float32 {
	dim := b.cfg.EmbeddingDimension
	sum := make([]float32, dim)
	count := 0
	for _, r := range dislikes {
		emb, err := store.GetMovieEmbedding(ctx, r.MovieID)
		if err != nil {
			continue
		}
		for i := 0; i < dim && i < len(emb.Embedding); i++ {
			sum[i] += emb.Embedding[i]
		}
		count++
	}
	if count == 0 {
		return nil
	}
	l2Normalize(sum)
	return sum
}

// topByFrequency returns the keys of counts ordered by descending count
// (ties broken alphabetically for determinism), truncated to max.
func topByFrequency(counts map[string]int, max int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > max {
		keys = keys[:max]
	}
	return keys
}

// modeOf returns the most frequent key, breaking ties alphabetically.
func modeOf(counts map[string]int) string {
	best := ""
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best = k
			bestCount = c
		}
	}
	return best
}

// CosineDistance computes 1 - cosine_similarity(a, b). Exported for the
// reranking package's dislike-centroid similarity term; it does not assume
// either vector is unit-norm. Returns 1 (neutral, neither similar nor
// dissimilar) if either vector is empty or zero-length.
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Log10Clamped computes log10(1+x)/log10(1+cap) clamped to [0,1]. Exported
// for the reranking package's popularity-quality feature.
func Log10Clamped(x, cap float64) float64 {
	if cap <= 0 {
		return 0
	}
	v := math.Log10(1+x) / math.Log10(1+cap)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
