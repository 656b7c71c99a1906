// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package reranking

import (
	"math"
	"sort"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// Feature weights for the weighted-sum scoring function.
const (
	weightSimilarity        = 1.00
	weightGenreOverlap      = 0.25
	weightStyleOverlap      = 0.15
	weightRuntimeProximity  = 0.05
	weightYearProximity     = 0.05
	weightLanguageMatch     = 0.05
	weightPopularityQuality = 0.05
	weightTonalMismatch     = -0.10
)

var tonalGroupA = map[string]struct{}{"horror": {}, "thriller": {}}
var tonalGroupB = map[string]struct{}{"family": {}, "animation": {}}

// Reranker is the stateless, deterministic feature-weighted scorer.
type Reranker struct {
	cfg recommend.Config
}

// New constructs a Reranker bound to cfg.
func New(cfg recommend.Config) *Reranker {
	return &Reranker{cfg: cfg}
}

// rawScore computes the unnormalized weighted-feature sum for one candidate
// against one feature bundle. distance is the cosine distance driving the
// similarity term — the candidate's distance to the query vector for a
// like-mode pass, or its distance to the dislike embedding centroid for a
// dislike-mode pass; these are never the same number, so the caller picks it.
func (rk *Reranker) rawScore(c recommend.Candidate, features recommend.FeatureBundle, distance float64) float64 {
	similarity := clamp01(1 - distance)
	genreOverlap := jaccard(c.Movie.Genres, features.Genres)
	styleOverlap := jaccard(allowlisted(c.Movie.Keywords), features.StyleKeywords)
	runtimeProximity := proximity(float64(c.Movie.Runtime), features.MeanRuntime, 60)
	yearProximity := proximity(float64(releaseYear(c.Movie)), features.MeanReleaseYear, 30)
	languageMatch := 0.0
	if features.ModeLanguage != "" && c.Movie.OriginalLanguage == features.ModeLanguage {
		languageMatch = 1.0
	}
	popularityQuality := recommend.Log10Clamped(float64(c.Movie.VoteCount), float64(rk.cfg.VoteCountCap))
	tonalMismatch := 0.0
	if tonalMismatched(c.Movie.Genres, features.Genres) {
		tonalMismatch = 1.0
	}

	return weightSimilarity*similarity +
		weightGenreOverlap*genreOverlap +
		weightStyleOverlap*styleOverlap +
		weightRuntimeProximity*runtimeProximity +
		weightYearProximity*yearProximity +
		weightLanguageMatch*languageMatch +
		weightPopularityQuality*popularityQuality +
		weightTonalMismatch*tonalMismatch
}

// Rerank scores candidates against an anchor-mode feature bundle (similar
// endpoint: no dislike pass) and returns them ordered and batch-normalized.
func (rk *Reranker) Rerank(candidates []recommend.Candidate, features recommend.FeatureBundle) []recommend.ScoredCandidate {
	raw := make([]float64, len(candidates))
	for i, c := range candidates {
		raw[i] = rk.rawScore(c, features, c.Distance)
	}
	normalized := minMaxNormalize(raw)
	return rk.assemble(candidates, normalized)
}

// RerankWithDislikes scores candidates in user mode: like_score minus a
// dislike-aware penalty when the user has enough dislike signal.
func (rk *Reranker) RerankWithDislikes(candidates []recommend.Candidate, sctx recommend.ScoringContext) []recommend.ScoredCandidate {
	final := make([]float64, len(candidates))
	for i, c := range candidates {
		likeScore := clamp01(rk.rawScore(c, sctx.LikeContext, c.Distance))
		if sctx.DislikeCount >= rk.cfg.DislikeMinCount {
			dislikeScore := clamp01(rk.rawScore(c, sctx.DislikeContext, dislikeDistance(c, sctx)))
			likeScore = clamp01(likeScore - rk.cfg.DislikeWeight*dislikeScore)
		}
		final[i] = likeScore
	}
	normalized := minMaxNormalize(final)
	return rk.assemble(candidates, normalized)
}

// Score computes a single candidate's batch-of-one score against a feature
// bundle (used by the Match endpoint, which needs a single deterministic
// score rather than a batch rank). The result is already in [0,1]; the
// caller multiplies by 100 and rounds for the public match score.
func (rk *Reranker) Score(c recommend.Candidate, sctx recommend.ScoringContext) float64 {
	likeScore := clamp01(rk.rawScore(c, sctx.LikeContext, c.Distance))
	if sctx.DislikeCount >= rk.cfg.DislikeMinCount {
		dislikeScore := clamp01(rk.rawScore(c, sctx.DislikeContext, dislikeDistance(c, sctx)))
		likeScore = clamp01(likeScore - rk.cfg.DislikeWeight*dislikeScore)
	}
	return likeScore
}

// dislikeDistance is the candidate's cosine distance to the user's dislike
// embedding centroid, the similarity term for the dislike-mode pass. Falls
// back to a neutral distance (1, neither similar nor dissimilar) when either
// vector is unavailable — a candidate without an embedding, or a dislike set
// where none of the rated movies had one.
func dislikeDistance(c recommend.Candidate, sctx recommend.ScoringContext) float64 {
	if len(c.Embedding) == 0 || len(sctx.DislikeEmbeddingCentroid) == 0 {
		return 1
	}
	return recommend.CosineDistance(c.Embedding, sctx.DislikeEmbeddingCentroid)
}

// assemble pairs candidates with normalized scores and applies the
// deterministic tie-break ordering: descending score, ascending
// distance, descending vote count, ascending id.
func (rk *Reranker) assemble(candidates []recommend.Candidate, scores []float64) []recommend.ScoredCandidate {
	out := make([]recommend.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		s := scores[i]
		out[i] = recommend.ScoredCandidate{Candidate: c, Score: &s}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if *a.Score != *b.Score {
			return *a.Score > *b.Score
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Movie.VoteCount != b.Movie.VoteCount {
			return a.Movie.VoteCount > b.Movie.VoteCount
		}
		return a.Movie.ID < b.Movie.ID
	})
	return out
}

// FeatureBundleFromMovie builds an anchor-mode feature bundle directly from
// a single movie (used by the Similar endpoint, which has no user context).
func FeatureBundleFromMovie(m recommend.Movie) recommend.FeatureBundle {
	year := 0.0
	if !m.ReleaseDate.IsZero() {
		year = float64(m.ReleaseDate.Year())
	}
	return recommend.FeatureBundle{
		Genres:          m.Genres,
		StyleKeywords:   allowlisted(m.Keywords),
		MeanRuntime:     float64(m.Runtime),
		MeanReleaseYear: year,
		ModeLanguage:    m.OriginalLanguage,
	}
}

func allowlisted(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if _, ok := recommend.StyleKeywords[kw]; ok {
			out = append(out, kw)
		}
	}
	return out
}

func releaseYear(m recommend.Movie) int {
	if m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Year()
}

func proximity(a, b, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	delta := math.Abs(a - b)
	return clamp01(1 - math.Min(1, delta/scale))
}

func tonalMismatched(candidateGenres, contextGenres []string) bool {
	cHasA, cHasB := hasAny(candidateGenres, tonalGroupA), hasAny(candidateGenres, tonalGroupB)
	xHasA, xHasB := hasAny(contextGenres, tonalGroupA), hasAny(contextGenres, tonalGroupB)
	return (cHasA && xHasB) || (cHasB && xHasA)
}

func hasAny(genres []string, set map[string]struct{}) bool {
	for _, g := range genres {
		if _, ok := set[g]; ok {
			return true
		}
	}
	return false
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}
	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// minMaxNormalize rescales values into [0,1] within the batch. An
// all-equal batch maps to 0.5 for every element (a zero-range
// fallback, avoiding a divide-by-zero).
func minMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float64, len(values))
	rng := maxV - minV
	if rng == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - minV) / rng
	}
	return out
}
