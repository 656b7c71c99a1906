// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import "time"

// RatingStatus distinguishes a watched entry from one the user hid/skipped.
type RatingStatus string

const (
	StatusWatched   RatingStatus = "watched"
	StatusUnwatched RatingStatus = "unwatched"
)

// Movie is the immutable-in-the-hot-path catalog entry.
type Movie struct {
	ID               int64
	Title            string
	ReleaseDate      time.Time
	Runtime          int
	OriginalLanguage string
	VoteAverage      float64
	VoteCount        int64
	Genres           []string
	Keywords         []string
	Overview         string
	PosterPath       string
}

// MovieEmbedding holds the pre-computed content vector for a movie.
// Absence (no row) signals "not indexable".
type MovieEmbedding struct {
	MovieID   int64
	Embedding []float32
	DocHash   string
}

// Rating is keyed by (user_id, movie_id). Rating is nil for "marked watched,
// unrated". Value is 1..5 when present; 0 is never stored (the API layer
// maps a 0 payload value to "clear the rating", not a stored 0).
type Rating struct {
	UserID    int64
	MovieID   int64
	Status    RatingStatus
	Rating    *int
	UpdatedAt time.Time
}

// IsContributor reports whether this rating contributes to profile
// aggregation floor (watched, rating >= 3).
func (r Rating) IsContributor() bool {
	return r.Status == StatusWatched && r.Rating != nil && *r.Rating >= 3
}

// IsDislike reports whether this rating belongs to the dislike context
// (rating <= 2, regardless of watched/unwatched).
func (r Rating) IsDislike() bool {
	return r.Rating != nil && *r.Rating <= 2
}

// IsLike reports whether this rating belongs to the like context (rating >= 4).
func (r Rating) IsLike() bool {
	return r.Rating != nil && *r.Rating >= 4
}

// UserProfile is the unit-norm centroid of a user's contributing ratings.
type UserProfile struct {
	UserID     int64
	Embedding  []float32
	NumRatings int
	UpdatedAt  time.Time
}

// Candidate is a movie surfaced by the Vector Index or PopularityQueue,
// before reranking.
type Candidate struct {
	Movie     Movie
	Distance  float64   // cosine distance to the query vector; meaningless when HasScore is false
	Embedding []float32 // the candidate's own content vector, carried through for dislike-centroid scoring
	HasScore  bool      // false for pure popularity-fallback candidates
}

// ScoredCandidate is a Candidate after the reranker has produced a final score.
type ScoredCandidate struct {
	Candidate
	Score *float64 // nil when the caller requested a popularity-only result (score=null)
}

// FeatureBundle is the aggregate feature set derived from one side (like or
// dislike) of a user's recent ratings, or from an anchor movie.
type FeatureBundle struct {
	Genres          []string // top MaxScoringGenres by frequency
	StyleKeywords   []string // allowlisted subset of keywords, top MaxScoringKeywords by frequency
	MeanRuntime     float64
	MeanReleaseYear float64
	ModeLanguage    string
}

// ScoringContext is the per-request signal bundle the Reranker scores candidates against.
type ScoringContext struct {
	LikeContext              FeatureBundle
	DislikeContext           FeatureBundle
	DislikeEmbeddingCentroid []float32 // nil if no dislikes had embeddings
	DislikeCount             int
}

// UserSummary is the opaque user identity record: an id, a display name,
// and when it was created.
type UserSummary struct {
	ID          int64
	DisplayName string
	CreatedAt   time.Time
}

// RatingFilter narrows ListRatings results.
type RatingFilter struct {
	Status    *RatingStatus
	RatingMin *int
	RatingMax *int
	Since     *time.Time
}
