// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import "context"

// Store is the contract the engine depends on for persistence. It is
// declared here, not in internal/store, so that the engine package never
// imports the concrete Postgres driver, avoiding a circular import
// between internal/recommend and its backing store.
type Store interface {
	GetMovie(ctx context.Context, id int64) (Movie, error)
	LookupMovieByTitle(ctx context.Context, q string) (Movie, error)
	GetMovieEmbedding(ctx context.Context, id int64) (MovieEmbedding, error)

	UpsertRating(ctx context.Context, userID, movieID int64, rating *int, status RatingStatus) error
	ListRatings(ctx context.Context, userID int64, filter RatingFilter, k, cursor int) ([]Rating, bool, error)
	// ListAllRatings returns every rating row for userID, unpaginated. Used
	// by the Profile Builder (needs the full contributor set) and the
	// Scoring Context builder (needs a bounded but not cursor-paginated
	// recency window).
	ListAllRatings(ctx context.Context, userID int64) ([]Rating, error)
	GetSeenMovieIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)

	UpsertProfile(ctx context.Context, userID int64, vec []float32, numRatings int) error
	DeleteProfile(ctx context.Context, userID int64) error
	GetProfile(ctx context.Context, userID int64) (UserProfile, error)

	// WithRatingTx runs fn inside a single transaction scoped to userID's
	// rating mutation. The implementation takes a row-level lock on the
	// user at the top of the transaction, so concurrent RateMovie calls for
	// the same user serialize instead of interleaving upsert-rating and
	// profile-rebuild steps. fn receives a Store bound to that transaction;
	// a non-nil return rolls the transaction back, nil commits it.
	WithRatingTx(ctx context.Context, userID int64, fn func(tx Store) error) error

	PopularityQueue(ctx context.Context, exclude map[int64]struct{}, k, cursor int) ([]Movie, bool, error)

	// GetUser and CreateUser back the opaque user identity surface; the
	// core does not interpret the id or display name beyond persisting and
	// returning them.
	GetUser(ctx context.Context, id int64) (UserSummary, error)
	CreateUser(ctx context.Context, displayName string) (int64, error)
}

// VectorIndex is the ANN contract over movie_embeddings.
type VectorIndex interface {
	// KNN returns candidates ordered by ascending cosine distance. If the
	// index cannot satisfy k after the caller's post-filtering, it returns
	// as many as it can without error.
	KNN(ctx context.Context, query []float32, k int) ([]IndexHit, error)
}

// IndexHit is one raw result from the Vector Index, before hydration.
type IndexHit struct {
	MovieID  int64
	Distance float64
}
