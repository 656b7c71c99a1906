// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// fakeStore is an in-memory recommend.Store used to exercise the handlers
// without a real database.
type fakeStore struct {
	movies     map[int64]recommend.Movie
	embeddings map[int64]recommend.MovieEmbedding
	ratings    map[int64][]recommend.Rating
	profiles   map[int64]recommend.UserProfile
	users      map[int64]recommend.UserSummary
	popularity []recommend.Movie
	nextUserID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movies:     map[int64]recommend.Movie{},
		embeddings: map[int64]recommend.MovieEmbedding{},
		ratings:    map[int64][]recommend.Rating{},
		profiles:   map[int64]recommend.UserProfile{},
		users:      map[int64]recommend.UserSummary{},
		nextUserID: 1,
	}
}

func (s *fakeStore) GetMovie(_ context.Context, id int64) (recommend.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return recommend.Movie{}, recommend.ErrMovieNotFound
	}
	return m, nil
}

func (s *fakeStore) LookupMovieByTitle(_ context.Context, q string) (recommend.Movie, error) {
	for _, m := range s.movies {
		if m.Title == q {
			return m, nil
		}
	}
	return recommend.Movie{}, recommend.ErrMovieNotFound
}

func (s *fakeStore) GetMovieEmbedding(_ context.Context, id int64) (recommend.MovieEmbedding, error) {
	e, ok := s.embeddings[id]
	if !ok {
		return recommend.MovieEmbedding{}, recommend.ErrEmbeddingNotFound
	}
	return e, nil
}

func (s *fakeStore) UpsertRating(_ context.Context, userID, movieID int64, rating *int, status recommend.RatingStatus) error {
	list := s.ratings[userID]
	for i, r := range list {
		if r.MovieID == movieID {
			list[i].Rating = rating
			list[i].Status = status
			list[i].UpdatedAt = time.Now()
			s.ratings[userID] = list
			return nil
		}
	}
	s.ratings[userID] = append(list, recommend.Rating{UserID: userID, MovieID: movieID, Rating: rating, Status: status, UpdatedAt: time.Now()})
	return nil
}

func (s *fakeStore) ListRatings(_ context.Context, userID int64, _ recommend.RatingFilter, k, cursor int) ([]recommend.Rating, bool, error) {
	all := append([]recommend.Rating(nil), s.ratings[userID]...)
	sort.Slice(all, func(i, j int) bool { return all[i].MovieID < all[j].MovieID })
	if cursor > len(all) {
		return nil, false, nil
	}
	end := cursor + k
	if end > len(all) {
		end = len(all)
	}
	return all[cursor:end], end < len(all), nil
}

func (s *fakeStore) ListAllRatings(_ context.Context, userID int64) ([]recommend.Rating, error) {
	return append([]recommend.Rating(nil), s.ratings[userID]...), nil
}

func (s *fakeStore) GetSeenMovieIDs(_ context.Context, userID int64) (map[int64]struct{}, error) {
	out := map[int64]struct{}{}
	for _, r := range s.ratings[userID] {
		out[r.MovieID] = struct{}{}
	}
	return out, nil
}

func (s *fakeStore) UpsertProfile(_ context.Context, userID int64, vec []float32, numRatings int) error {
	s.profiles[userID] = recommend.UserProfile{UserID: userID, Embedding: vec, NumRatings: numRatings, UpdatedAt: time.Now()}
	return nil
}

func (s *fakeStore) DeleteProfile(_ context.Context, userID int64) error {
	delete(s.profiles, userID)
	return nil
}

func (s *fakeStore) GetProfile(_ context.Context, userID int64) (recommend.UserProfile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return recommend.UserProfile{}, recommend.ErrProfileNotFound
	}
	return p, nil
}

func (s *fakeStore) PopularityQueue(_ context.Context, exclude map[int64]struct{}, k, cursor int) ([]recommend.Movie, bool, error) {
	var all []recommend.Movie
	for _, m := range s.popularity {
		if _, skip := exclude[m.ID]; skip {
			continue
		}
		all = append(all, m)
	}
	if cursor > len(all) {
		return nil, false, nil
	}
	end := cursor + k
	if end > len(all) {
		end = len(all)
	}
	return all[cursor:end], end < len(all), nil
}

// WithRatingTx is not backed by a real transaction here: the fake is
// single-threaded, so simply running fn against the same store is
// equivalent to the locked-transaction semantics the real Store provides.
func (s *fakeStore) WithRatingTx(_ context.Context, _ int64, fn func(recommend.Store) error) error {
	return fn(s)
}

func (s *fakeStore) GetUser(_ context.Context, id int64) (recommend.UserSummary, error) {
	u, ok := s.users[id]
	if !ok {
		return recommend.UserSummary{}, recommend.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeStore) CreateUser(_ context.Context, displayName string) (int64, error) {
	id := s.nextUserID
	s.nextUserID++
	s.users[id] = recommend.UserSummary{ID: id, DisplayName: displayName, CreatedAt: time.Now()}
	return id, nil
}

// fakeIndex returns every embedded movie ordered by cosine distance to the query.
type fakeIndex struct {
	store *fakeStore
}

func (idx *fakeIndex) KNN(_ context.Context, query []float32, k int) ([]recommend.IndexHit, error) {
	type scored struct {
		id   int64
		dist float64
	}
	var all []scored
	for id, e := range idx.store.embeddings {
		all = append(all, scored{id: id, dist: cosineDistance(query, e.Embedding)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	if k > len(all) {
		k = len(all)
	}
	out := make([]recommend.IndexHit, k)
	for i := 0; i < k; i++ {
		out[i] = recommend.IndexHit{MovieID: all[i].id, Distance: all[i].dist}
	}
	return out, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

func unitVec(dim, major int) []float32 {
	v := make([]float32, dim)
	v[major%dim] = 1
	return v
}

func testMovie(id int64, title string, genres ...string) recommend.Movie {
	return recommend.Movie{
		ID:               id,
		Title:            title,
		ReleaseDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Runtime:          100,
		OriginalLanguage: "en",
		VoteAverage:      7.5,
		VoteCount:        1000,
		Genres:           genres,
	}
}

func newTestEngine(t *testing.T, s *fakeStore) *recommend.Engine {
	t.Helper()
	cfg := recommend.DefaultConfig()
	cfg.EmbeddingDimension = 4
	engine, err := recommend.NewEngine(cfg, s, &fakeIndex{store: s}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}
