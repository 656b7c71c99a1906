// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"math"
	"testing"
)

func embeddingOf(dim int, major int) []float32 {
	v := make([]float32, dim)
	v[major%dim] = 1
	return v
}

func TestProfileBuilder_Rebuild_WeightsAndFloor(t *testing.T) {
	store := newFakeStore()
	store.movies[1] = testMovie(1, "action")
	store.movies[2] = testMovie(2, "drama")
	store.movies[3] = testMovie(3, "comedy")
	store.movies[4] = testMovie(4, "horror")
	store.embeddings[1] = MovieEmbedding{MovieID: 1, Embedding: embeddingOf(4, 0)}
	store.embeddings[2] = MovieEmbedding{MovieID: 2, Embedding: embeddingOf(4, 1)}
	store.embeddings[3] = MovieEmbedding{MovieID: 3, Embedding: embeddingOf(4, 2)}
	store.embeddings[4] = MovieEmbedding{MovieID: 4, Embedding: embeddingOf(4, 3)}

	five, four, three, two := 5, 4, 3, 2
	store.ratings[1] = []Rating{
		{UserID: 1, MovieID: 1, Rating: &five, Status: StatusWatched},
		{UserID: 1, MovieID: 2, Rating: &four, Status: StatusWatched},
		{UserID: 1, MovieID: 3, Rating: &three, Status: StatusWatched},
		{UserID: 1, MovieID: 4, Rating: &two, Status: StatusWatched},
	}

	builder := NewProfileBuilder(func() Config {
		c := DefaultConfig()
		c.EmbeddingDimension = 4
		return c
	}())
	profile, ok, err := builder.Rebuild(context.Background(), store, 1)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !ok {
		t.Fatalf("Rebuild() ok = false, want true")
	}
	if profile.NumRatings != 3 {
		t.Fatalf("NumRatings = %d, want 3 (movie 4 is a dislike, not a contributor)", profile.NumRatings)
	}

	var norm float64
	for _, x := range profile.Embedding {
		norm += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
		t.Fatalf("profile embedding is not unit length, norm = %v", math.Sqrt(norm))
	}
}

func TestProfileBuilder_Rebuild_NoContributorsReturnsEmpty(t *testing.T) {
	store := newFakeStore()
	store.movies[1] = testMovie(1, "horror")
	store.embeddings[1] = MovieEmbedding{MovieID: 1, Embedding: embeddingOf(4, 0)}
	two := 2
	store.ratings[1] = []Rating{{UserID: 1, MovieID: 1, Rating: &two, Status: StatusWatched}}

	builder := NewProfileBuilder(func() Config {
		c := DefaultConfig()
		c.EmbeddingDimension = 4
		return c
	}())
	_, ok, err := builder.Rebuild(context.Background(), store, 1)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if ok {
		t.Fatalf("Rebuild() ok = true, want false when no contributors exist")
	}
}

func TestProfileBuilder_Rebuild_DropsMissingEmbeddings(t *testing.T) {
	store := newFakeStore()
	store.movies[1] = testMovie(1, "action")
	store.movies[2] = testMovie(2, "drama") // no embedding registered
	store.embeddings[1] = MovieEmbedding{MovieID: 1, Embedding: embeddingOf(4, 0)}
	five := 5
	store.ratings[1] = []Rating{
		{UserID: 1, MovieID: 1, Rating: &five, Status: StatusWatched},
		{UserID: 1, MovieID: 2, Rating: &five, Status: StatusWatched},
	}

	builder := NewProfileBuilder(func() Config {
		c := DefaultConfig()
		c.EmbeddingDimension = 4
		return c
	}())
	profile, ok, err := builder.Rebuild(context.Background(), store, 1)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !ok || profile.NumRatings != 1 {
		t.Fatalf("Rebuild() = %+v, ok=%v, want NumRatings=1 (movie 2 dropped for missing embedding)", profile, ok)
	}
}

func TestL2Normalize_ZeroVectorLeftAsIs(t *testing.T) {
	v := make([]float32, 4)
	l2Normalize(v)
	for _, x := range v {
		if x != 0 {
			t.Fatalf("l2Normalize(zero vector) = %v, want all zero", v)
		}
	}
}
