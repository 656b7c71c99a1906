// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"time"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// movieDetailDTO is the full movie detail payload for GET /movies/{id}.
type movieDetailDTO struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	Runtime          int      `json:"runtime"`
	OriginalLanguage string   `json:"original_language"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int64    `json:"vote_count"`
	Genres           []string `json:"genres"`
	Keywords         []string `json:"keywords"`
	Overview         string   `json:"overview"`
	PosterURL        string   `json:"poster_url,omitempty"`
}

func movieDetail(m recommend.Movie) movieDetailDTO {
	return movieDetailDTO{
		ID:               m.ID,
		Title:            m.Title,
		ReleaseDate:      formatDate(m.ReleaseDate),
		Runtime:          m.Runtime,
		OriginalLanguage: m.OriginalLanguage,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Genres:           m.Genres,
		Keywords:         m.Keywords,
		Overview:         m.Overview,
		PosterURL:        m.PosterPath,
	}
}

// movieLookupDTO is the minimal payload for GET /movies/lookup.
type movieLookupDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// candidateDTO is one scored or unscored result row shared by /similar,
// /recommendations, and /feed; the spec's "distance" (similar) and
// "similarity" (recommendations/feed) are both derived from the same
// cosine distance, so both are set on every scored row rather than branching
// the struct per endpoint. Unscored rows (the popularity fallback) leave both
// null.
type candidateDTO struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres"`
	Distance    *float64 `json:"distance,omitempty"`
	Similarity  *float64 `json:"similarity,omitempty"`
	Score       *float64 `json:"score"`
	PosterURL   string   `json:"poster_url,omitempty"`
	BackdropURL *string  `json:"backdrop_url"`
}

func candidate(c recommend.ScoredCandidate) candidateDTO {
	dto := candidateDTO{
		ID:          c.Movie.ID,
		Title:       c.Movie.Title,
		ReleaseDate: formatDate(c.Movie.ReleaseDate),
		Genres:      c.Movie.Genres,
		Score:       c.Score,
		PosterURL:   c.Movie.PosterPath,
		BackdropURL: nil, // no backdrop data in the persisted movie
	}
	if c.HasScore {
		dist := c.Distance
		sim := 1 - c.Distance
		dto.Distance = &dist
		dto.Similarity = &sim
	}
	return dto
}

func candidates(cs []recommend.ScoredCandidate) []candidateDTO {
	out := make([]candidateDTO, len(cs))
	for i, c := range cs {
		out[i] = candidate(c)
	}
	return out
}

// userSummaryDTO answers POST /users and GET /users/{id}.
type userSummaryDTO struct {
	ID               int64      `json:"id"`
	DisplayName      string     `json:"display_name"`
	NumRatings       int        `json:"num_ratings"`
	ProfileUpdatedAt *time.Time `json:"profile_updated_at"`
}

// profileDTO answers GET /users/{id}/profile.
type profileDTO struct {
	UserID        int64     `json:"user_id"`
	NumRatings    int       `json:"num_ratings"`
	NumLiked      int       `json:"num_liked"`
	EmbeddingNorm float64   `json:"embedding_norm"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ratingDTO answers GET /users/{id}/ratings.
type ratingDTO struct {
	MovieID   int64   `json:"movie_id"`
	Status    string  `json:"status"`
	Rating    *int    `json:"rating"`
	UpdatedAt string  `json:"updated_at"`
	Title     *string `json:"title,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
