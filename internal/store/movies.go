// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

const movieColumns = `id, title, release_date, runtime, original_language, vote_average, vote_count, genres, keywords, overview, poster_path`

func scanMovie(row interface{ Scan(...any) error }) (recommend.Movie, error) {
	var m recommend.Movie
	var releaseDate sql.NullTime
	var genres, keywords pq.StringArray
	if err := row.Scan(&m.ID, &m.Title, &releaseDate, &m.Runtime, &m.OriginalLanguage, &m.VoteAverage, &m.VoteCount, &genres, &keywords, &m.Overview, &m.PosterPath); err != nil {
		return recommend.Movie{}, err
	}
	if releaseDate.Valid {
		m.ReleaseDate = releaseDate.Time
	}
	m.Genres = []string(genres)
	m.Keywords = []string(keywords)
	return m, nil
}

// GetMovie implements recommend.Store.
func (s *Store) GetMovie(ctx context.Context, id int64) (recommend.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	row := s.db.QueryRowContext(ctx, query, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.Movie{}, recommend.ErrMovieNotFound
	}
	if err != nil {
		return recommend.Movie{}, fmt.Errorf("store: get movie: %w", err)
	}
	return m, nil
}

// titleLookupTiers are tried in order: exact match first, then prefix, then
// substring. Each tier is ordered by vote_count desc, release_date desc, id
// asc so the result is deterministic even when many movies share a title.
var titleLookupTiers = []string{
	`lower(title) = lower($1)`,
	`lower(title) LIKE lower($1) || '%'`,
	`lower(title) LIKE '%' || lower($1) || '%'`,
}

// LookupMovieByTitle implements recommend.Store with tiered matching: an
// exact case-insensitive match, falling back to a prefix match, falling
// back to a substring match. The first tier to produce a row wins.
func (s *Store) LookupMovieByTitle(ctx context.Context, q string) (recommend.Movie, error) {
	for _, where := range titleLookupTiers {
		query := fmt.Sprintf(`
			SELECT %s FROM movies
			WHERE %s
			ORDER BY vote_count DESC, release_date DESC, id ASC
			LIMIT 1`, movieColumns, where)
		row := s.db.QueryRowContext(ctx, query, q)
		m, err := scanMovie(row)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return recommend.Movie{}, fmt.Errorf("store: lookup movie by title: %w", err)
		}
		return m, nil
	}
	return recommend.Movie{}, recommend.ErrMovieNotFound
}

// GetMovieEmbedding implements recommend.Store.
func (s *Store) GetMovieEmbedding(ctx context.Context, id int64) (recommend.MovieEmbedding, error) {
	query := `SELECT movie_id, embedding::text, doc_hash FROM movie_embeddings WHERE movie_id = $1`
	var out recommend.MovieEmbedding
	var embText string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&out.MovieID, &embText, &out.DocHash)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.MovieEmbedding{}, recommend.ErrEmbeddingNotFound
	}
	if err != nil {
		return recommend.MovieEmbedding{}, fmt.Errorf("store: get movie embedding: %w", err)
	}
	vec, err := parseVectorLiteral(embText)
	if err != nil {
		return recommend.MovieEmbedding{}, fmt.Errorf("store: get movie embedding: %w", err)
	}
	out.Embedding = vec
	return out, nil
}

// PopularityQueue implements recommend.Store: movies ordered by descending
// vote_count, ties broken by vote_average then id for determinism,
// excluding a caller-supplied seen set.
func (s *Store) PopularityQueue(ctx context.Context, exclude map[int64]struct{}, k, cursor int) ([]recommend.Movie, bool, error) {
	excludeIDs := make([]int64, 0, len(exclude))
	for id := range exclude {
		excludeIDs = append(excludeIDs, id)
	}
	query := fmt.Sprintf(`
		SELECT %s FROM movies
		WHERE NOT (id = ANY($1))
		ORDER BY vote_count DESC, vote_average DESC, id ASC
		LIMIT $2 OFFSET $3`, movieColumns)
	rows, err := s.db.QueryContext(ctx, query, pq.Array(excludeIDs), k+1, cursor)
	if err != nil {
		return nil, false, fmt.Errorf("store: popularity queue: %w", err)
	}
	defer closeRowsWithLog(rows)

	var out []recommend.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, false, fmt.Errorf("store: popularity queue: scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("store: popularity queue: %w", err)
	}

	hasMore := len(out) > k
	if hasMore {
		out = out[:k]
	}
	return out, hasMore, nil
}
