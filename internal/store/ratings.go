// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// UpsertRating implements recommend.Store.
func (s *Store) UpsertRating(ctx context.Context, userID, movieID int64, rating *int, status recommend.RatingStatus) error {
	const query = `
		INSERT INTO user_movie_ratings (user_id, movie_id, status, rating, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			status = EXCLUDED.status,
			rating = EXCLUDED.rating,
			updated_at = now()`
	if _, err := s.db.ExecContext(ctx, query, userID, movieID, string(status), rating); err != nil {
		return fmt.Errorf("store: upsert rating: %w", err)
	}
	return nil
}

func scanRating(rows *sql.Rows) (recommend.Rating, error) {
	var r recommend.Rating
	var status string
	if err := rows.Scan(&r.UserID, &r.MovieID, &status, &r.Rating, &r.UpdatedAt); err != nil {
		return recommend.Rating{}, err
	}
	r.Status = recommend.RatingStatus(status)
	return r, nil
}

// ListRatings implements recommend.Store with cursor (offset) pagination and
// an optional RatingFilter.
func (s *Store) ListRatings(ctx context.Context, userID int64, filter recommend.RatingFilter, k, cursor int) ([]recommend.Rating, bool, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	argIdx := 2

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.RatingMin != nil {
		where = append(where, fmt.Sprintf("rating >= $%d", argIdx))
		args = append(args, *filter.RatingMin)
		argIdx++
	}
	if filter.RatingMax != nil {
		where = append(where, fmt.Sprintf("rating <= $%d", argIdx))
		args = append(args, *filter.RatingMax)
		argIdx++
	}
	if filter.Since != nil {
		where = append(where, fmt.Sprintf("updated_at >= $%d", argIdx))
		args = append(args, *filter.Since)
		argIdx++
	}

	limitIdx, offsetIdx := argIdx, argIdx+1
	args = append(args, k+1, cursor)

	query := fmt.Sprintf(`
		SELECT user_id, movie_id, status, rating, updated_at
		FROM user_movie_ratings
		WHERE %s
		ORDER BY updated_at DESC, movie_id ASC
		LIMIT $%d OFFSET $%d`, strings.Join(where, " AND "), limitIdx, offsetIdx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("store: list ratings: %w", err)
	}
	defer closeRowsWithLog(rows)

	var out []recommend.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, false, fmt.Errorf("store: list ratings: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("store: list ratings: %w", err)
	}

	hasMore := len(out) > k
	if hasMore {
		out = out[:k]
	}
	return out, hasMore, nil
}

// ListAllRatings implements recommend.Store: every rating row for userID,
// unpaginated, for the Profile Builder and Scoring Context builder.
func (s *Store) ListAllRatings(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	const query = `
		SELECT user_id, movie_id, status, rating, updated_at
		FROM user_movie_ratings
		WHERE user_id = $1
		ORDER BY updated_at DESC, movie_id ASC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list all ratings: %w", err)
	}
	defer closeRowsWithLog(rows)

	var out []recommend.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list all ratings: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSeenMovieIDs implements recommend.Store.
func (s *Store) GetSeenMovieIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	const query = `SELECT movie_id FROM user_movie_ratings WHERE user_id = $1`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: get seen movie ids: %w", err)
	}
	defer closeRowsWithLog(rows)

	out := map[int64]struct{}{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: get seen movie ids: scan: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}
