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

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// UpsertProfile implements recommend.Store.
func (s *Store) UpsertProfile(ctx context.Context, userID int64, vec []float32, numRatings int) error {
	lit, err := toVectorLiteral(vec, s.dim)
	if err != nil {
		return fmt.Errorf("store: upsert profile: %w", err)
	}
	const query = `
		INSERT INTO user_profiles (user_id, embedding, num_ratings, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			num_ratings = EXCLUDED.num_ratings,
			updated_at = now()`
	if _, err := s.db.ExecContext(ctx, query, userID, lit, numRatings); err != nil {
		return fmt.Errorf("store: upsert profile: %w", err)
	}
	return nil
}

// DeleteProfile implements recommend.Store.
func (s *Store) DeleteProfile(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("store: delete profile: %w", err)
	}
	return nil
}

// GetProfile implements recommend.Store.
func (s *Store) GetProfile(ctx context.Context, userID int64) (recommend.UserProfile, error) {
	const query = `SELECT user_id, embedding::text, num_ratings, updated_at FROM user_profiles WHERE user_id = $1`
	var out recommend.UserProfile
	var embText string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&out.UserID, &embText, &out.NumRatings, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.UserProfile{}, recommend.ErrProfileNotFound
	}
	if err != nil {
		return recommend.UserProfile{}, fmt.Errorf("store: get profile: %w", err)
	}
	vec, err := parseVectorLiteral(embText)
	if err != nil {
		return recommend.UserProfile{}, fmt.Errorf("store: get profile: %w", err)
	}
	out.Embedding = vec
	return out, nil
}

// GetUser implements recommend.Store.
func (s *Store) GetUser(ctx context.Context, id int64) (recommend.UserSummary, error) {
	const query = `SELECT id, display_name, created_at FROM users WHERE id = $1`
	var out recommend.UserSummary
	err := s.db.QueryRowContext(ctx, query, id).Scan(&out.ID, &out.DisplayName, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.UserSummary{}, recommend.ErrUserNotFound
	}
	if err != nil {
		return recommend.UserSummary{}, fmt.Errorf("store: get user: %w", err)
	}
	return out, nil
}

// CreateUser implements recommend.Store.
func (s *Store) CreateUser(ctx context.Context, displayName string) (int64, error) {
	var id int64
	const query = `INSERT INTO users (display_name) VALUES ($1) RETURNING id`
	if err := s.db.QueryRowContext(ctx, query, displayName).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: create user: %w", err)
	}
	return id, nil
}
