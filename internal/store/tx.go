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

// WithRatingTx implements recommend.Store. It opens one transaction for the
// entire rating mutation and takes a row-level lock on the user's row at
// the top of it (SELECT ... FOR UPDATE on users), so a second RateMovie call
// for the same user blocks behind the first instead of interleaving its
// upsert-rating and profile-rebuild steps with it. fn runs against a Store
// bound to the open transaction; any error it returns rolls the whole
// mutation back, including the rating upsert.
func (s *Store) WithRatingTx(ctx context.Context, userID int64, fn func(tx recommend.Store) error) error {
	if s.raw == nil {
		return fmt.Errorf("store: WithRatingTx called on a transaction-scoped Store")
	}

	tx, err := s.raw.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin rating tx: %w", err)
	}

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return recommend.ErrUserNotFound
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("store: lock user row: %w", err)
	}

	txStore := &Store{db: tx, dim: s.dim}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit rating tx: %w", err)
	}
	return nil
}
