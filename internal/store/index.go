// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package store

import (
	"context"
	"fmt"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// KNN implements recommend.VectorIndex via pgvector's cosine-distance
// operator (<=>), backed by the HNSW index on movie_embeddings. Results are
// ordered by ascending distance.
func (s *Store) KNN(ctx context.Context, query []float32, k int) ([]recommend.IndexHit, error) {
	lit, err := toVectorLiteral(query, s.dim)
	if err != nil {
		return nil, fmt.Errorf("store: knn: %w", err)
	}

	const sqlQuery = `
		SELECT movie_id, embedding <=> $1 AS distance
		FROM movie_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, sqlQuery, lit, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrIndexUnavailable, err)
	}
	defer closeRowsWithLog(rows)

	var out []recommend.IndexHit
	for rows.Next() {
		var hit recommend.IndexHit
		if err := rows.Scan(&hit.MovieID, &hit.Distance); err != nil {
			return nil, fmt.Errorf("store: knn: scan: %w", err)
		}
		out = append(out, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrIndexUnavailable, err)
	}
	return out, nil
}
