// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package store

import (
	"context"
	"fmt"
)

const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS users (
	id           bigserial PRIMARY KEY,
	display_name text NOT NULL,
	created_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS movies (
	id                 bigint PRIMARY KEY,
	title              text NOT NULL,
	release_date       date,
	runtime            integer NOT NULL DEFAULT 0,
	original_language  text NOT NULL DEFAULT '',
	vote_average       double precision NOT NULL DEFAULT 0,
	vote_count         bigint NOT NULL DEFAULT 0,
	genres             text[] NOT NULL DEFAULT '{}',
	keywords           text[] NOT NULL DEFAULT '{}',
	overview           text NOT NULL DEFAULT '',
	poster_path        text NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS movies_title_idx ON movies (lower(title));

CREATE TABLE IF NOT EXISTS movie_embeddings (
	movie_id        bigint PRIMARY KEY REFERENCES movies(id) ON DELETE CASCADE,
	embedding       vector(%[1]d) NOT NULL,
	embedding_model text NOT NULL DEFAULT '',
	doc_hash        text NOT NULL DEFAULT '',
	created_at      timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS movie_embeddings_hnsw_idx
	ON movie_embeddings USING hnsw (embedding vector_cosine_ops);

CREATE TABLE IF NOT EXISTS user_movie_ratings (
	user_id    bigint NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	movie_id   bigint NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
	status     text NOT NULL CHECK (status IN ('watched', 'unwatched')),
	rating     integer CHECK (rating IS NULL OR (rating >= 0 AND rating <= 5)),
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, movie_id)
);

CREATE INDEX IF NOT EXISTS user_movie_ratings_user_recency_idx
	ON user_movie_ratings (user_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id     bigint PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	embedding   vector(%[1]d) NOT NULL,
	num_ratings integer NOT NULL,
	updated_at  timestamptz NOT NULL DEFAULT now()
);
`

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(schemaDDL, s.dim)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	return nil
}
