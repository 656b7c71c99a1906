// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import "time"

// Config is the complete, validated runtime configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig controls the HTTP listener and request-handling limits.
type ServerConfig struct {
	// Port the HTTP server listens on. Default: 8080.
	Port int `koanf:"port"`
	// Host the HTTP server binds to. Default: "0.0.0.0".
	Host string `koanf:"host"`
	// ReadTimeout bounds request reading. Default: 10s.
	ReadTimeout time.Duration `koanf:"read_timeout"`
	// WriteTimeout bounds response writing. Default: 15s.
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// RequestTimeout bounds a single request's total server-side processing
	// time; exceeding it maps to DEADLINE_EXCEEDED. Default: 5s.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// RateLimitRPS caps requests per second per client IP. Default: 50.
	RateLimitRPS int `koanf:"rate_limit_rps"`
	// CORSOrigins lists allowed origins. Default: ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig controls the Postgres + pgvector connection.
type DatabaseConfig struct {
	// DSN is a libpq connection string. No default; required at startup.
	DSN string `koanf:"dsn"`
	// MaxOpenConns caps concurrent connections. Default: 0 (runtime.NumCPU()*2).
	MaxOpenConns int `koanf:"max_open_conns"`
	// MaxIdleConns caps idle pooled connections. Default: 4.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// ConnMaxLifetime recycles connections older than this. Default: 1h.
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// RecommendConfig mirrors recommend.Config's tunables so they can be set
// from the environment without the recommend package depending on koanf.
type RecommendConfig struct {
	// NeutralRatingWeight is the contributor weight for a rating of 3. Default: 0.2.
	NeutralRatingWeight float64 `koanf:"neutral_rating_weight"`
	// DislikeWeight scales the dislike penalty subtracted from like score. Default: 0.35.
	DislikeWeight float64 `koanf:"dislike_weight"`
	// DislikeMinCount is the minimum dislike count before the penalty applies. Default: 3.
	DislikeMinCount int `koanf:"dislike_min_count"`
	// ScoringContextLimit bounds how many recent ratings feed the scoring context. Default: 50.
	ScoringContextLimit int `koanf:"scoring_context_limit"`
	// RerankFetchMultiplier scales k_final into k_fetch. Default: 5.
	RerankFetchMultiplier int `koanf:"rerank_fetch_multiplier"`
	// MaxFetchCandidates caps k_fetch regardless of the multiplier. Default: 500.
	MaxFetchCandidates int `koanf:"max_fetch_candidates"`
	// MaxScoringGenres caps how many top genres feed a feature bundle. Default: 8.
	MaxScoringGenres int `koanf:"max_scoring_genres"`
	// MaxScoringKeywords caps how many top style keywords feed a feature bundle. Default: 8.
	MaxScoringKeywords int `koanf:"max_scoring_keywords"`
	// EmbeddingDimension must match the deployed vector(N) column width. Default: 768.
	EmbeddingDimension int `koanf:"embedding_dimension"`
	// VoteCountCap bounds the popularity-quality feature's log scale. Default: 100000.
	VoteCountCap int64 `koanf:"vote_count_cap"`
	// SimRerankEnabled toggles reranking on the similar-movies endpoint. Default: true.
	SimRerankEnabled bool `koanf:"sim_rerank_enabled"`
}

// LoggingConfig controls zerolog's output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error. Default: "info".
	Level string `koanf:"level"`
	// Format is "json" or "console". Default: "json".
	Format string `koanf:"format"`
	// Caller adds the calling file:line to every log entry. Default: false.
	Caller bool `koanf:"caller"`
}
