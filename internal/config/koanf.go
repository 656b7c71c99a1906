// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// defaultConfig returns every documented default, applied before the
// environment layer.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 5 * time.Second,
			RateLimitRPS:   50,
			CORSOrigins:    []string{"*"},
		},
		Database: DatabaseConfig{
			MaxOpenConns:    0,
			MaxIdleConns:    4,
			ConnMaxLifetime: time.Hour,
		},
		Recommend: RecommendConfig{
			NeutralRatingWeight:   0.2,
			DislikeWeight:         0.35,
			DislikeMinCount:       3,
			ScoringContextLimit:   50,
			RerankFetchMultiplier: 5,
			MaxFetchCandidates:    500,
			MaxScoringGenres:      8,
			MaxScoringKeywords:    8,
			EmbeddingDimension:    768,
			VoteCountCap:          100000,
			SimRerankEnabled:      true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// envMappings maps a lowercased environment variable name to its koanf path.
var envMappings = map[string]string{
	"http_port":            "server.port",
	"http_host":            "server.host",
	"http_read_timeout":    "server.read_timeout",
	"http_write_timeout":   "server.write_timeout",
	"http_request_timeout": "server.request_timeout",
	"rate_limit_rps":       "server.rate_limit_rps",
	"cors_origins":         "server.cors_origins",

	"database_dsn":             "database.dsn",
	"database_max_open_conns":  "database.max_open_conns",
	"database_max_idle_conns":  "database.max_idle_conns",
	"database_conn_max_life":   "database.conn_max_lifetime",

	"recommend_neutral_rating_weight":    "recommend.neutral_rating_weight",
	"recommend_dislike_weight":           "recommend.dislike_weight",
	"recommend_dislike_min_count":        "recommend.dislike_min_count",
	"recommend_scoring_context_limit":    "recommend.scoring_context_limit",
	"recommend_rerank_fetch_multiplier":  "recommend.rerank_fetch_multiplier",
	"recommend_max_fetch_candidates":     "recommend.max_fetch_candidates",
	"recommend_max_scoring_genres":       "recommend.max_scoring_genres",
	"recommend_max_scoring_keywords":     "recommend.max_scoring_keywords",
	"recommend_embedding_dimension":      "recommend.embedding_dimension",
	"recommend_vote_count_cap":           "recommend.vote_count_cap",
	"recommend_sim_rerank_enabled":       "recommend.sim_rerank_enabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// sliceConfigPaths lists koanf paths that must be parsed as comma-separated
// slices when they arrive as a single environment-variable string.
var sliceConfigPaths = []string{"server.cors_origins"}

// Load builds a validated Config from built-in defaults overridden by
// environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("config: process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}
