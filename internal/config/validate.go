// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import "fmt"

// Validate checks every field for a value the rest of the system can operate
// on safely, failing fast at startup rather than surfacing a confusing error
// deep in a request path.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("config: server.request_timeout must be positive")
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("config: server.rate_limit_rps must be positive")
	}
	if len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("config: server.cors_origins must not be empty")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("config: database.max_idle_conns must not be negative")
	}

	if c.Recommend.EmbeddingDimension <= 0 {
		return fmt.Errorf("config: recommend.embedding_dimension must be positive")
	}
	if c.Recommend.DislikeWeight < 0 || c.Recommend.DislikeWeight > 1 {
		return fmt.Errorf("config: recommend.dislike_weight must be in [0,1]")
	}
	if c.Recommend.ScoringContextLimit <= 0 {
		return fmt.Errorf("config: recommend.scoring_context_limit must be positive")
	}
	if c.Recommend.VoteCountCap <= 0 {
		return fmt.Errorf("config: recommend.vote_count_cap must be positive")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not a recognized level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: logging.format %q must be json or console", c.Logging.Format)
	}

	return nil
}
