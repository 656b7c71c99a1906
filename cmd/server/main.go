// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/api"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/config"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/logging"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("starting taste-kid")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, storeConfig(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()
	logging.Info().Msg("store connected")

	engine, err := recommend.NewEngine(recommendConfig(cfg), db, db, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build recommendation engine")
	}

	router := api.NewRouter(engine, api.RouterConfig{
		RequestTimeout:   cfg.Server.RequestTimeout,
		RateLimitPerMin:  cfg.Server.RateLimitRPS * 60,
		CORSAllowOrigins: cfg.Server.CORSOrigins,
	}, logging.Logger())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}

	logging.Info().Msg("stopped")
}

func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		DSN:                cfg.Database.DSN,
		EmbeddingDimension: cfg.Recommend.EmbeddingDimension,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
	}
}

func recommendConfig(cfg *config.Config) recommend.Config {
	c := recommend.DefaultConfig()
	c.NeutralRatingWeight = cfg.Recommend.NeutralRatingWeight
	c.DislikeWeight = cfg.Recommend.DislikeWeight
	c.DislikeMinCount = cfg.Recommend.DislikeMinCount
	c.ScoringContextLimit = cfg.Recommend.ScoringContextLimit
	c.RerankFetchMultiplier = cfg.Recommend.RerankFetchMultiplier
	c.MaxFetchCandidates = cfg.Recommend.MaxFetchCandidates
	c.MaxScoringGenres = cfg.Recommend.MaxScoringGenres
	c.MaxScoringKeywords = cfg.Recommend.MaxScoringKeywords
	c.EmbeddingDimension = cfg.Recommend.EmbeddingDimension
	c.VoteCountCap = cfg.Recommend.VoteCountCap
	c.SimRerankEnabled = cfg.Recommend.SimRerankEnabled
	return c
}
