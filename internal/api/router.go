// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/middleware"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// RouterConfig carries the pieces of Config the transport layer itself
// needs; everything engine-facing lives behind *recommend.Engine.
type RouterConfig struct {
	RequestTimeout   time.Duration
	RateLimitPerMin  int
	CORSAllowOrigins []string
}

// NewRouter assembles the /v1 API on top of a ready engine: request id,
// structured access logging, CORS, rate limiting, a request-scoped
// deadline, gzip compression, and Prometheus instrumentation wrap every
// route. /health and /metrics sit outside /v1 and the rate limiter.
func NewRouter(engine *recommend.Engine, cfg RouterConfig, logger zerolog.Logger) http.Handler {
	h := NewHandler(engine)
	r := chi.NewRouter()

	r.Use(adapt(middleware.RequestID))
	r.Use(accessLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           300,
		AllowCredentials: false,
	}))
	r.Use(adapt(middleware.Compression))
	r.Use(adapt(middleware.PrometheusMetrics))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v chi.Router) {
		v.Use(httprate.LimitByIP(rateLimit(cfg.RateLimitPerMin), time.Minute))
		v.Use(chimw.Timeout(requestTimeout(cfg.RequestTimeout)))

		v.Get("/movies/lookup", h.LookupMovie)
		v.Get("/movies/{id}", h.GetMovie)
		v.Get("/movies/{id}/similar", h.SimilarMovies)

		v.Post("/users", h.CreateUser)
		v.Get("/users/{id}", h.GetUser)
		v.Get("/users/{id}/profile", h.GetProfile)
		v.Put("/users/{id}/ratings/{movie_id}", h.PutRating)
		v.Get("/users/{id}/ratings", h.ListRatings)
		v.Get("/users/{id}/rating-queue", h.RatingQueue)
		v.Get("/users/{id}/next", h.Next)
		v.Get("/users/{id}/recommendations", h.Recommendations)
		v.Get("/users/{id}/feed", h.Feed)
		v.Get("/users/{id}/movies/{mid}/match", h.Match)
	})

	return r
}

// adapt lifts the repo's HandlerFunc-shaped middleware (predating chi
// adoption) onto chi's Handler-shaped middleware signature.
func adapt(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured log line per request, attributing it to
// the request id middleware.RequestID already stamped into the context.
func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("request_id", middleware.GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func rateLimit(perMin int) int {
	if perMin <= 0 {
		return 300
	}
	return perMin
}

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
