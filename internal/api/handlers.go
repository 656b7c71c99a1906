// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
	"github.com/Amr-Mohie-eldeen/taste-kid/internal/validation"
)

// Handler holds the one dependency every route needs: the recommendation
// engine. Endpoints that only touch persistence (user CRUD, rating history,
// movie lookup) reach the backing Store through engine.Store() rather than
// taking a second constructor argument.
type Handler struct {
	engine *recommend.Engine
}

// NewHandler builds a Handler around a ready engine.
func NewHandler(engine *recommend.Engine) *Handler {
	return &Handler{engine: engine}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, map[string]string{"status": "ok"})
}

// LookupMovie handles GET /movies/lookup?title=.
func (h *Handler) LookupMovie(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, r, invalidArgument("title is required"))
		return
	}
	m, err := h.engine.Store().LookupMovieByTitle(r.Context(), title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, movieLookupDTO{ID: m.ID, Title: m.Title})
}

// GetMovie handles GET /movies/{id}.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.engine.Store().GetMovie(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, movieDetail(m))
}

// SimilarMovies handles GET /movies/{id}/similar?k=&cursor=.
//
// Similar is computed over the full ANN result set rather than being
// cursor-paginated against the index itself, so cursor here only windows
// the already-ranked result: a cursor beyond the computed set yields an
// empty page with has_more=false.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	k, cursor, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scored, err := h.engine.Similar(r.Context(), id, cursor+k+1)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, hasMore := paginateSlice(scored, cursor, k)
	writePage(w, r, candidates(page), nextCursor(hasMore, cursor, k), hasMore)
}

// createUserRequest is the POST /users body.
type createUserRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			// An empty body is valid (display_name is optional); any other
			// decode failure is a malformed request.
			writeError(w, r, invalidArgument("malformed request body"))
			return
		}
	}
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.engine.Store().CreateUser(r.Context(), req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.engine.Store().GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, userSummaryDTO{ID: user.ID, DisplayName: user.DisplayName})
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.engine.Store().GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dto := userSummaryDTO{ID: user.ID, DisplayName: user.DisplayName}
	profile, err := h.engine.Store().GetProfile(r.Context(), id)
	switch {
	case err == nil:
		dto.NumRatings = profile.NumRatings
		dto.ProfileUpdatedAt = &profile.UpdatedAt
	case errors.Is(err, recommend.ErrProfileNotFound):
		// No profile yet is not an error for this endpoint.
	default:
		writeError(w, r, err)
		return
	}
	writeData(w, r, dto)
}

// GetProfile handles GET /users/{id}/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.engine.Store().GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ratings, err := h.engine.Store().ListAllRatings(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	numLiked := 0
	for _, rt := range ratings {
		if rt.IsLike() {
			numLiked++
		}
	}
	writeData(w, r, profileDTO{
		UserID:        profile.UserID,
		NumRatings:    profile.NumRatings,
		NumLiked:      numLiked,
		EmbeddingNorm: l2Norm(profile.Embedding),
		UpdatedAt:     profile.UpdatedAt,
	})
}

// putRatingRequest is the PUT /users/{id}/ratings/{movie_id} body.
type putRatingRequest struct {
	Rating *int   `json:"rating" validate:"omitempty,min=0,max=5"`
	Status string `json:"status" validate:"required,oneof=watched unwatched"`
}

// PutRating handles PUT /users/{id}/ratings/{movie_id}. A rating value of 0
// clears any stored rating rather than being persisted as 0 (the domain
// never stores a 0 rating).
func (h *Handler) PutRating(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	movieID, err := pathInt64(r, "movie_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req putRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, invalidArgument("malformed request body"))
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}

	status := recommend.RatingStatus(req.Status)
	rating := req.Rating
	if rating != nil && *rating == 0 {
		rating = nil
	}

	if err := h.engine.RateMovie(r.Context(), userID, movieID, rating, status); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, map[string]string{"status": "ok"})
}

// ListRatings handles GET /users/{id}/ratings?k=&cursor=.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	k, cursor, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ratings, hasMore, err := h.engine.Store().ListRatings(r.Context(), userID, recommend.RatingFilter{}, k, cursor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dtos := make([]ratingDTO, len(ratings))
	for i, rt := range ratings {
		dtos[i] = ratingDTO{
			MovieID:   rt.MovieID,
			Status:    string(rt.Status),
			Rating:    rt.Rating,
			UpdatedAt: rt.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	writePage(w, r, dtos, nextCursor(hasMore, cursor, k), hasMore)
}

// RatingQueue handles GET /users/{id}/rating-queue?k=&cursor=: the
// popularity queue minus movies the user has already rated.
func (h *Handler) RatingQueue(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	k, cursor, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	seen, err := h.engine.Store().GetSeenMovieIDs(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	movies, hasMore, err := h.engine.Store().PopularityQueue(r.Context(), seen, k, cursor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dtos := make([]movieDetailDTO, len(movies))
	for i, m := range movies {
		dtos[i] = movieDetail(m)
	}
	writePage(w, r, dtos, nextCursor(hasMore, cursor, k), hasMore)
}

// Next handles GET /users/{id}/next.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	movie, ok, err := h.engine.Next(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeData(w, r, nil)
		return
	}
	writeData(w, r, movieDetail(movie))
}

// Recommendations handles GET /users/{id}/recommendations?k=&cursor=.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	k, cursor, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scored, err := h.engine.Recommendations(r.Context(), userID, cursor+k+1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, hasMore := paginateSlice(scored, cursor, k)
	writePage(w, r, candidates(page), nextCursor(hasMore, cursor, k), hasMore)
}

// Feed handles GET /users/{id}/feed?k=&cursor=.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	k, cursor, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scored, hasMore, err := h.engine.Feed(r.Context(), userID, k, cursor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, candidates(scored), nextCursor(hasMore, cursor, k), hasMore)
}

// Match handles GET /users/{id}/movies/{mid}/match.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	movieID, err := pathInt64(r, "mid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	score, ok, err := h.engine.Match(r.Context(), userID, movieID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeData(w, r, map[string]interface{}{"score": nil})
		return
	}
	writeData(w, r, map[string]interface{}{"score": score})
}

// pathInt64 parses a chi URL parameter as an int64, mapping a parse failure
// to INVALID_ARGUMENT.
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidArgument(name + " must be an integer")
	}
	return v, nil
}

// paginateSlice windows a result fetched with limit cursor+k+1 down to the
// page starting at cursor: up to k items, plus whether any remain beyond it.
func paginateSlice[T any](items []T, cursor, k int) ([]T, bool) {
	if cursor >= len(items) {
		return nil, false
	}
	end := cursor + k
	if end >= len(items) {
		return items[cursor:], false
	}
	return items[cursor:end], true
}

// validateRequest runs the shared struct validator over a decoded request
// body, translating any field failure into an INVALID_ARGUMENT error.
func validateRequest(req interface{}) error {
	if verr := validation.ValidateStruct(req); verr != nil {
		return invalidArgument(verr.ToAPIError().Message)
	}
	return nil
}

func l2Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
