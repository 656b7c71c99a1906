// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

func newTestHandler(t *testing.T, s *fakeStore) *Handler {
	t.Helper()
	return NewHandler(newTestEngine(t, s))
}

// withURLParams attaches chi route params to a request the way the router
// would when dispatching through a matched pattern.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, body)
	}
	return env
}

func decodeErrorEnvelope(t *testing.T, body []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode error envelope: %v (body=%s)", err, body)
	}
	return env
}

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestHandler_GetMovie_Found(t *testing.T) {
	s := newFakeStore()
	s.movies[1] = testMovie(1, "Arrival", "Drama")
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/movies/1", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.GetMovie(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestHandler_GetMovie_NotFound(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := withURLParams(httptest.NewRequest(http.MethodGet, "/movies/99", nil), map[string]string{"id": "99"})
	w := httptest.NewRecorder()
	h.GetMovie(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
	env := decodeErrorEnvelope(t, w.Body.Bytes())
	if env.Error.Code != CodeMovieNotFound {
		t.Errorf("code: got %q", env.Error.Code)
	}
}

func TestHandler_GetMovie_BadID(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := withURLParams(httptest.NewRequest(http.MethodGet, "/movies/abc", nil), map[string]string{"id": "abc"})
	w := httptest.NewRecorder()
	h.GetMovie(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestHandler_LookupMovie(t *testing.T) {
	s := newFakeStore()
	s.movies[1] = testMovie(1, "Arrival")
	h := newTestHandler(t, s)

	r := httptest.NewRequest(http.MethodGet, "/movies/lookup?title=Arrival", nil)
	w := httptest.NewRecorder()
	h.LookupMovie(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestHandler_LookupMovie_MissingTitle(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := httptest.NewRequest(http.MethodGet, "/movies/lookup", nil)
	w := httptest.NewRecorder()
	h.LookupMovie(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestHandler_SimilarMovies(t *testing.T) {
	s := newFakeStore()
	s.movies[1] = testMovie(1, "Anchor")
	s.embeddings[1] = recommend.MovieEmbedding{MovieID: 1, Embedding: unitVec(4, 0)}
	for i := int64(2); i <= 5; i++ {
		s.movies[i] = testMovie(i, "Sim")
		s.embeddings[i] = recommend.MovieEmbedding{MovieID: i, Embedding: unitVec(4, 0)}
	}
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/movies/1/similar?k=2", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.SimilarMovies(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	items, ok := env.Data.([]interface{})
	if !ok {
		t.Fatalf("data is not a list: %#v", env.Data)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if env.Meta == nil || !env.Meta.HasMore {
		t.Errorf("expected has_more=true with 4 candidates and k=2, got %+v", env.Meta)
	}
}

func TestHandler_SimilarMovies_NoEmbedding(t *testing.T) {
	s := newFakeStore()
	s.movies[1] = testMovie(1, "No Embedding")
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/movies/1/similar", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.SimilarMovies(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
	env := decodeErrorEnvelope(t, w.Body.Bytes())
	if env.Error.Code != CodeEmbeddingNotFound {
		t.Errorf("code: got %q", env.Error.Code)
	}
}

func TestHandler_CreateUser(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	body := bytes.NewBufferString(`{"display_name":"Ada"}`)
	r := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()
	h.CreateUser(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestHandler_CreateUser_EmptyBody(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(""))
	w := httptest.NewRecorder()
	h.CreateUser(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("empty body should be valid, got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestHandler_CreateUser_MalformedBody(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{not json`))
	w := httptest.NewRecorder()
	h.CreateUser(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestHandler_GetUser_NoProfile(t *testing.T) {
	s := newFakeStore()
	id, err := s.CreateUser(context.Background(), "Grace")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.GetUser(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	_ = id
}

func TestHandler_PutRating(t *testing.T) {
	s := newFakeStore()
	s.users[1] = recommend.UserSummary{ID: 1, DisplayName: "Ada"}
	s.movies[1] = testMovie(1, "Arrival")
	s.embeddings[1] = recommend.MovieEmbedding{MovieID: 1, Embedding: unitVec(4, 0)}
	h := newTestHandler(t, s)

	body := bytes.NewBufferString(`{"rating":5,"status":"watched"}`)
	r := withURLParams(httptest.NewRequest(http.MethodPut, "/users/1/ratings/1", body), map[string]string{"id": "1", "movie_id": "1"})
	w := httptest.NewRecorder()
	h.PutRating(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	if len(s.ratings[1]) != 1 {
		t.Fatalf("expected one stored rating, got %d", len(s.ratings[1]))
	}
	if s.ratings[1][0].Rating == nil || *s.ratings[1][0].Rating != 5 {
		t.Fatalf("unexpected stored rating: %+v", s.ratings[1][0])
	}
}

func TestHandler_PutRating_ZeroClears(t *testing.T) {
	s := newFakeStore()
	s.movies[1] = testMovie(1, "Arrival")
	five := 5
	s.ratings[1] = []recommend.Rating{{UserID: 1, MovieID: 1, Status: recommend.StatusWatched, Rating: &five}}
	h := newTestHandler(t, s)

	body := bytes.NewBufferString(`{"rating":0,"status":"watched"}`)
	r := withURLParams(httptest.NewRequest(http.MethodPut, "/users/1/ratings/1", body), map[string]string{"id": "1", "movie_id": "1"})
	w := httptest.NewRecorder()
	h.PutRating(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	if s.ratings[1][0].Rating != nil {
		t.Fatalf("expected rating to be cleared, got %v", *s.ratings[1][0].Rating)
	}
}

func TestHandler_PutRating_InvalidStatus(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	body := bytes.NewBufferString(`{"rating":3,"status":"bogus"}`)
	r := withURLParams(httptest.NewRequest(http.MethodPut, "/users/1/ratings/1", body), map[string]string{"id": "1", "movie_id": "1"})
	w := httptest.NewRecorder()
	h.PutRating(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestHandler_PutRating_OutOfRange(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	body := bytes.NewBufferString(`{"rating":9,"status":"watched"}`)
	r := withURLParams(httptest.NewRequest(http.MethodPut, "/users/1/ratings/1", body), map[string]string{"id": "1", "movie_id": "1"})
	w := httptest.NewRecorder()
	h.PutRating(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestHandler_Next_Empty(t *testing.T) {
	h := newTestHandler(t, newFakeStore())
	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1/next", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.Next(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	if env.Data != nil {
		t.Errorf("expected null data, got %#v", env.Data)
	}
}

func TestHandler_Next_ReturnsPopular(t *testing.T) {
	s := newFakeStore()
	s.popularity = []recommend.Movie{testMovie(1, "Top Pick")}
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1/next", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.Next(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	if env.Data == nil {
		t.Fatal("expected a movie, got null")
	}
}

func TestHandler_Feed_FallsBackToPopularity(t *testing.T) {
	s := newFakeStore()
	s.popularity = []recommend.Movie{testMovie(1, "Top Pick"), testMovie(2, "Second Pick")}
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1/feed?k=10", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.Feed(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	items := env.Data.([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 fallback items, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["score"] != nil {
		t.Errorf("popularity fallback should have score=null, got %v", first["score"])
	}
}

func TestHandler_Match_NoProfile(t *testing.T) {
	s := newFakeStore()
	s.movies[1] = testMovie(1, "Arrival")
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1/movies/1/match", nil), map[string]string{"id": "1", "mid": "1"})
	w := httptest.NewRecorder()
	h.Match(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	data := env.Data.(map[string]interface{})
	if data["score"] != nil {
		t.Errorf("expected score=null without a profile, got %v", data["score"])
	}
}

func TestHandler_RatingQueue(t *testing.T) {
	s := newFakeStore()
	s.popularity = []recommend.Movie{testMovie(1, "A"), testMovie(2, "B")}
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1/rating-queue?k=1", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.RatingQueue(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	items := env.Data.([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if env.Meta == nil || !env.Meta.HasMore {
		t.Errorf("expected has_more=true, got %+v", env.Meta)
	}
}

func TestHandler_ListRatings(t *testing.T) {
	s := newFakeStore()
	three := 3
	s.ratings[1] = []recommend.Rating{{UserID: 1, MovieID: 1, Status: recommend.StatusWatched, Rating: &three}}
	h := newTestHandler(t, s)

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/users/1/ratings", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.ListRatings(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
}
