// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

// Error codes, stable across releases; clients match on these, not on the
// HTTP status or the message text.
const (
	CodeMovieNotFound     = "MOVIE_NOT_FOUND"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeEmbeddingNotFound = "EMBEDDING_NOT_FOUND"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeDeadlineExceeded  = "DEADLINE_EXCEEDED"
	CodeInternal          = "INTERNAL"
)

// mappedError is the one central place engine/store errors become an HTTP
// status and a stable code. Every handler funnels its error through this.
func mappedError(err error) (status int, code string, message string) {
	switch {
	case errors.Is(err, recommend.ErrMovieNotFound):
		return http.StatusNotFound, CodeMovieNotFound, "movie not found"
	case errors.Is(err, recommend.ErrUserNotFound):
		return http.StatusNotFound, CodeUserNotFound, "user not found"
	case errors.Is(err, recommend.ErrEmbeddingNotFound):
		return http.StatusNotFound, CodeEmbeddingNotFound, "movie has no embedding"
	case errors.Is(err, recommend.ErrProfileNotFound):
		return http.StatusNotFound, CodeProfileNotFound, "user has no profile"
	case errors.Is(err, recommend.ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidArgument, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeDeadlineExceeded, "request deadline exceeded"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	}
}

// invalidArgument wraps recommend.ErrInvalidArgument with a caller-supplied
// detail, for request-shape failures caught in the transport layer itself
// (malformed cursor, k out of range) rather than inside the engine.
func invalidArgument(detail string) error {
	return errors.Join(recommend.ErrInvalidArgument, errors.New(detail))
}
