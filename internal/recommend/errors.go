// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import "errors"

// Sentinel failures. The transport layer performs one central mapping from
// these to HTTP status codes and the stable error-code taxonomy; nothing
// downstream of the Store or Vector Index should construct its own ad hoc
// error strings for these conditions.
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmbeddingNotFound = errors.New("movie embedding not found")
	ErrProfileNotFound   = errors.New("user profile not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIndexUnavailable  = errors.New("vector index unavailable")
	ErrDeadlineExceeded  = errors.New("deadline exceeded")
)
