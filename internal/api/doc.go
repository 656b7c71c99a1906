// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP surface for the recommendation service: a
chi-routed /v1 API that wraps internal/recommend.Engine in a uniform
envelope, maps engine errors to a stable error-code taxonomy, and applies
request-scoped timeouts, structured logging, and Prometheus instrumentation
to every route.

Envelope:

	success: {"data": <payload>, "meta": {"next_cursor": str|null, "has_more": bool}}
	failure: {"error": {"code": SCREAMING_SNAKE, "message": str, "details"?: any}}

Pagination is offset-based via a string-encoded cursor and a page size k.
Handlers fetch k+1 rows; if more than k come back, the extra row is dropped
and has_more is set with next_cursor = offset+k.

Error codes: MOVIE_NOT_FOUND, USER_NOT_FOUND, EMBEDDING_NOT_FOUND,
PROFILE_NOT_FOUND, INVALID_ARGUMENT, DEADLINE_EXCEEDED, INTERNAL. See
errors.go for the single central mapping from engine errors to this set.
*/
package api
