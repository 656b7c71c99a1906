// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePage reads k and cursor from the query string, defaulting k to
// defaultPageSize and cursor to 0. It rejects k outside [1,100] and a
// cursor that doesn't parse as a non-negative integer.
func parsePage(r *http.Request) (k, cursor int, err error) {
	q := r.URL.Query()

	k = defaultPageSize
	if raw := q.Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, invalidArgument("k must be an integer")
		}
	}
	if k < 1 || k > maxPageSize {
		return 0, 0, invalidArgument("k must be between 1 and 100")
	}

	cursor = 0
	if raw := q.Get("cursor"); raw != "" {
		cursor, err = strconv.Atoi(raw)
		if err != nil || cursor < 0 {
			return 0, 0, invalidArgument("cursor must be a non-negative integer")
		}
	}

	return k, cursor, nil
}

// nextCursor formats the next page's cursor, or nil when there is no next page.
func nextCursor(hasMore bool, cursor, k int) *string {
	if !hasMore {
		return nil
	}
	s := strconv.Itoa(cursor + k)
	return &s
}
