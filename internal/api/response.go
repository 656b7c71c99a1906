// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/logging"
)

// envelope is the success-path response shape.
type envelope struct {
	Data interface{} `json:"data"`
	Meta *meta       `json:"meta,omitempty"`
}

// meta carries cursor-pagination state. Both fields are present (rather
// than omitted) whenever a handler returns a page, so clients never have to
// distinguish "absent" from "null".
type meta struct {
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// errorEnvelope is the failure-path response shape.
type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response body")
	}
}

// writeData writes a non-paginated success response.
func writeData(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, r, http.StatusOK, envelope{Data: data})
}

// writePage writes a cursor-paginated success response.
func writePage(w http.ResponseWriter, r *http.Request, data interface{}, nextCursor *string, hasMore bool) {
	writeJSON(w, r, http.StatusOK, envelope{Data: data, Meta: &meta{NextCursor: nextCursor, HasMore: hasMore}})
}

// writeError maps err through the central error taxonomy and writes it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := mappedError(err)
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", r.URL.Path).Str("code", code).Msg("request failed")
	}
	writeJSON(w, r, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}
