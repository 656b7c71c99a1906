// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

func TestParsePage_Defaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/users/1/feed", nil)
	k, cursor, err := parsePage(r)
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}
	if k != defaultPageSize {
		t.Errorf("k: got %d, want %d", k, defaultPageSize)
	}
	if cursor != 0 {
		t.Errorf("cursor: got %d, want 0", cursor)
	}
}

func TestParsePage_Explicit(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/users/1/feed?k=5&cursor=40", nil)
	k, cursor, err := parsePage(r)
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}
	if k != 5 {
		t.Errorf("k: got %d, want 5", k)
	}
	if cursor != 40 {
		t.Errorf("cursor: got %d, want 40", cursor)
	}
}

func TestParsePage_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"k not an integer", "k=abc"},
		{"k zero", "k=0"},
		{"k too large", "k=101"},
		{"k negative", "k=-1"},
		{"cursor not an integer", "cursor=abc"},
		{"cursor negative", "cursor=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/users/1/feed?"+tt.query, nil)
			_, _, err := parsePage(r)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !errors.Is(err, recommend.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestParsePage_BoundaryValues(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/users/1/feed?k=1&cursor=0", nil)
	if _, _, err := parsePage(r); err != nil {
		t.Errorf("k=1 should be valid: %v", err)
	}

	r = httptest.NewRequest(http.MethodGet, "/v1/users/1/feed?k=100", nil)
	if _, _, err := parsePage(r); err != nil {
		t.Errorf("k=100 should be valid: %v", err)
	}
}

func TestNextCursor(t *testing.T) {
	if c := nextCursor(false, 0, 20); c != nil {
		t.Errorf("expected nil cursor when hasMore is false, got %v", *c)
	}
	c := nextCursor(true, 20, 20)
	if c == nil {
		t.Fatal("expected a cursor when hasMore is true")
	}
	if *c != "40" {
		t.Errorf("cursor: got %q, want %q", *c, "40")
	}
}
