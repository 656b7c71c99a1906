// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Amr-Mohie-eldeen/taste-kid/internal/recommend"
)

func TestMappedError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"movie not found", recommend.ErrMovieNotFound, http.StatusNotFound, CodeMovieNotFound},
		{"wrapped movie not found", fmt.Errorf("engine: similar: %w", recommend.ErrMovieNotFound), http.StatusNotFound, CodeMovieNotFound},
		{"user not found", recommend.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
		{"embedding not found", recommend.ErrEmbeddingNotFound, http.StatusNotFound, CodeEmbeddingNotFound},
		{"profile not found", recommend.ErrProfileNotFound, http.StatusNotFound, CodeProfileNotFound},
		{"invalid argument", invalidArgument("k must be between 1 and 100"), http.StatusBadRequest, CodeInvalidArgument},
		{"deadline exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout, CodeDeadlineExceeded},
		{"wrapped deadline exceeded", fmt.Errorf("store: query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeDeadlineExceeded},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := mappedError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status: got %d, want %d", status, tt.wantStatus)
			}
			if code != tt.wantCode {
				t.Errorf("code: got %q, want %q", code, tt.wantCode)
			}
			if message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestInvalidArgument(t *testing.T) {
	err := invalidArgument("k must be an integer")
	if !errors.Is(err, recommend.ErrInvalidArgument) {
		t.Error("invalidArgument result does not match recommend.ErrInvalidArgument")
	}
	if got := err.Error(); got == "" {
		t.Error("invalidArgument error message is empty")
	}
}
