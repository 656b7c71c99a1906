// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package store

import (
	"fmt"
	"strconv"
	"strings"
)

// toVectorLiteral renders an embedding as a pgvector text literal
// ("[v1,v2,...]") for parameter binding. lib/pq has no native vector type,
// so the literal is bound as a plain string and cast by Postgres.
func toVectorLiteral(embedding []float32, dim int) (string, error) {
	if len(embedding) == 0 {
		return "", fmt.Errorf("store: embedding is empty")
	}
	if dim > 0 && len(embedding) != dim {
		return "", fmt.Errorf("store: embedding length %d does not match dimension %d", len(embedding), dim)
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

// parseVectorLiteral parses a pgvector text representation ("[v1,v2,...]")
// back into a []float32, as returned by a plain ::text cast in a SELECT.
func parseVectorLiteral(lit string) ([]float32, error) {
	lit = strings.TrimSpace(lit)
	lit = strings.TrimPrefix(lit, "[")
	lit = strings.TrimSuffix(lit, "]")
	if lit == "" {
		return nil, nil
	}
	parts := strings.Split(lit, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("store: parse vector literal: %w", err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
