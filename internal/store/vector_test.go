// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package store

import "testing"

func TestToVectorLiteral_RoundTrips(t *testing.T) {
	vec := []float32{0.1, -0.2, 0.3}
	lit, err := toVectorLiteral(vec, 3)
	if err != nil {
		t.Fatalf("toVectorLiteral: %v", err)
	}
	if lit != "[0.1,-0.2,0.3]" {
		t.Fatalf("toVectorLiteral() = %q, want [0.1,-0.2,0.3]", lit)
	}

	got, err := parseVectorLiteral(lit)
	if err != nil {
		t.Fatalf("parseVectorLiteral: %v", err)
	}
	if len(got) != len(vec) {
		t.Fatalf("parseVectorLiteral() len = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("parseVectorLiteral()[%d] = %v, want %v", i, got[i], vec[i])
		}
	}
}

func TestToVectorLiteral_RejectsDimensionMismatch(t *testing.T) {
	if _, err := toVectorLiteral([]float32{1, 2}, 3); err == nil {
		t.Fatalf("toVectorLiteral() expected an error for a dimension mismatch")
	}
}

func TestToVectorLiteral_RejectsEmpty(t *testing.T) {
	if _, err := toVectorLiteral(nil, 3); err == nil {
		t.Fatalf("toVectorLiteral() expected an error for an empty embedding")
	}
}

func TestParseVectorLiteral_EmptyStringIsNil(t *testing.T) {
	got, err := parseVectorLiteral("[]")
	if err != nil {
		t.Fatalf("parseVectorLiteral: %v", err)
	}
	if got != nil {
		t.Fatalf("parseVectorLiteral([]) = %v, want nil", got)
	}
}
