// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package airtable

import (
	"testing"
	"time"
)

func TestRecordAccessors(t *testing.T) {
	r := Record{
		ID: "rec1",
		Fields: map[string]any{
			"slug":       "secrets-ai",
			"rating":     9.6,
			"count":      3,
			"featured":   true,
			"categories": []any{"ai-girlfriend", "roleplay", 42},
			"updated":    "2026-03-01T12:00:00Z",
			"empty":      "",
		},
	}

	if got := r.Str("slug"); got != "secrets-ai" {
		t.Errorf("Str = %q", got)
	}
	if got := r.Str("missing"); got != "" {
		t.Errorf("Str on missing field = %q", got)
	}
	if got := r.Str("rating"); got != "" {
		t.Errorf("Str on numeric field = %q", got)
	}

	if got := r.Num("rating"); got != 9.6 {
		t.Errorf("Num = %v", got)
	}
	if got := r.Num("count"); got != 3 {
		t.Errorf("Num on int = %v", got)
	}
	if got := r.Num("slug"); got != 0 {
		t.Errorf("Num on string = %v", got)
	}

	if !r.Bool("featured") {
		t.Error("Bool on true checkbox")
	}
	if r.Bool("missing") {
		t.Error("Bool on absent checkbox should be false")
	}

	cats := r.StrSlice("categories")
	if len(cats) != 2 || cats[0] != "ai-girlfriend" {
		t.Errorf("StrSlice = %v, non-strings should be dropped", cats)
	}

	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := r.Time("updated"); !got.Equal(want) {
		t.Errorf("Time = %v", got)
	}
	if !r.Time("slug").IsZero() {
		t.Error("Time on malformed value should be zero")
	}

	if !r.Has("slug") || r.Has("empty") || r.Has("missing") {
		t.Error("Has should treat empty strings as absent")
	}
}
