// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package airtable

import (
	"time"
)

// Record is a single row from the store: an opaque ID plus a loosely-typed
// field bag. The accessors below are the schema-validation boundary; code
// outside this package and internal/model should never dig into Fields
// directly.
type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime time.Time      `json:"createdTime"`
}

// Str returns a string field, or "" when absent or not a string.
func (r Record) Str(field string) string {
	s, _ := r.Fields[field].(string)
	return s
}

// Num returns a numeric field as float64, accepting int values the JSON
// decoder may have preserved. Returns 0 when absent.
func (r Record) Num(field string) float64 {
	switch v := r.Fields[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns a checkbox field. The store omits unchecked boxes entirely, so
// absence means false.
func (r Record) Bool(field string) bool {
	b, _ := r.Fields[field].(bool)
	return b
}

// StrSlice returns a multi-select or linked-record field as a string slice.
func (r Record) StrSlice(field string) []string {
	raw, ok := r.Fields[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Time parses an ISO-8601 timestamp field. Returns the zero time when absent
// or malformed.
func (r Record) Time(field string) time.Time {
	s, ok := r.Fields[field].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Has reports whether a field is present and non-empty. Empty strings and
// empty slices count as absent, matching how the store omits blank cells.
func (r Record) Has(field string) bool {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	}
	return true
}
