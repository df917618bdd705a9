// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: a quiet logger and an
// in-memory fake of the record store.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/companedia/companedia/internal/airtable"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// FakeStore is an in-memory stand-in for the record store client. It applies
// only the small formula subset the pipeline generates; anything else
// matches nothing.
type FakeStore struct {
	mu     sync.Mutex
	tables map[string][]airtable.Record
	nextID int

	// FailWith, when set, makes every call return this error.
	FailWith error

	// Calls records the operations performed, for assertions on throttling
	// and batching behavior.
	Calls []string
}

// NewFakeStore creates an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{tables: make(map[string][]airtable.Record)}
}

// Seed adds a record with the given fields and returns its assigned ID.
func (f *FakeStore) Seed(table string, fields map[string]any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("rec%03d", f.nextID)
	f.tables[table] = append(f.tables[table], airtable.Record{ID: id, Fields: fields})
	return id
}

// Select lists records matching the filter formula.
func (f *FakeStore) Select(_ context.Context, table string, opts airtable.SelectOptions) ([]airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "select "+table)
	if f.FailWith != nil {
		return nil, f.FailWith
	}

	var out []airtable.Record
	for _, r := range f.tables[table] {
		if matchFormula(opts.Filter.String(), r) {
			out = append(out, r)
		}
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Create inserts a record.
func (f *FakeStore) Create(_ context.Context, table string, fields map[string]any) (airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "create "+table)
	if f.FailWith != nil {
		return airtable.Record{}, f.FailWith
	}
	f.nextID++
	rec := airtable.Record{ID: fmt.Sprintf("rec%03d", f.nextID), Fields: fields}
	f.tables[table] = append(f.tables[table], rec)
	return rec, nil
}

// Update patches fields on a record.
func (f *FakeStore) Update(_ context.Context, table, id string, fields map[string]any) (airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "update "+table+" "+id)
	if f.FailWith != nil {
		return airtable.Record{}, f.FailWith
	}
	for i, r := range f.tables[table] {
		if r.ID == id {
			for k, v := range fields {
				f.tables[table][i].Fields[k] = v
			}
			return f.tables[table][i], nil
		}
	}
	return airtable.Record{}, &airtable.StoreError{Kind: airtable.ErrBadQuery, StatusCode: 404, Message: "record not found"}
}

// Destroy deletes records by id.
func (f *FakeStore) Destroy(_ context.Context, table string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, fmt.Sprintf("destroy %s x%d", table, len(ids)))
	if f.FailWith != nil {
		return f.FailWith
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.tables[table][:0]
	for _, r := range f.tables[table] {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	f.tables[table] = kept
	return nil
}

// Records returns a copy of a table's rows.
func (f *FakeStore) Records(table string) []airtable.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]airtable.Record, len(f.tables[table]))
	copy(out, f.tables[table])
	return out
}

// matchFormula interprets the formula subset the pipeline builds: empty,
// {f} = 'v', {f} = TRUE(), FIND('v', {f}) > 0, and AND(...) of those.
func matchFormula(formula string, r airtable.Record) bool {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return true
	}
	if inner, ok := stripCall(formula, "AND"); ok {
		for _, part := range splitTop(inner) {
			if !matchFormula(part, r) {
				return false
			}
		}
		return true
	}
	if inner, ok := stripCall(formula, "OR"); ok {
		for _, part := range splitTop(inner) {
			if matchFormula(part, r) {
				return true
			}
		}
		return false
	}
	if strings.HasPrefix(formula, "FIND(") {
		// FIND('value', {field}) > 0
		inner := strings.TrimSuffix(strings.TrimPrefix(formula, "FIND("), ") > 0")
		parts := splitTop(inner)
		if len(parts) != 2 {
			return false
		}
		value := strings.Trim(parts[0], "'")
		field := strings.Trim(parts[1], "{}")
		for _, v := range r.StrSlice(field) {
			if strings.Contains(v, value) {
				return true
			}
		}
		return strings.Contains(r.Str(field), value)
	}
	if field, value, ok := strings.Cut(formula, " = "); ok {
		field = strings.Trim(field, "{}")
		if value == "TRUE()" {
			return r.Bool(field)
		}
		if value == "''" {
			return !r.Has(field)
		}
		return r.Str(field) == strings.Trim(value, "'")
	}
	if field, value, ok := strings.Cut(formula, " != "); ok {
		field = strings.Trim(field, "{}")
		if value == "''" {
			return r.Has(field)
		}
		return r.Str(field) != strings.Trim(value, "'")
	}
	return false
}

func stripCall(s, fn string) (string, bool) {
	if strings.HasPrefix(s, fn+"(") && strings.HasSuffix(s, ")") {
		return s[len(fn)+1 : len(s)-1], true
	}
	return "", false
}

// splitTop splits on commas at paren/quote depth zero.
func splitTop(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case '(', '{':
			if !inQuote {
				depth++
			}
		case ')', '}':
			if !inQuote {
				depth--
			}
		case ',':
			if depth == 0 && !inQuote {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
