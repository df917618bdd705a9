// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sitemod applies idempotent text-rewrite rules to the on-disk
// static HTML tree: navigation entries, footers, CTAs, and language
// switchers keyed by detectable anchor patterns. Every rule is safely
// re-runnable; applying it twice never duplicates the inserted fragment.
package sitemod

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how a rule rewrites the document around its anchor.
type Mode int

const (
	// InsertAfter places the template immediately after the anchor match.
	InsertAfter Mode = iota
	// InsertBefore places the template immediately before the anchor match.
	InsertBefore
	// Replace substitutes the anchor match with the template.
	Replace
	// Remove deletes the anchor match.
	Remove
)

// FragmentRule is a single idempotent rewrite. Marker is the idempotency
// check: a document already containing it is left untouched. For Remove
// rules the anchor doubles as the marker — an absent anchor means the
// fragment is already gone.
type FragmentRule struct {
	Name     string
	Anchor   *regexp.Regexp
	Marker   string
	Template string
	Mode     Mode
}

// Validate reports configuration mistakes before a rule touches any file.
func (r FragmentRule) Validate() error {
	if r.Anchor == nil {
		return fmt.Errorf("rule %q: anchor pattern is required", r.Name)
	}
	if r.Mode != Remove && r.Marker == "" {
		return fmt.Errorf("rule %q: marker is required for insertion rules", r.Name)
	}
	return nil
}

// Apply rewrites one document. The second return reports whether the text
// changed; anchors that never match leave the document untouched so callers
// can count and report the miss.
func (r FragmentRule) Apply(doc string) (string, bool) {
	if r.Mode == Remove {
		loc := r.Anchor.FindStringIndex(doc)
		if loc == nil {
			return doc, false
		}
		return doc[:loc[0]] + doc[loc[1]:], true
	}

	if r.Marker != "" && strings.Contains(doc, r.Marker) {
		return doc, false
	}

	loc := r.Anchor.FindStringIndex(doc)
	if loc == nil {
		return doc, false
	}

	switch r.Mode {
	case InsertAfter:
		return doc[:loc[1]] + r.Template + doc[loc[1]:], true
	case InsertBefore:
		return doc[:loc[0]] + r.Template + doc[loc[0]:], true
	case Replace:
		return doc[:loc[0]] + r.Template + doc[loc[1]:], true
	}
	return doc, false
}

// Matched reports whether the rule's anchor occurs in the document at all,
// independent of the idempotency marker. The walker uses it to distinguish
// "already applied" from "anchor missing".
func (r FragmentRule) Matched(doc string) bool {
	return r.Anchor.MatchString(doc)
}
