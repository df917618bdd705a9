// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/companedia/companedia/internal/airtable"
)

// Content languages. English is the base language every lookup falls back to.
const (
	LangEN = "en"
	LangNL = "nl"
	LangPT = "pt"
	LangDE = "de"
	LangES = "es"

	BaseLanguage = LangEN
)

// ContentLanguages lists every language the store may hold translations for.
var ContentLanguages = []string{LangEN, LangNL, LangPT, LangDE, LangES}

// IsContentLanguage reports whether code is a known content language.
func IsContentLanguage(code string) bool {
	for _, l := range ContentLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// TrackedFields are the per-language override fields a Translation may
// populate. The locale resolver and the dedupe policy both count non-empty
// values over exactly this set.
var TrackedFields = []string{
	"tagline",
	"description",
	"best_for",
	"features",
	"pricing_plans",
	"my_verdict",
	"faq",
	"body_text",
	"hero_specs",
	"meta_title",
	"meta_description",
}

// Translation is a per-language override bundle linked to a Companion. At
// most one row may exist per (companion, language) pair; duplicates are a
// data defect the dedupe job repairs.
type Translation struct {
	ID            string `json:"id"`
	CompanionSlug string `json:"companion_slug"`
	Language      string `json:"language"`

	// Fields holds the tracked override fields by store field name. Absent
	// keys mean the translation leaves the base value in force.
	Fields map[string]string `json:"fields"`

	ModifiedAt time.Time `json:"-"`
}

// Get returns a tracked field value, or "" when not populated.
func (t Translation) Get(field string) string {
	return t.Fields[field]
}

// PopulatedCount counts non-empty tracked fields. It drives the duplicate
// tie-break: the row with the most populated fields wins.
func (t Translation) PopulatedCount() int {
	n := 0
	for _, f := range TrackedFields {
		if t.Fields[f] != "" {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the translation is a bare placeholder.
func (t Translation) IsEmpty() bool {
	return t.PopulatedCount() == 0
}

// TranslationFromRecord converts a store record into a Translation. The
// companion link surfaces as a lookup column carrying the slug.
func TranslationFromRecord(r airtable.Record) Translation {
	fields := make(map[string]string, len(TrackedFields))
	for _, f := range TrackedFields {
		if v := r.Str(f); v != "" {
			fields[f] = v
		}
	}
	slug := r.Str("companion_slug")
	if slug == "" {
		if slugs := r.StrSlice("companion_slug"); len(slugs) > 0 {
			slug = slugs[0]
		}
	}
	return Translation{
		ID:            r.ID,
		CompanionSlug: slug,
		Language:      r.Str("language"),
		Fields:        fields,
		ModifiedAt:    r.Time("last_modified"),
	}
}
