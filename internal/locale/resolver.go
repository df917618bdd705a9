// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale implements the fallback chain that selects which language
// variant of a content field to display, plus the UI-chrome string catalog.
package locale

import (
	"strconv"

	"github.com/companedia/companedia/internal/model"
)

// FieldDefaults supplies the last-resort value per field when neither the
// translation nor the base record has content.
var FieldDefaults = map[string]string{
	"deal_badge":   "SPECIAL OFFER",
	"review_count": "0",
}

// Content bundles a companion with its translation rows, grouped by
// language. A language may map to more than one row in the duplicate-defect
// state; PickBest decides which wins.
type Content struct {
	Companion    model.Companion
	Translations map[string][]model.Translation
}

// Resolver resolves translated field values for a companion.
type Resolver struct {
	defaults map[string]string
}

// NewResolver creates a resolver with the standard per-field defaults.
func NewResolver() *Resolver {
	return &Resolver{defaults: FieldDefaults}
}

// Field resolves a single field for the given language:
//
//  1. Base-language requests read the companion record directly.
//  2. Otherwise the requested language's translation wins if non-empty.
//  3. Otherwise the base value applies: the companion's own column, or for
//     fields that only exist on translation rows, the base-language row.
//     English content inside a non-English page beats an empty gap.
//  4. Otherwise the per-field default; fields without a declared default
//     resolve to "".
func (r *Resolver) Field(ct Content, lang, field string) string {
	if lang != model.BaseLanguage {
		if v := translated(ct, lang, field); v != "" {
			return v
		}
	}
	if v := baseField(ct.Companion, field); v != "" {
		return v
	}
	if v := translated(ct, model.BaseLanguage, field); v != "" {
		return v
	}
	return r.defaults[field]
}

// translated returns the winning translation row's field for lang, or "".
func translated(ct Content, lang, field string) string {
	best, ok := PickBest(ct.Translations[lang])
	if !ok {
		return ""
	}
	return best.Get(field)
}

// PickBest selects the authoritative row among duplicate translations for one
// (companion, language) pair: most non-empty tracked fields, then most
// recently modified. The dedupe job applies the same policy, so online
// resolution and offline cleanup always agree on the survivor.
func PickBest(translations []model.Translation) (model.Translation, bool) {
	if len(translations) == 0 {
		return model.Translation{}, false
	}
	best := translations[0]
	for _, t := range translations[1:] {
		bc, tc := best.PopulatedCount(), t.PopulatedCount()
		if tc > bc || (tc == bc && t.ModifiedAt.After(best.ModifiedAt)) {
			best = t
		}
	}
	return best, true
}

// baseField maps a tracked field name onto the companion's base-language
// column. Fields that live only on translation rows resolve to "".
func baseField(c model.Companion, field string) string {
	switch field {
	case "tagline":
		return c.ShortDescription
	case "description":
		return c.Description
	case "pricing_plans":
		return c.PricingPlansRaw
	case "deal_badge":
		return c.DealBadge
	case "deal_description":
		return c.DealDescription
	case "pros":
		return c.Pros
	case "cons":
		return c.Cons
	case "review_count":
		if c.ReviewCount == 0 {
			return ""
		}
		return strconv.Itoa(c.ReviewCount)
	default:
		return ""
	}
}
