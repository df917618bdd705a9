// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/companedia/companedia/internal/content"
	"github.com/companedia/companedia/internal/model"
)

// NormalizeReport summarizes a normalize run.
type NormalizeReport struct {
	Scanned int // rows inspected
	Updated int // rows written back
	Errors  int // rows with unreparable structured fields, left untouched
}

// jsonFields are the structured columns the normalizer repairs, with the
// parser that proves the payload and the canonical re-encoding.
var jsonFields = []string{"pricing_plans", "features", "faq"}

// textFields are the prose columns checked for duplicated paragraph blocks.
var textFields = []string{"description", "best_for", "my_verdict", "body_text"}

// Normalize walks every translation row and the companion base records,
// repairs broken structured fields, normalizes prices, and collapses
// duplicated paragraphs. Only changed fields are written back, so a
// re-run over a clean table writes nothing.
func (j *Jobs) Normalize(ctx context.Context) (NormalizeReport, error) {
	var report NormalizeReport

	rows, err := j.allTranslations(ctx)
	if err != nil {
		return report, err
	}
	for _, t := range rows {
		report.Scanned++
		updates, ok := j.normalizedFields(t.Language, t.Get)
		if !ok {
			report.Errors++
			continue
		}
		if len(updates) == 0 {
			continue
		}
		if _, err := j.store.Update(ctx, j.tables.Translations, t.ID, updates); err != nil {
			return report, fmt.Errorf("normalizing translation %s: %w", t.ID, err)
		}
		report.Updated++
		j.logger.Info("normalized translation",
			"id", t.ID, "slug", t.CompanionSlug, "lang", t.Language, "fields", len(updates))
	}

	companions, err := j.activeCompanions(ctx)
	if err != nil {
		return report, err
	}
	for _, c := range companions {
		report.Scanned++
		fields := map[string]string{
			"pricing_plans": c.PricingPlansRaw,
			"description":   c.Description,
		}
		updates, ok := j.normalizedFields(model.BaseLanguage, func(f string) string {
			return fields[f]
		})
		if !ok {
			report.Errors++
			continue
		}
		if len(updates) == 0 {
			continue
		}
		if _, err := j.store.Update(ctx, j.tables.Companions, c.ID, updates); err != nil {
			return report, fmt.Errorf("normalizing companion %s: %w", c.Slug, err)
		}
		report.Updated++
		j.logger.Info("normalized companion", "slug", c.Slug, "fields", len(updates))
	}

	j.logger.Info("normalize complete",
		"scanned", report.Scanned, "updated", report.Updated, "errors", report.Errors)
	return report, nil
}

// normalizedFields computes the fields that need rewriting for one row.
// get returns the current value of a field, "" when absent. The second
// return is false when a structured field exists but cannot be repaired;
// such rows are skipped rather than half-written.
func (j *Jobs) normalizedFields(lang string, get func(string) string) (map[string]any, bool) {
	n := content.New(lang, j.logger)
	updates := make(map[string]any)

	for _, f := range jsonFields {
		raw := get(f)
		if raw == "" {
			continue
		}
		canonical, err := canonicalJSON(n, f, raw)
		if err != nil {
			j.logger.Warn("unreparable field", "field", f, "error", err)
			return nil, false
		}
		if canonical != raw {
			updates[f] = canonical
		}
	}

	for _, f := range textFields {
		raw := get(f)
		if raw == "" {
			continue
		}
		if collapsed, changed := content.CollapseDuplicatedText(raw); changed {
			updates[f] = collapsed
		}
	}

	return updates, true
}

// canonicalJSON parses a structured field through the repairing normalizer
// and re-encodes it in canonical form.
func canonicalJSON(n *content.Normalizer, field, raw string) (string, error) {
	var v any
	var err error
	switch field {
	case "pricing_plans":
		v, err = n.PricingPlans(raw)
	case "features":
		v, err = n.FeatureList(raw)
	case "faq":
		v, err = n.FAQ(raw)
	default:
		return raw, nil
	}
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
