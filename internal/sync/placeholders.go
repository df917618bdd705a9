// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/companedia/companedia/internal/model"
)

// PlaceholderReport summarizes a placeholders run.
type PlaceholderReport struct {
	Companions int // companions inspected
	Created    int // placeholder rows created
	Existing   int // (companion, language) pairs that already had a row
}

// Placeholders creates an empty translation row for every (companion,
// language) pair that has none, so translators and the translate job have
// a row to fill. Existing rows, including empty ones, are never touched.
func (j *Jobs) Placeholders(ctx context.Context) (PlaceholderReport, error) {
	var report PlaceholderReport

	companions, err := j.activeCompanions(ctx)
	if err != nil {
		return report, err
	}
	report.Companions = len(companions)

	rows, err := j.allTranslations(ctx)
	if err != nil {
		return report, err
	}
	existing := make(map[pairKey]bool, len(rows))
	for _, t := range rows {
		existing[pairKey{Slug: t.CompanionSlug, Lang: t.Language}] = true
	}

	sort.Slice(companions, func(i, k int) bool {
		return companions[i].Slug < companions[k].Slug
	})

	for _, c := range companions {
		// English rows are created too: fields without a companion
		// column live only in translation rows, and the resolver falls
		// back to the English row for them.
		for _, lang := range model.ContentLanguages {
			k := pairKey{Slug: c.Slug, Lang: lang}
			if existing[k] {
				report.Existing++
				continue
			}
			fields := map[string]any{
				"companion_slug": c.Slug,
				"language":       lang,
			}
			if _, err := j.store.Create(ctx, j.tables.Translations, fields); err != nil {
				return report, fmt.Errorf("creating placeholder %s/%s: %w", c.Slug, lang, err)
			}
			report.Created++
			j.logger.Info("created placeholder", "slug", c.Slug, "lang", lang)
		}
	}

	j.logger.Info("placeholders complete",
		"companions", report.Companions, "created", report.Created, "existing", report.Existing)
	return report, nil
}
