// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/companedia/companedia/internal/locale"
	"github.com/companedia/companedia/internal/model"
)

// DedupeReport summarizes a dedupe run.
type DedupeReport struct {
	Groups  int // duplicate (companion, language) groups found
	Merged  int // winner rows updated with fields recovered from losers
	Deleted int // loser rows removed
}

// Dedupe finds (companion, language) pairs with more than one translation
// row, keeps the best row per the resolver's policy, folds any field the
// winner is missing but a loser has into the winner, and deletes the losers.
// Deletes run last so an interrupted run never loses content.
func (j *Jobs) Dedupe(ctx context.Context) (DedupeReport, error) {
	var report DedupeReport

	rows, err := j.allTranslations(ctx)
	if err != nil {
		return report, err
	}
	groups := groupTranslations(rows)

	// Deterministic order so reruns and logs line up.
	keys := make([]pairKey, 0, len(groups))
	for k, g := range groups {
		if len(g) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, k int) bool {
		if keys[i].Slug != keys[k].Slug {
			return keys[i].Slug < keys[k].Slug
		}
		return keys[i].Lang < keys[k].Lang
	})
	report.Groups = len(keys)

	var doomed []string
	for _, k := range keys {
		group := groups[k]
		winner, ok := locale.PickBest(group)
		if !ok {
			continue
		}

		merged := make(map[string]any)
		for _, t := range group {
			if t.ID == winner.ID {
				continue
			}
			for _, f := range model.TrackedFields {
				if winner.Get(f) == "" && t.Get(f) != "" && merged[f] == nil {
					merged[f] = t.Get(f)
				}
			}
			doomed = append(doomed, t.ID)
		}

		if len(merged) > 0 {
			if _, err := j.store.Update(ctx, j.tables.Translations, winner.ID, merged); err != nil {
				return report, fmt.Errorf("merging into %s (%s/%s): %w", winner.ID, k.Slug, k.Lang, err)
			}
			report.Merged++
			j.logger.Info("merged duplicate translations",
				"slug", k.Slug, "lang", k.Lang, "winner", winner.ID, "fields", len(merged))
		}
	}

	if len(doomed) > 0 {
		if err := j.store.Destroy(ctx, j.tables.Translations, doomed); err != nil {
			return report, fmt.Errorf("deleting duplicates: %w", err)
		}
	}
	report.Deleted = len(doomed)

	j.logger.Info("dedupe complete",
		"groups", report.Groups, "merged", report.Merged, "deleted", report.Deleted)
	return report, nil
}
