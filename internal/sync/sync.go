// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sync implements the offline maintenance jobs run by the compsync
// CLI: translation dedupe, content normalization, placeholder creation,
// machine translation, static site fragment edits, and sitemap updates.
// Jobs are sequential and idempotent; a job interrupted partway can be
// re-run and will skip the work already done.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/companedia/companedia/internal/airtable"
	"github.com/companedia/companedia/internal/model"
	"github.com/companedia/companedia/internal/service"
)

// Jobs holds the shared dependencies of every sync job.
type Jobs struct {
	store  service.Store
	tables service.Tables
	logger *slog.Logger
}

// New creates the job runner.
func New(store service.Store, tables service.Tables, logger *slog.Logger) *Jobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Jobs{store: store, tables: tables, logger: logger}
}

// allTranslations fetches every translation row, in store order.
func (j *Jobs) allTranslations(ctx context.Context) ([]model.Translation, error) {
	recs, err := j.store.Select(ctx, j.tables.Translations, airtable.SelectOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}
	rows := make([]model.Translation, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, model.TranslationFromRecord(r))
	}
	return rows, nil
}

// activeCompanions fetches every non-draft companion.
func (j *Jobs) activeCompanions(ctx context.Context) ([]model.Companion, error) {
	recs, err := j.store.Select(ctx, j.tables.Companions, airtable.SelectOptions{
		Filter: airtable.NotBlank("slug"),
	})
	if err != nil {
		return nil, fmt.Errorf("listing companions: %w", err)
	}
	companions := make([]model.Companion, 0, len(recs))
	for _, r := range recs {
		companions = append(companions, model.CompanionFromRecord(r))
	}
	return companions, nil
}

// pairKey identifies a (companion, language) translation group.
type pairKey struct {
	Slug string
	Lang string
}

// groupTranslations buckets rows by (slug, language), dropping rows with no
// slug since they cannot be attributed to a companion.
func groupTranslations(rows []model.Translation) map[pairKey][]model.Translation {
	groups := make(map[pairKey][]model.Translation)
	for _, t := range rows {
		if t.CompanionSlug == "" {
			continue
		}
		k := pairKey{Slug: t.CompanionSlug, Lang: t.Language}
		groups[k] = append(groups[k], t)
	}
	return groups
}
