// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/companedia/companedia/internal/locale"
	"github.com/companedia/companedia/internal/model"
	"github.com/companedia/companedia/internal/sitemap"
)

// SitemapOptions configures a sitemap run.
type SitemapOptions struct {
	// SiteDir is the static site root holding sitemap.xml.
	SiteDir string

	// SiteURL is the canonical site origin, no trailing slash.
	SiteURL string

	// Rebuild regenerates the sitemap from the record store instead of
	// patching the existing file.
	Rebuild bool

	// DryRun prints the resulting document instead of writing it.
	DryRun bool
}

// SitemapReport summarizes a sitemap run.
type SitemapReport struct {
	URLs    int  // entries in the resulting sitemap
	Changed bool // whether the file content differs from what was on disk
}

// Sitemap updates the static site's sitemap.xml. In patch mode the existing
// file keeps its entry order; missing locale entries are spliced in and
// hreflang links resynchronized. In rebuild mode the document is generated
// from the record store, which also drops entries for removed companions.
func (j *Jobs) Sitemap(ctx context.Context, opts SitemapOptions) (SitemapReport, error) {
	var report SitemapReport

	path := filepath.Join(opts.SiteDir, "sitemap.xml")
	previous, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return report, fmt.Errorf("reading sitemap: %w", err)
	}

	var doc string
	if opts.Rebuild || len(previous) == 0 {
		doc, err = j.buildSitemap(ctx, opts.SiteURL)
	} else {
		doc, err = j.patchSitemap(ctx, string(previous), opts.SiteURL)
	}
	if err != nil {
		return report, err
	}

	urls, err := sitemap.Parse(doc)
	if err != nil {
		return report, fmt.Errorf("verifying generated sitemap: %w", err)
	}
	report.URLs = len(urls)
	report.Changed = doc != string(previous)

	if opts.DryRun || !report.Changed {
		j.logger.Info("sitemap unchanged or dry run",
			"urls", report.URLs, "changed", report.Changed, "dry_run", opts.DryRun)
		return report, nil
	}

	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return report, fmt.Errorf("writing sitemap: %w", err)
	}
	j.logger.Info("sitemap written", "path", path, "urls", report.URLs)
	return report, nil
}

// buildSitemap regenerates the document from the record store.
func (j *Jobs) buildSitemap(ctx context.Context, siteURL string) (string, error) {
	companions, err := j.activeCompanions(ctx)
	if err != nil {
		return "", err
	}
	sort.Slice(companions, func(i, k int) bool {
		return companions[i].Slug < companions[k].Slug
	})

	b := sitemap.NewBuilder(siteURL)
	b.AddHome(locale.SiteLocales)

	categories := make(map[string]bool)
	for _, c := range companions {
		if !c.IsVisible() {
			continue
		}
		b.AddCompanion(c.Slug, locale.SiteLocales, c.ModifiedAt)
		for _, cat := range c.Categories {
			categories[cat] = true
		}
	}

	cats := make([]string, 0, len(categories))
	for cat := range categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		b.AddCategory(cat, locale.SiteLocales)
	}

	return b.Build(), nil
}

// patchSitemap splices per-locale entries for every active companion into
// the existing document and resynchronizes hreflang links, preserving the
// file's entry order.
func (j *Jobs) patchSitemap(ctx context.Context, previous, siteURL string) (string, error) {
	companions, err := j.activeCompanions(ctx)
	if err != nil {
		return "", err
	}
	sort.Slice(companions, func(i, k int) bool {
		return companions[i].Slug < companions[k].Slug
	})

	b := sitemap.NewBuilder(siteURL)
	for _, c := range companions {
		if !c.IsVisible() {
			continue
		}
		b.AddCompanion(c.Slug, locale.SiteLocales, c.ModifiedAt)
	}
	entries := sitemap.SyncHreflang(b.URLs())

	doc, err := sitemap.InsertLocaleEntries(previous, entries, model.BaseLanguage)
	if err != nil {
		return "", fmt.Errorf("inserting locale entries: %w", err)
	}

	urls, err := sitemap.Parse(doc)
	if err != nil {
		return "", err
	}
	return sitemap.Render(sitemap.SyncHreflang(urls)), nil
}
