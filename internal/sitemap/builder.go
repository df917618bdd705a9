// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sitemap

import (
	"strings"
	"time"
)

// Builder regenerates the shared sitemap from scratch. Pages are added per
// slug with the set of locales that actually have a live page; Build emits
// entries in locale-major order with hreflang cross-links synchronized.
type Builder struct {
	siteURL string
	urls    []URL
}

// NewBuilder creates a builder for the given site URL (no trailing slash).
func NewBuilder(siteURL string) *Builder {
	return &Builder{siteURL: strings.TrimRight(siteURL, "/")}
}

// AddHome adds the homepage for every given locale.
func (b *Builder) AddHome(locales []string) {
	for _, l := range locales {
		b.urls = append(b.urls, URL{
			Loc:        b.localeURL(l, "/"),
			ChangeFreq: string(ChangeFreqDaily),
			Priority:   "1.0",
		})
	}
}

// AddCompanion adds a companion review page for every locale that has one.
func (b *Builder) AddCompanion(slug string, locales []string, updatedAt time.Time) {
	b.addPage("/"+slug+".html", locales, updatedAt, ChangeFreqWeekly, "0.8")
}

// AddArticle adds an article page for every locale that has one.
func (b *Builder) AddArticle(slug string, locales []string, publishedAt time.Time) {
	b.addPage("/"+slug+".html", locales, publishedAt, ChangeFreqMonthly, "0.6")
}

// AddCategory adds a category index page for every locale that has one.
func (b *Builder) AddCategory(slug string, locales []string) {
	b.addPage("/category/"+slug+".html", locales, time.Time{}, ChangeFreqWeekly, "0.6")
}

func (b *Builder) addPage(path string, locales []string, lastMod time.Time, freq ChangeFreq, priority string) {
	for _, l := range locales {
		b.urls = append(b.urls, URL{
			Loc:        b.localeURL(l, path),
			LastMod:    FormatLastMod(lastMod),
			ChangeFreq: string(freq),
			Priority:   priority,
		})
	}
}

func (b *Builder) localeURL(l, path string) string {
	if l == "en" {
		return b.siteURL + path
	}
	if path == "/" {
		return b.siteURL + "/" + l + "/"
	}
	return b.siteURL + "/" + l + path
}

// URLs returns the accumulated entries without rendering, for callers that
// splice them into an existing document instead of emitting a fresh one.
func (b *Builder) URLs() []URL {
	return b.urls
}

// Build generates the sitemap document with hreflang links in place.
func (b *Builder) Build() string {
	return Render(SyncHreflang(b.urls))
}
