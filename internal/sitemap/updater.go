// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sitemap

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/companedia/companedia/internal/locale"
)

var urlBlockRe = regexp.MustCompile(`(?s)<url>.*?</url>`)
var locRe = regexp.MustCompile(`<loc>(.*?)</loc>`)

// PathLocale reports which site locale a URL path belongs to. Paths without
// a locale prefix are the unprefixed English root.
func PathLocale(path string) string {
	for _, l := range locale.SiteLocales {
		if l == "en" {
			continue
		}
		if strings.HasPrefix(path, "/"+l+"/") || path == "/"+l || path == "/"+l+"/" {
			return l
		}
	}
	return "en"
}

// SlugKey strips the locale prefix from a path so sibling locale pages for
// the same slug share a key.
func SlugKey(path string) string {
	l := PathLocale(path)
	if l == "en" {
		return path
	}
	trimmed := strings.TrimPrefix(path, "/"+l)
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

func pathOf(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// InsertLocaleEntries splices new URL entries into an existing sitemap
// document. Entries land contiguously after the last existing entry of the
// reference locale, preserving existing order. Entries whose <loc> already
// exists are skipped, so re-running never duplicates a block.
func InsertLocaleEntries(sitemapText string, entries []URL, refLocale string) (string, error) {
	existing, err := Parse(sitemapText)
	if err != nil {
		return "", err
	}
	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[u.Loc] = true
	}

	var fresh strings.Builder
	for _, e := range entries {
		if seen[e.Loc] {
			continue
		}
		seen[e.Loc] = true
		fresh.WriteString(renderURL(e))
	}
	if fresh.Len() == 0 {
		return sitemapText, nil
	}

	insertAt := -1
	for _, loc := range urlBlockRe.FindAllStringIndex(sitemapText, -1) {
		block := sitemapText[loc[0]:loc[1]]
		m := locRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		if PathLocale(pathOf(m[1])) == refLocale {
			insertAt = loc[1]
		}
	}
	if insertAt < 0 {
		insertAt = strings.Index(sitemapText, "</urlset>")
		if insertAt < 0 {
			return "", fmt.Errorf("sitemap has no closing urlset tag")
		}
		return sitemapText[:insertAt] + fresh.String() + sitemapText[insertAt:], nil
	}
	return sitemapText[:insertAt] + "\n" + strings.TrimRight(fresh.String(), "\n") + sitemapText[insertAt:], nil
}

// SyncHreflang rebuilds every entry's hreflang link set so that each URL
// enumerates exactly the locales that have a live page for its slug, plus an
// x-default pointing at the English page when one exists. Adding a locale's
// entries and re-running this pass inserts the new locale's link into every
// sibling entry.
func SyncHreflang(urls []URL) []URL {
	type sibling struct {
		locale string
		loc    string
	}
	groups := make(map[string][]sibling)
	for _, u := range urls {
		path := pathOf(u.Loc)
		key := SlugKey(path)
		groups[key] = append(groups[key], sibling{locale: PathLocale(path), loc: u.Loc})
	}

	out := make([]URL, len(urls))
	for i, u := range urls {
		siblings := groups[SlugKey(pathOf(u.Loc))]
		if len(siblings) < 2 {
			u.Links = nil
			out[i] = u
			continue
		}
		sort.Slice(siblings, func(a, b int) bool {
			return localeRank(siblings[a].locale) < localeRank(siblings[b].locale)
		})
		links := make([]Link, 0, len(siblings)+1)
		for _, s := range siblings {
			links = append(links, Link{Rel: "alternate", Hreflang: s.locale, Href: s.loc})
		}
		for _, s := range siblings {
			if s.locale == "en" {
				links = append(links, Link{Rel: "alternate", Hreflang: "x-default", Href: s.loc})
				break
			}
		}
		u.Links = links
		out[i] = u
	}
	return out
}

func localeRank(l string) int {
	for i, s := range locale.SiteLocales {
		if s == l {
			return i
		}
	}
	return len(locale.SiteLocales)
}
