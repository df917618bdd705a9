// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sitemap maintains the single shared sitemap.xml covering every
// site locale: per-locale URL insertion, hreflang cross-linking, and full
// regeneration. Entry blocks are spliced text-wise at a regex-anchored
// insertion point; the hreflang pass parses the whole document, because
// cross-links touch every sibling entry for a slug.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// XHTMLNamespace qualifies the hreflang link elements.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// Link is an hreflang alternate reference inside a URL entry.
type Link struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// URL is a single <url> block.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
	Links      []Link `xml:"link"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []URL    `xml:"url"`
}

// Parse decodes a sitemap document. Namespace prefixes on the hreflang
// links are tolerated because matching is by local name.
func Parse(sitemapText string) ([]URL, error) {
	var set urlset
	if err := xml.Unmarshal([]byte(sitemapText), &set); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}
	return set.URLs, nil
}

// Render serializes URL entries into a complete sitemap document. The
// xhtml namespace is always declared; entries without links simply don't
// use it.
func Render(urls []URL) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<urlset xmlns="` + XMLNamespace + `" xmlns:xhtml="` + XHTMLNamespace + "\">\n")
	for _, u := range urls {
		b.WriteString(renderURL(u))
	}
	b.WriteString("</urlset>\n")
	return b.String()
}

func renderURL(u URL) string {
	var b strings.Builder
	b.WriteString("  <url>\n")
	fmt.Fprintf(&b, "    <loc>%s</loc>\n", xmlEscape(u.Loc))
	if u.LastMod != "" {
		fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", u.LastMod)
	}
	if u.ChangeFreq != "" {
		fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", u.ChangeFreq)
	}
	if u.Priority != "" {
		fmt.Fprintf(&b, "    <priority>%s</priority>\n", u.Priority)
	}
	for _, l := range u.Links {
		fmt.Fprintf(&b, "    <xhtml:link rel=%q hreflang=%q href=%q/>\n",
			l.Rel, l.Hreflang, xmlEscape(l.Href))
	}
	b.WriteString("  </url>\n")
	return b.String()
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// FormatLastMod renders a timestamp the way the rest of the sitemap does.
func FormatLastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
