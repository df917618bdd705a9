// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the typed content entities and the conversion
// boundary from the record store's loosely-typed field bags. Everything past
// this package works with explicit structs, never raw field maps.
package model

import (
	"time"

	"github.com/companedia/companedia/internal/airtable"
)

// Companion lifecycle states.
const (
	StatusActive = "Active"
	StatusHidden = "Hidden"
	StatusDraft  = "Draft"
)

// PricingPlan is one tier of a companion's pricing table.
type PricingPlan struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Period   string   `json:"period,omitempty"`
	Features []string `json:"features,omitempty"`
	Badge    string   `json:"badge,omitempty"`
}

// FAQEntry is a single question/answer pair.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Companion is the base-language record for a reviewed product. Slug is the
// stable cross-locale join key; ID is store-internal and must never be
// assumed stable across environments.
type Companion struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Rating     float64  `json:"rating"` // 0-10
	LogoURL    string   `json:"logo_url"`
	WebsiteURL string   `json:"website_url"`
	Categories []string `json:"categories"`
	Badges     []string `json:"badges"`
	Status     string   `json:"status"`
	Featured   bool     `json:"featured"`

	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Pros             string `json:"pros"`
	Cons             string `json:"cons"`

	// PricingPlansRaw holds the JSON-encoded pricing blob as stored; the
	// content normalizer owns parsing and repair.
	PricingPlansRaw string `json:"-"`

	ReviewCount int `json:"review_count"`

	// Deal fields, meaningful when DealActive is set.
	DealActive      bool   `json:"deal_active"`
	DealDescription string `json:"deal_description,omitempty"`
	DealBadge       string `json:"deal_badge,omitempty"`
	WebsiteURL2     string `json:"website_url_2,omitempty"`

	ModifiedAt time.Time `json:"-"`
}

// IsVisible reports whether the companion should appear on the live site.
func (c Companion) IsVisible() bool {
	return c.Status == StatusActive
}

// CompanionFromRecord converts a store record into a Companion. Missing
// fields become zero values; nothing here fails, because the store omits
// blank cells rather than sending nulls.
func CompanionFromRecord(r airtable.Record) Companion {
	status := r.Str("status")
	if status == "" {
		status = StatusDraft
	}
	return Companion{
		ID:               r.ID,
		Slug:             r.Str("slug"),
		Name:             r.Str("name"),
		Rating:           r.Num("rating"),
		LogoURL:          r.Str("logo_url"),
		WebsiteURL:       r.Str("website_url"),
		Categories:       r.StrSlice("categories"),
		Badges:           r.StrSlice("badges"),
		Status:           status,
		Featured:         r.Bool("featured"),
		Description:      r.Str("description"),
		ShortDescription: r.Str("tagline"),
		Pros:             r.Str("pros"),
		Cons:             r.Str("cons"),
		PricingPlansRaw:  r.Str("pricing_plans"),
		ReviewCount:      int(r.Num("review_count")),
		DealActive:       r.Bool("deal_active"),
		DealDescription:  r.Str("deal_description"),
		DealBadge:        r.Str("deal_badge"),
		WebsiteURL2:      r.Str("website_url_2"),
		ModifiedAt:       r.Time("last_modified"),
	}
}

// Deal is the projection of an active-deal companion served by the deals
// endpoint.
type Deal struct {
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Rating          float64 `json:"rating"`
	LogoURL         string  `json:"logo_url"`
	WebsiteURL      string  `json:"website_url"`
	DealDescription string  `json:"deal_description"`
	DealBadge       string  `json:"deal_badge"`
}

// DealFromCompanion projects the deal view. The A/B variant URL wins when
// present.
func DealFromCompanion(c Companion) Deal {
	website := c.WebsiteURL
	if c.WebsiteURL2 != "" {
		website = c.WebsiteURL2
	}
	return Deal{
		Slug:            c.Slug,
		Name:            c.Name,
		Rating:          c.Rating,
		LogoURL:         c.LogoURL,
		WebsiteURL:      website,
		DealDescription: c.DealDescription,
		DealBadge:       c.DealBadge,
	}
}

// Article is an editorial page listed on the site.
type Article struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	ShortTitle    string    `json:"short_title,omitempty"`
	Featured      bool      `json:"featured"`
	FeaturedOrder int       `json:"featured_order,omitempty"`
	PublishedDate time.Time `json:"published_date"`

	// Summary is the markdown teaser as stored; SummaryHTML is filled by
	// the service with the rendered, sanitized version.
	Summary     string `json:"-"`
	SummaryHTML string `json:"summary_html,omitempty"`
}

// ArticleFromRecord converts a store record into an Article.
func ArticleFromRecord(r airtable.Record) Article {
	return Article{
		ID:            r.ID,
		Slug:          r.Str("slug"),
		Title:         r.Str("title"),
		ShortTitle:    r.Str("short_title"),
		Featured:      r.Bool("featured"),
		FeaturedOrder: int(r.Num("featured_order")),
		PublishedDate: r.Time("published_date"),
		Summary:       r.Str("summary"),
	}
}
