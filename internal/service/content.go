// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service assembles the content pipeline: it reads records through
// the store client, converts them into typed models, resolves locale
// fallbacks, and normalizes the semi-structured blobs into display-ready
// shapes for the API handlers and the offline jobs.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/companedia/companedia/internal/airtable"
	"github.com/companedia/companedia/internal/content"
	"github.com/companedia/companedia/internal/locale"
	"github.com/companedia/companedia/internal/model"
)

// Store is the record store surface the service needs. *airtable.Client
// satisfies it; tests substitute a fake.
type Store interface {
	Select(ctx context.Context, table string, opts airtable.SelectOptions) ([]airtable.Record, error)
	Create(ctx context.Context, table string, fields map[string]any) (airtable.Record, error)
	Update(ctx context.Context, table, id string, fields map[string]any) (airtable.Record, error)
	Destroy(ctx context.Context, table string, ids []string) error
}

// Tables names the store tables holding each entity.
type Tables struct {
	Companions   string
	Translations string
	Articles     string
}

// Service is the shared content pipeline.
type Service struct {
	store    Store
	tables   Tables
	resolver *locale.Resolver
	logger   *slog.Logger
}

// New creates a Service over the given store.
func New(store Store, tables Tables, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		tables:   tables,
		resolver: locale.NewResolver(),
		logger:   logger,
	}
}

// CompanionView is the localized, display-ready projection of a companion.
type CompanionView struct {
	Slug             string              `json:"slug"`
	Name             string              `json:"name"`
	Rating           float64             `json:"rating"`
	LogoURL          string              `json:"logo_url"`
	WebsiteURL       string              `json:"website_url"`
	Categories       []string            `json:"categories"`
	Badges           []string            `json:"badges,omitempty"`
	Featured         bool                `json:"featured"`
	ShortDescription string              `json:"short_description"`
	Description      string              `json:"description"`
	PricingPlans     []model.PricingPlan `json:"pricing_plans,omitempty"`
	ReviewCount      int                 `json:"review_count"`
}

// CompanionQuery narrows a Companions call.
type CompanionQuery struct {
	Category string
	Sort     string // "rating", "name"; empty keeps store order
	Limit    int
	Lang     string
}

// Companions lists visible companions, localized for the requested language.
// Content parse failures degrade to empty pricing, never an error.
func (s *Service) Companions(ctx context.Context, q CompanionQuery) ([]CompanionView, error) {
	lang := q.Lang
	if lang == "" {
		lang = model.BaseLanguage
	}

	filter := airtable.Eq("status", model.StatusActive)
	if q.Category != "" {
		filter = airtable.And(filter, airtable.Contains("categories", q.Category))
	}

	// When a sort is requested the limit applies to the sorted result, so
	// the store must return every matching row; pushing the limit down
	// would truncate in store order instead.
	opts := airtable.SelectOptions{Filter: filter}
	if q.Sort == "" {
		opts.Limit = q.Limit
	}
	records, err := s.store.Select(ctx, s.tables.Companions, opts)
	if err != nil {
		return nil, fmt.Errorf("listing companions: %w", err)
	}

	companions := make([]model.Companion, 0, len(records))
	for _, r := range records {
		companions = append(companions, model.CompanionFromRecord(r))
	}

	translationsBySlug := map[string]map[string][]model.Translation{}
	if lang != model.BaseLanguage {
		translationsBySlug, err = s.translationsForLanguage(ctx, lang)
		if err != nil {
			// Read-side degradation: serve base-language content rather
			// than failing the whole listing.
			s.logger.Warn("translations unavailable, serving base language", "lang", lang, "error", err)
			translationsBySlug = map[string]map[string][]model.Translation{}
		}
	}

	views := make([]CompanionView, 0, len(companions))
	normalizer := content.New(lang, s.logger)
	for _, c := range companions {
		views = append(views, s.buildView(c, translationsBySlug[c.Slug], lang, normalizer))
	}

	switch q.Sort {
	case "rating":
		sort.SliceStable(views, func(i, j int) bool { return views[i].Rating > views[j].Rating })
	case "name":
		sort.SliceStable(views, func(i, j int) bool {
			return strings.ToLower(views[i].Name) < strings.ToLower(views[j].Name)
		})
	}
	if q.Sort != "" && q.Limit > 0 && len(views) > q.Limit {
		views = views[:q.Limit]
	}
	return views, nil
}

func (s *Service) buildView(c model.Companion, translations map[string][]model.Translation, lang string, n *content.Normalizer) CompanionView {
	ct := locale.Content{Companion: c, Translations: translations}

	plansRaw := s.resolver.Field(ct, lang, "pricing_plans")
	plans, err := n.PricingPlans(plansRaw)
	if err != nil {
		s.logger.Warn("pricing plans unusable", "slug", c.Slug, "error", err)
	}

	return CompanionView{
		Slug:             c.Slug,
		Name:             c.Name,
		Rating:           c.Rating,
		LogoURL:          c.LogoURL,
		WebsiteURL:       c.WebsiteURL,
		Categories:       c.Categories,
		Badges:           c.Badges,
		Featured:         c.Featured,
		ShortDescription: s.resolver.Field(ct, lang, "tagline"),
		Description:      s.resolver.Field(ct, lang, "description"),
		PricingPlans:     plans,
		ReviewCount:      c.ReviewCount,
	}
}

// DealView is a localized deal projection.
type DealView struct {
	model.Deal
	DealDescription string `json:"deal_description"`
	DealBadge       string `json:"deal_badge"`
}

// Deals lists active deals, localized. Every deal carries a badge: the
// resolver's default fills records without one.
func (s *Service) Deals(ctx context.Context, lang string) ([]DealView, error) {
	if lang == "" {
		lang = model.BaseLanguage
	}

	records, err := s.store.Select(ctx, s.tables.Companions, airtable.SelectOptions{
		Filter: airtable.And(
			airtable.Eq("status", model.StatusActive),
			airtable.Checked("deal_active"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	translationsBySlug := map[string]map[string][]model.Translation{}
	if lang != model.BaseLanguage {
		if m, err := s.translationsForLanguage(ctx, lang); err == nil {
			translationsBySlug = m
		}
	}

	deals := make([]DealView, 0, len(records))
	for _, r := range records {
		c := model.CompanionFromRecord(r)
		ct := locale.Content{Companion: c, Translations: translationsBySlug[c.Slug]}
		deals = append(deals, DealView{
			Deal:            model.DealFromCompanion(c),
			DealDescription: s.resolver.Field(ct, lang, "deal_description"),
			DealBadge:       s.resolver.Field(ct, lang, "deal_badge"),
		})
	}
	return deals, nil
}

// Translations returns the translation rows for a companion slug, optionally
// restricted to one language.
func (s *Service) Translations(ctx context.Context, slug, lang string) ([]model.Translation, error) {
	filter := airtable.Eq("companion_slug", slug)
	if lang != "" {
		filter = airtable.And(filter, airtable.Eq("language", lang))
	}
	records, err := s.store.Select(ctx, s.tables.Translations, airtable.SelectOptions{Filter: filter})
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}
	out := make([]model.Translation, 0, len(records))
	for _, r := range records {
		out = append(out, model.TranslationFromRecord(r))
	}
	return out, nil
}

// Articles lists articles, optionally only featured ones, ordered by
// featured order then publish date descending.
func (s *Service) Articles(ctx context.Context, featuredOnly bool) ([]model.Article, error) {
	opts := airtable.SelectOptions{
		Sort: []airtable.SortField{{Field: "published_date", Desc: true}},
	}
	if featuredOnly {
		opts.Filter = airtable.Checked("featured")
	}
	records, err := s.store.Select(ctx, s.tables.Articles, opts)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	out := make([]model.Article, 0, len(records))
	for _, r := range records {
		a := model.ArticleFromRecord(r)
		if a.Summary != "" {
			a.SummaryHTML = content.RenderMarkdown(a.Summary)
		}
		out = append(out, a)
	}
	if featuredOnly {
		sort.SliceStable(out, func(i, j int) bool { return out[i].FeaturedOrder < out[j].FeaturedOrder })
	}
	return out, nil
}

// CreateCompanion forwards validated fields to the store, translating public
// API field names into store names.
func (s *Service) CreateCompanion(ctx context.Context, fields map[string]any) (string, error) {
	rec, err := s.store.Create(ctx, s.tables.Companions, toStoreFields(fields))
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// UpdateCompanion patches a companion record by store ID.
func (s *Service) UpdateCompanion(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.store.Update(ctx, s.tables.Companions, id, toStoreFields(fields))
	return err
}

func toStoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[model.StoreFieldName(k)] = v
	}
	return out
}

// translationsForLanguage fetches every translation row for one language and
// groups them slug -> language -> rows, the shape locale.Content wants.
func (s *Service) translationsForLanguage(ctx context.Context, lang string) (map[string]map[string][]model.Translation, error) {
	records, err := s.store.Select(ctx, s.tables.Translations, airtable.SelectOptions{
		Filter: airtable.Eq("language", lang),
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string][]model.Translation)
	for _, r := range records {
		t := model.TranslationFromRecord(r)
		if t.CompanionSlug == "" {
			continue
		}
		if out[t.CompanionSlug] == nil {
			out[t.CompanionSlug] = make(map[string][]model.Translation)
		}
		out[t.CompanionSlug][t.Language] = append(out[t.CompanionSlug][t.Language], t)
	}
	return out, nil
}
