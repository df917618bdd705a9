package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/companedia/companedia/internal/model"
	"github.com/companedia/companedia/internal/testutil"
)

var testTables = Tables{
	Companions:   "Companions",
	Translations: "Translations",
	Articles:     "Articles",
}

func seedCompanions(f *testutil.FakeStore) {
	f.Seed("Companions", map[string]any{
		"slug":          "secrets-ai",
		"name":          "Secrets AI",
		"status":        "Active",
		"rating":        9.6,
		"tagline":       "The most lifelike AI companion.",
		"description":   "Long English description.",
		"categories":    []any{"ai-girlfriend", "roleplay"},
		"pricing_plans": `[{"name":"Premium","price":19.99}]`,
		"deal_active":   true,
		"website_url":   "https://secrets.ai",
	})
	f.Seed("Companions", map[string]any{
		"slug":       "candy-ai",
		"name":       "Candy AI",
		"status":     "Active",
		"rating":     9.1,
		"tagline":    "Your virtual companion.",
		"categories": []any{"ai-girlfriend"},
	})
	f.Seed("Companions", map[string]any{
		"slug":   "hidden-ai",
		"name":   "Hidden AI",
		"status": "Hidden",
		"rating": 9.9,
	})
	f.Seed("Translations", map[string]any{
		"companion_slug": "secrets-ai",
		"language":       "nl",
		"tagline":        "De meest levensechte AI-companion.",
	})
}

func TestCompanionsFiltersAndSorts(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanions(f)
	s := New(f, testTables, testutil.TestLogger())

	views, err := s.Companions(context.Background(), CompanionQuery{Sort: "rating"})
	if err != nil {
		t.Fatalf("Companions failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d companions, want 2 (hidden excluded)", len(views))
	}
	if views[0].Slug != "secrets-ai" || views[1].Slug != "candy-ai" {
		t.Errorf("rating sort order wrong: %s, %s", views[0].Slug, views[1].Slug)
	}
	if views[0].PricingPlans[0].Price != "$19.99" {
		t.Errorf("pricing not normalized: %+v", views[0].PricingPlans)
	}
}

func TestCompanionsSortedLimitKeepsTopRated(t *testing.T) {
	f := testutil.NewFakeStore()
	// Seed in ascending rating order so store order disagrees with the
	// requested sort; the limit must apply after sorting.
	for _, c := range []struct {
		slug   string
		rating float64
	}{{"low-a", 5.0}, {"low-b", 6.0}, {"top-ai", 9.9}} {
		f.Seed("Companions", map[string]any{
			"slug":   c.slug,
			"name":   c.slug,
			"status": "Active",
			"rating": c.rating,
		})
	}
	s := New(f, testTables, testutil.TestLogger())

	views, err := s.Companions(context.Background(), CompanionQuery{Sort: "rating", Limit: 2})
	if err != nil {
		t.Fatalf("Companions failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d companions, want 2", len(views))
	}
	if views[0].Slug != "top-ai" || views[1].Slug != "low-b" {
		t.Errorf("top-rated dropped by limit: %s, %s", views[0].Slug, views[1].Slug)
	}
}

func TestCompanionsCategoryFilter(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanions(f)
	s := New(f, testTables, testutil.TestLogger())

	views, err := s.Companions(context.Background(), CompanionQuery{Category: "roleplay"})
	if err != nil {
		t.Fatalf("Companions failed: %v", err)
	}
	if len(views) != 1 || views[0].Slug != "secrets-ai" {
		t.Errorf("category filter returned %+v", views)
	}
}

func TestCompanionsLocalized(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanions(f)
	s := New(f, testTables, testutil.TestLogger())

	views, err := s.Companions(context.Background(), CompanionQuery{Lang: "nl", Sort: "name"})
	if err != nil {
		t.Fatalf("Companions failed: %v", err)
	}
	bySlug := map[string]CompanionView{}
	for _, v := range views {
		bySlug[v.Slug] = v
	}
	if got := bySlug["secrets-ai"].ShortDescription; got != "De meest levensechte AI-companion." {
		t.Errorf("nl tagline = %q", got)
	}
	// candy-ai has no nl row: English shows instead of a gap.
	if got := bySlug["candy-ai"].ShortDescription; got != "Your virtual companion." {
		t.Errorf("fallback tagline = %q", got)
	}
}

func TestDeals(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanions(f)
	s := New(f, testTables, testutil.TestLogger())

	deals, err := s.Deals(context.Background(), "pt")
	if err != nil {
		t.Fatalf("Deals failed: %v", err)
	}
	if len(deals) != 1 || deals[0].Slug != "secrets-ai" {
		t.Fatalf("Deals = %+v", deals)
	}
	// No badge anywhere: the declared default applies.
	if deals[0].DealBadge != "SPECIAL OFFER" {
		t.Errorf("DealBadge = %q, want SPECIAL OFFER", deals[0].DealBadge)
	}
}

func TestTranslations(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanions(f)
	s := New(f, testTables, testutil.TestLogger())

	rows, err := s.Translations(context.Background(), "secrets-ai", "nl")
	if err != nil {
		t.Fatalf("Translations failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Get("tagline") == "" {
		t.Errorf("Translations = %+v", rows)
	}
}

func TestCreateCompanionTranslatesFieldNames(t *testing.T) {
	f := testutil.NewFakeStore()
	s := New(f, testTables, testutil.TestLogger())

	id, err := s.CreateCompanion(context.Background(), map[string]any{
		"name":              "New AI",
		"slug":              "new-ai",
		"short_description": "A fresh companion.",
	})
	if err != nil {
		t.Fatalf("CreateCompanion failed: %v", err)
	}
	if id == "" {
		t.Fatal("no id returned")
	}

	recs := f.Records("Companions")
	if len(recs) != 1 {
		t.Fatalf("store holds %d records", len(recs))
	}
	// The public short_description lands in the store's tagline column.
	if recs[0].Str("tagline") != "A fresh companion." {
		t.Errorf("stored fields = %+v", recs[0].Fields)
	}
}

func TestCompanionsStoreFailure(t *testing.T) {
	f := testutil.NewFakeStore()
	f.FailWith = errors.New("boom")
	s := New(f, testTables, testutil.TestLogger())

	if _, err := s.Companions(context.Background(), CompanionQuery{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestArticlesRendersSummaries(t *testing.T) {
	f := testutil.NewFakeStore()
	f.Seed("Articles", map[string]any{
		"slug":           "best-ai-girlfriends",
		"title":          "Best AI Girlfriends",
		"featured":       true,
		"featured_order": 2.0,
		"summary":        "Our **updated** picks.",
	})
	f.Seed("Articles", map[string]any{
		"slug":           "ai-safety-guide",
		"title":          "AI Safety Guide",
		"featured":       true,
		"featured_order": 1.0,
	})
	s := New(f, testTables, testutil.TestLogger())

	articles, err := s.Articles(context.Background(), true)
	if err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Slug != "ai-safety-guide" {
		t.Errorf("featured order not applied: %s first", articles[0].Slug)
	}
	var withSummary *model.Article
	for i := range articles {
		if articles[i].Slug == "best-ai-girlfriends" {
			withSummary = &articles[i]
		}
	}
	if withSummary == nil {
		t.Fatal("seeded article missing")
	}
	if !strings.Contains(withSummary.SummaryHTML, "<strong>updated</strong>") {
		t.Errorf("summary not rendered: %q", withSummary.SummaryHTML)
	}
	if articles[0].SummaryHTML != "" {
		t.Errorf("article without summary got HTML: %q", articles[0].SummaryHTML)
	}
}
