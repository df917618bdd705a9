package sitemap

import (
	"strings"
	"testing"
	"time"
)

const baseSitemap = xmlHeader + `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">
  <url>
    <loc>https://example.com/secrets-ai.html</loc>
    <lastmod>2026-01-10</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.8</priority>
  </url>
  <url>
    <loc>https://example.com/candy-ai.html</loc>
    <changefreq>weekly</changefreq>
    <priority>0.8</priority>
  </url>
  <url>
    <loc>https://example.com/nl/secrets-ai.html</loc>
    <changefreq>weekly</changefreq>
    <priority>0.8</priority>
  </url>
</urlset>
`

const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

func TestParse(t *testing.T) {
	urls, err := Parse(baseSitemap)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("parsed %d urls, want 3", len(urls))
	}
	if urls[0].Loc != "https://example.com/secrets-ai.html" {
		t.Errorf("first loc = %q", urls[0].Loc)
	}
	if urls[0].LastMod != "2026-01-10" {
		t.Errorf("lastmod = %q", urls[0].LastMod)
	}
}

func TestPathLocale(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/secrets-ai.html", "en"},
		{"/nl/secrets-ai.html", "nl"},
		{"/pt/", "pt"},
		{"/de/category/chat.html", "de"},
		{"/delta.html", "en"}, // prefix match must be on a path segment
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := PathLocale(tt.path); got != tt.want {
				t.Errorf("PathLocale(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSlugKey(t *testing.T) {
	if got := SlugKey("/nl/secrets-ai.html"); got != "/secrets-ai.html" {
		t.Errorf("SlugKey = %q", got)
	}
	if got := SlugKey("/secrets-ai.html"); got != "/secrets-ai.html" {
		t.Errorf("SlugKey = %q", got)
	}
	if got := SlugKey("/pt/"); got != "/" {
		t.Errorf("SlugKey(/pt/) = %q", got)
	}
}

func TestInsertLocaleEntries(t *testing.T) {
	entries := []URL{
		{Loc: "https://example.com/de/secrets-ai.html", ChangeFreq: "weekly", Priority: "0.8"},
		{Loc: "https://example.com/de/candy-ai.html", ChangeFreq: "weekly", Priority: "0.8"},
	}

	out, err := InsertLocaleEntries(baseSitemap, entries, "en")
	if err != nil {
		t.Fatalf("InsertLocaleEntries failed: %v", err)
	}

	urls, err := Parse(out)
	if err != nil {
		t.Fatalf("result does not parse: %v", err)
	}
	if len(urls) != 5 {
		t.Fatalf("got %d urls, want 5", len(urls))
	}

	// The de entries must be contiguous, after the last en entry and before
	// the pre-existing nl entry.
	var order []string
	for _, u := range urls {
		order = append(order, PathLocale(strings.TrimPrefix(u.Loc, "https://example.com")))
	}
	want := []string{"en", "en", "de", "de", "nl"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("locale order = %v, want %v", order, want)
		}
	}
}

func TestInsertLocaleEntriesSkipsExisting(t *testing.T) {
	entries := []URL{
		{Loc: "https://example.com/nl/secrets-ai.html"},
		{Loc: "https://example.com/nl/candy-ai.html"},
	}
	out, err := InsertLocaleEntries(baseSitemap, entries, "en")
	if err != nil {
		t.Fatalf("InsertLocaleEntries failed: %v", err)
	}

	if n := strings.Count(out, "<loc>https://example.com/nl/secrets-ai.html</loc>"); n != 1 {
		t.Errorf("duplicate loc appears %d times", n)
	}

	// Re-running with the same entries changes nothing.
	again, err := InsertLocaleEntries(out, entries, "en")
	if err != nil {
		t.Fatalf("second insert failed: %v", err)
	}
	if again != out {
		t.Error("second insert altered the document")
	}
}

func TestSyncHreflang(t *testing.T) {
	urls := []URL{
		{Loc: "https://example.com/secrets-ai.html"},
		{Loc: "https://example.com/nl/secrets-ai.html"},
		{Loc: "https://example.com/de/secrets-ai.html"},
		{Loc: "https://example.com/candy-ai.html"},
	}

	synced := SyncHreflang(urls)

	// Every secrets-ai sibling carries en, nl, de and x-default.
	for _, u := range synced[:3] {
		langs := make(map[string]string)
		for _, l := range u.Links {
			langs[l.Hreflang] = l.Href
		}
		if len(langs) != 4 {
			t.Errorf("%s: hreflang set %v, want en/nl/de/x-default", u.Loc, langs)
		}
		if langs["de"] != "https://example.com/de/secrets-ai.html" {
			t.Errorf("%s: de link = %q", u.Loc, langs["de"])
		}
		if langs["x-default"] != "https://example.com/secrets-ai.html" {
			t.Errorf("%s: x-default = %q", u.Loc, langs["x-default"])
		}
	}

	// A slug with a single locale gets no links.
	if len(synced[3].Links) != 0 {
		t.Errorf("single-locale entry has links: %v", synced[3].Links)
	}
}

func TestSyncAfterInsertAddsSiblingLinks(t *testing.T) {
	entries := []URL{{Loc: "https://example.com/de/secrets-ai.html", ChangeFreq: "weekly"}}
	inserted, err := InsertLocaleEntries(baseSitemap, entries, "en")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	urls, err := Parse(inserted)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	rendered := Render(SyncHreflang(urls))

	// Every sibling of secrets-ai gains exactly one de link.
	for _, loc := range []string{
		"https://example.com/secrets-ai.html",
		"https://example.com/nl/secrets-ai.html",
	} {
		block := urlBlockFor(t, rendered, loc)
		if n := strings.Count(block, `hreflang="de"`); n != 1 {
			t.Errorf("%s: de hreflang count = %d, want 1", loc, n)
		}
	}

	// No loc value appears twice.
	reparsed, err := Parse(rendered)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, u := range reparsed {
		if seen[u.Loc] {
			t.Errorf("duplicate loc %q", u.Loc)
		}
		seen[u.Loc] = true
	}
}

func urlBlockFor(t *testing.T, doc, loc string) string {
	t.Helper()
	for _, m := range urlBlockRe.FindAllString(doc, -1) {
		if strings.Contains(m, "<loc>"+loc+"</loc>") {
			return m
		}
	}
	t.Fatalf("no url block for %s", loc)
	return ""
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("https://example.com")
	b.AddHome([]string{"en", "nl"})
	b.AddCompanion("secrets-ai", []string{"en", "nl", "de"}, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	b.AddArticle("best-ai-girlfriend-apps", []string{"en"}, time.Time{})

	doc := b.Build()
	urls, err := Parse(doc)
	if err != nil {
		t.Fatalf("built sitemap does not parse: %v", err)
	}
	if len(urls) != 6 {
		t.Errorf("built %d urls, want 6", len(urls))
	}
	if !strings.Contains(doc, "<lastmod>2026-01-10</lastmod>") {
		t.Error("lastmod missing")
	}
	if !strings.Contains(doc, `hreflang="x-default"`) {
		t.Error("x-default link missing")
	}
}
