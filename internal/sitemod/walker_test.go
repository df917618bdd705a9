package sitemod

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":    navDoc,
		"nl/index.html": navDoc,
		"pt/index.html": `<html><body><p>nothing anchored</p></body></html>`,
		"notes.txt":     "not html",
	}
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestApplyRuleAcrossTree(t *testing.T) {
	root := writeSite(t)
	w := NewWalker(root, false, nil)

	report, err := w.ApplyRule(dealsRule())
	if err != nil {
		t.Fatalf("ApplyRule failed: %v", err)
	}
	if len(report.Changed) != 2 {
		t.Errorf("Changed = %v, want 2 files", report.Changed)
	}
	if len(report.NotMatched) != 1 {
		t.Errorf("NotMatched = %v, want 1 file", report.NotMatched)
	}

	data, err := os.ReadFile(filepath.Join(root, "nl", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "/deals.html") {
		t.Error("locale subtree file not rewritten")
	}

	// Second pass: everything already carries the marker.
	report, err = w.ApplyRule(dealsRule())
	if err != nil {
		t.Fatalf("second ApplyRule failed: %v", err)
	}
	if len(report.Changed) != 0 {
		t.Errorf("second pass changed %v, want none", report.Changed)
	}
}

func TestApplyRuleDryRun(t *testing.T) {
	root := writeSite(t)
	w := NewWalker(root, true, nil)

	report, err := w.ApplyRule(dealsRule())
	if err != nil {
		t.Fatalf("ApplyRule failed: %v", err)
	}
	if len(report.Changed) != 2 {
		t.Errorf("Changed = %v, want 2 files", report.Changed)
	}

	data, err := os.ReadFile(filepath.Join(root, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "/deals.html") {
		t.Error("dry run wrote to disk")
	}
}

func TestApplyRulesMergesReports(t *testing.T) {
	root := writeSite(t)
	w := NewWalker(root, false, nil)

	footer := FragmentRule{
		Name:     "footer",
		Anchor:   regexp.MustCompile(`</body>`),
		Marker:   `class="disclaimer"`,
		Template: `<p class="disclaimer">Affiliate links.</p>`,
		Mode:     InsertBefore,
	}
	report, err := w.ApplyRules([]FragmentRule{dealsRule(), footer})
	if err != nil {
		t.Fatalf("ApplyRules failed: %v", err)
	}
	// Deals rule changes 2 and misses 1; footer changes all 3.
	if len(report.Changed) != 5 {
		t.Errorf("Changed = %d, want 5", len(report.Changed))
	}
	if len(report.NotMatched) != 1 {
		t.Errorf("NotMatched = %d, want 1", len(report.NotMatched))
	}
}

func TestApplyRemoveRuleReportsTreeMiss(t *testing.T) {
	root := t.TempDir()
	banner := `<html><body><div class="promo-banner">Old promo</div><p>rest</p></body></html>`
	plain := `<html><body><p>rest</p></body></html>`
	for name, body := range map[string]string{"index.html": banner, "nl/index.html": plain} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	rule := FragmentRule{
		Name:   "retire-banner",
		Anchor: regexp.MustCompile(`(?s)<div class="promo-banner"[^>]*>.*?</div>`),
		Mode:   Remove,
	}
	w := NewWalker(root, false, nil)

	// One file still carries the banner: the other file's miss means
	// "already clean", not a bad anchor.
	report, err := w.ApplyRule(rule)
	if err != nil {
		t.Fatalf("ApplyRule failed: %v", err)
	}
	if len(report.Changed) != 1 || len(report.NotMatched) != 0 {
		t.Errorf("first pass = %s, want 1 changed and 0 not matched", report.Summary())
	}

	// A rule whose anchor matches nowhere in the tree did no work; that
	// surfaces as not-matched instead of disappearing into unchanged.
	report, err = w.ApplyRule(rule)
	if err != nil {
		t.Fatalf("second ApplyRule failed: %v", err)
	}
	if len(report.Changed) != 0 || len(report.NotMatched) != 2 {
		t.Errorf("tree-wide miss = %s, want 0 changed and 2 not matched", report.Summary())
	}
}

func TestRemoveSections(t *testing.T) {
	doc := `<html><body><div class="promo old">x</div><div class="keep">y</div></body></html>`
	out, n, err := RemoveSections(doc, "div", "promo")
	if err != nil {
		t.Fatalf("RemoveSections failed: %v", err)
	}
	if n != 1 {
		t.Errorf("removed %d, want 1", n)
	}
	if strings.Contains(out, "promo") || !strings.Contains(out, "keep") {
		t.Errorf("wrong sections removed:\n%s", out)
	}

	again, n, err := RemoveSections(out, "div", "promo")
	if err != nil || n != 0 || again != out {
		t.Error("RemoveSections is not idempotent")
	}
}

func TestSetAttribute(t *testing.T) {
	doc := `<html lang="en"><body></body></html>`
	out, n, err := SetAttribute(doc, "html", "lang", "nl")
	if err != nil || n != 1 {
		t.Fatalf("SetAttribute = (%d, %v)", n, err)
	}
	if !strings.Contains(out, `lang="nl"`) {
		t.Errorf("attribute not set:\n%s", out)
	}

	_, n, err = SetAttribute(out, "html", "lang", "nl")
	if err != nil || n != 0 {
		t.Error("SetAttribute rewrote an already-correct attribute")
	}
}
