// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"context"
	"testing"

	"github.com/companedia/companedia/internal/ratelimit"
	"github.com/companedia/companedia/internal/testutil"
)

// fakeTranslator prefixes the text with the target language instead of
// calling an API.
type fakeTranslator struct {
	calls int
}

func (ft *fakeTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	ft.calls++
	return "[" + targetLang + "] " + text, nil
}

func TestTranslateFillsEmptyRows(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanion(f, "secrets-ai")
	emptyID := f.Seed("Translations", map[string]any{
		"companion_slug": "secrets-ai",
		"language":       "nl",
	})
	f.Seed("Translations", map[string]any{
		"companion_slug": "secrets-ai",
		"language":       "de",
		"tagline":        "Vorhandene Übersetzung",
	})

	ft := &fakeTranslator{}
	report, err := newJobs(f).Translate(context.Background(), ft, ratelimit.NewFixedDelay(0), TranslateOptions{})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if report.Rows != 1 || report.Translated != 1 {
		t.Errorf("report = %+v, want 1 row, 1 translated", report)
	}
	if ft.calls == 0 {
		t.Fatal("translator was never called")
	}

	for _, r := range f.Records("Translations") {
		if r.ID == emptyID {
			if got := r.Str("tagline"); got != "[nl] Short English tagline." {
				t.Errorf("tagline = %q", got)
			}
			if got := r.Str("description"); got != "[nl] Long English description." {
				t.Errorf("description = %q", got)
			}
		}
		if r.Str("language") == "de" && r.Str("tagline") != "Vorhandene Übersetzung" {
			t.Error("populated row was overwritten")
		}
	}
}

func TestTranslateDryRunWritesNothing(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanion(f, "secrets-ai")
	f.Seed("Translations", map[string]any{
		"companion_slug": "secrets-ai",
		"language":       "pt",
	})

	ft := &fakeTranslator{}
	report, err := newJobs(f).Translate(context.Background(), ft, ratelimit.NewFixedDelay(0), TranslateOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if report.Translated != 1 {
		t.Errorf("dry run should still count, got %+v", report)
	}
	if ft.calls != 0 {
		t.Errorf("dry run called the translator %d times", ft.calls)
	}
	for _, r := range f.Records("Translations") {
		if r.Str("language") == "pt" && r.Str("tagline") != "" {
			t.Error("dry run wrote a translation")
		}
	}
}

func TestTranslateLangFilter(t *testing.T) {
	f := testutil.NewFakeStore()
	seedCompanion(f, "secrets-ai")
	f.Seed("Translations", map[string]any{"companion_slug": "secrets-ai", "language": "nl"})
	f.Seed("Translations", map[string]any{"companion_slug": "secrets-ai", "language": "de"})

	report, err := newJobs(f).Translate(context.Background(), &fakeTranslator{}, ratelimit.NewFixedDelay(0), TranslateOptions{Langs: []string{"de"}})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if report.Rows != 1 || report.Translated != 1 {
		t.Errorf("report = %+v, want only the de row", report)
	}
}

func TestTranslateRejectsUnknownLanguage(t *testing.T) {
	f := testutil.NewFakeStore()
	_, err := newJobs(f).Translate(context.Background(), &fakeTranslator{}, ratelimit.NewFixedDelay(0), TranslateOptions{Langs: []string{"xx"}})
	if err == nil {
		t.Fatal("expected an error for an unknown language")
	}
}

func TestTranslateSkipsRowsWithoutSource(t *testing.T) {
	f := testutil.NewFakeStore()
	// No companion record, so there is nothing to translate from.
	f.Seed("Translations", map[string]any{"companion_slug": "ghost-ai", "language": "nl"})

	report, err := newJobs(f).Translate(context.Background(), &fakeTranslator{}, ratelimit.NewFixedDelay(0), TranslateOptions{})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if report.Skipped != 1 || report.Translated != 0 {
		t.Errorf("report = %+v, want 1 skipped", report)
	}
}
