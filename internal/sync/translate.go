// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/companedia/companedia/internal/locale"
	"github.com/companedia/companedia/internal/model"
	"github.com/companedia/companedia/internal/ratelimit"
)

// Translator produces a translation of source text into the target language.
// Implemented by the OpenAI-backed client; faked in tests.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// languageNames spells out the prompt's target language.
var languageNames = map[string]string{
	model.LangEN: "English",
	model.LangNL: "Dutch",
	model.LangPT: "Portuguese",
	model.LangDE: "German",
	model.LangES: "Spanish",
}

// openAITranslator is the production Translator over the OpenAI chat API.
type openAITranslator struct {
	client openai.Client
	model  string
}

// NewOpenAITranslator creates a Translator backed by the OpenAI API.
func NewOpenAITranslator(apiKey, chatModel string) Translator {
	return &openAITranslator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
	}
}

func (o *openAITranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	name := languageNames[targetLang]
	if name == "" {
		return "", fmt.Errorf("unknown target language %q", targetLang)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You translate product review copy for a website. " +
				"Preserve JSON structure, HTML tags, placeholders, and line breaks exactly. " +
				"Translate only the natural-language text. Reply with the translation and nothing else."),
			openai.UserMessage("Translate the following into " + name + ":\n\n" + text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// TranslateOptions configures a translate run.
type TranslateOptions struct {
	// DryRun logs what would be translated without calling the API or
	// writing anything.
	DryRun bool

	// Langs restricts the run to these languages; empty means every
	// non-English content language.
	Langs []string

	// Limit caps the number of rows written; 0 means no cap.
	Limit int
}

// TranslateReport summarizes a translate run.
type TranslateReport struct {
	Rows       int // empty translation rows considered
	Translated int // rows filled (or, in dry-run, that would be filled)
	Skipped    int // rows skipped for missing source content
}

// Translate fills empty translation rows by machine-translating the
// companion's English content. Rows with any content at all are left for
// human translators. Calls are throttled by the store client's write delay
// plus the given translator's own pacing.
func (j *Jobs) Translate(ctx context.Context, tr Translator, throttle *ratelimit.FixedDelay, opts TranslateOptions) (TranslateReport, error) {
	var report TranslateReport

	wanted := make(map[string]bool)
	if len(opts.Langs) == 0 {
		for _, l := range model.ContentLanguages {
			if l != model.BaseLanguage {
				wanted[l] = true
			}
		}
	} else {
		for _, l := range opts.Langs {
			if !model.IsContentLanguage(l) {
				return report, fmt.Errorf("unknown language %q", l)
			}
			wanted[l] = true
		}
	}

	companions, err := j.activeCompanions(ctx)
	if err != nil {
		return report, err
	}
	bySlug := make(map[string]model.Companion, len(companions))
	for _, c := range companions {
		bySlug[c.Slug] = c
	}

	rows, err := j.allTranslations(ctx)
	if err != nil {
		return report, err
	}

	// English rows are the source for translation-only fields.
	enGroups := make(map[string][]model.Translation)
	for _, t := range rows {
		if t.Language == model.LangEN {
			enGroups[t.CompanionSlug] = append(enGroups[t.CompanionSlug], t)
		}
	}
	enRows := make(map[string]model.Translation, len(enGroups))
	for slug, group := range enGroups {
		if best, ok := locale.PickBest(group); ok {
			enRows[slug] = best
		}
	}

	empty := make([]model.Translation, 0)
	for _, t := range rows {
		if wanted[t.Language] && t.IsEmpty() {
			empty = append(empty, t)
		}
	}
	sort.Slice(empty, func(i, k int) bool {
		if empty[i].CompanionSlug != empty[k].CompanionSlug {
			return empty[i].CompanionSlug < empty[k].CompanionSlug
		}
		return empty[i].Language < empty[k].Language
	})
	report.Rows = len(empty)

	for _, t := range empty {
		if opts.Limit > 0 && report.Translated >= opts.Limit {
			break
		}

		source := sourceFields(bySlug[t.CompanionSlug], enRows[t.CompanionSlug])
		if len(source) == 0 {
			report.Skipped++
			j.logger.Warn("no source content", "slug", t.CompanionSlug, "lang", t.Language)
			continue
		}

		if opts.DryRun {
			report.Translated++
			j.logger.Info("would translate",
				"slug", t.CompanionSlug, "lang", t.Language, "fields", len(source))
			continue
		}

		updates := make(map[string]any, len(source))
		for _, f := range model.TrackedFields {
			text, ok := source[f]
			if !ok {
				continue
			}
			if err := throttle.Wait(ctx); err != nil {
				return report, err
			}
			translated, err := tr.Translate(ctx, text, t.Language)
			if err != nil {
				return report, fmt.Errorf("translating %s/%s field %s: %w", t.CompanionSlug, t.Language, f, err)
			}
			if translated != "" {
				updates[f] = translated
			}
		}
		if len(updates) == 0 {
			report.Skipped++
			continue
		}
		if _, err := j.store.Update(ctx, j.tables.Translations, t.ID, updates); err != nil {
			return report, fmt.Errorf("writing translation %s/%s: %w", t.CompanionSlug, t.Language, err)
		}
		report.Translated++
		j.logger.Info("translated",
			"slug", t.CompanionSlug, "lang", t.Language, "fields", len(updates))
	}

	j.logger.Info("translate complete",
		"rows", report.Rows, "translated", report.Translated, "skipped", report.Skipped,
		"dry_run", opts.DryRun)
	return report, nil
}

// sourceFields collects the English source text per tracked field, from the
// companion record first and the English translation row for the rest.
func sourceFields(c model.Companion, en model.Translation) map[string]string {
	out := make(map[string]string)
	if c.ShortDescription != "" {
		out["tagline"] = c.ShortDescription
	}
	if c.Description != "" {
		out["description"] = c.Description
	}
	if c.PricingPlansRaw != "" {
		out["pricing_plans"] = c.PricingPlansRaw
	}
	for _, f := range model.TrackedFields {
		if _, done := out[f]; done {
			continue
		}
		if v := en.Get(f); v != "" {
			out[f] = v
		}
	}
	return out
}
