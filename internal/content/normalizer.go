// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content parses and repairs the semi-structured text fields the
// record store holds as JSON-encoded strings: pricing tiers, feature lists,
// and FAQ entries. Known corruption patterns from bad translation runs are
// repaired deterministically; anything still unparseable degrades to an
// empty result with a ParseError, never a crash.
package content

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/companedia/companedia/internal/model"
)

// Normalizer repairs and parses content fields for one target language.
type Normalizer struct {
	lang   string
	logger *slog.Logger
}

// New creates a Normalizer for the given content language.
func New(lang string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{lang: lang, logger: logger}
}

// rawPlan tolerates the price being a number or a string in stored JSON.
type rawPlan struct {
	Name     string `json:"name"`
	Price    any    `json:"price"`
	Period   string `json:"period"`
	Features []any  `json:"features"`
	Badge    string `json:"badge"`
}

// PricingPlans parses a pricing-tier blob. Accepts a JSON-encoded string,
// a doubly-encoded string, or an already-decoded []model.PricingPlan
// (defensive double-handling). Prices come out normalized, so feeding the
// output back in yields the same result.
func (n *Normalizer) PricingPlans(raw any) ([]model.PricingPlan, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []model.PricingPlan:
		out := make([]model.PricingPlan, len(v))
		for i, p := range v {
			p.Price = NormalizePrice(p.Price, n.lang)
			out[i] = p
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var plans []rawPlan
		if err := n.parseRepaired(v, &plans); err != nil {
			n.logger.Warn("unparseable pricing plans", "error", err)
			return nil, &ParseError{Field: "pricing_plans", Err: err}
		}
		out := make([]model.PricingPlan, 0, len(plans))
		for _, p := range plans {
			out = append(out, model.PricingPlan{
				Name:     p.Name,
				Price:    NormalizePrice(p.Price, n.lang),
				Period:   p.Period,
				Features: flattenFeatures(p.Features),
				Badge:    p.Badge,
			})
		}
		return out, nil
	default:
		return nil, &ParseError{Field: "pricing_plans", Err: fmt.Errorf("unsupported type %T", raw)}
	}
}

// FeatureList parses a feature-list blob into ordered strings. Accepts
// ["a","b"], [{"name":"a"}], [{"text":"a"}], or an already-decoded []string.
func (n *Normalizer) FeatureList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var items []any
		if err := n.parseRepaired(v, &items); err != nil {
			n.logger.Warn("unparseable feature list", "error", err)
			return nil, &ParseError{Field: "features", Err: err}
		}
		return flattenFeatures(items), nil
	default:
		return nil, &ParseError{Field: "features", Err: fmt.Errorf("unsupported type %T", raw)}
	}
}

// FAQ parses a FAQ blob into question/answer pairs.
func (n *Normalizer) FAQ(raw any) ([]model.FAQEntry, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []model.FAQEntry:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var entries []model.FAQEntry
		if err := n.parseRepaired(v, &entries); err != nil {
			n.logger.Warn("unparseable faq", "error", err)
			return nil, &ParseError{Field: "faq", Err: err}
		}
		return entries, nil
	default:
		return nil, &ParseError{Field: "faq", Err: fmt.Errorf("unsupported type %T", raw)}
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// parseRepaired attempts a strict parse, then the known repairs in order:
// strip one layer of double-JSON-encoding, then collapse embedded
// newlines/indentation that break strict parsing.
func (n *Normalizer) parseRepaired(raw string, out any) error {
	s := strings.TrimSpace(raw)

	if err := json.Unmarshal([]byte(s), out); err == nil {
		return nil
	}

	// Double-encoded: the whole value is a JSON string wrapping JSON.
	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), out); err == nil {
			return nil
		}
		s = inner
	}

	// Embedded newlines and indentation inside string values break strict
	// parsing when they were inserted unescaped by a translation run.
	collapsed := whitespaceRun.ReplaceAllString(s, " ")
	if err := json.Unmarshal([]byte(collapsed), out); err != nil {
		return err
	}
	return nil
}

// flattenFeatures turns the mixed shapes a features array may hold into
// plain strings, preserving order. The result is never nil: a stored "[]"
// must marshal back to "[]", not "null", so rewrites converge.
func flattenFeatures(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch f := item.(type) {
		case string:
			out = append(out, f)
		case map[string]any:
			if s, ok := f["name"].(string); ok && s != "" {
				out = append(out, s)
			} else if s, ok := f["text"].(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
