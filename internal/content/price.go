// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strconv"
	"strings"
)

// freeWords is the canonical localized rendering of a zero price. One table,
// applied uniformly; scripts never define their own variants.
var freeWords = map[string]string{
	"en": "Free",
	"nl": "Gratis",
	"pt": "Grátis",
	"de": "Kostenlos",
	"es": "Gratis",
}

// knownFreeWords recognizes any localized "free" on input, regardless of the
// target language, so re-normalizing under another locale stays stable.
var knownFreeWords = map[string]bool{
	"free": true, "gratis": true, "grátis": true, "kostenlos": true,
}

var currencyMarkers = []string{"$", "€", "£", "US$", "R$"}

// FreeWord returns the localized word for a zero price.
func FreeWord(lang string) string {
	if w, ok := freeWords[lang]; ok {
		return w
	}
	return freeWords["en"]
}

// NormalizePrice renders a price value for display:
//
//   - numeric values gain the currency marker ("$" by default);
//   - exactly zero renders as the localized "Free", never "$0";
//   - strings already carrying a marker or a free word pass through
//     (modulo localization of the free word);
//   - anything unrecognizable ("Contact us") is left alone.
//
// The function is idempotent: its output is a fixed point.
func NormalizePrice(v any, lang string) string {
	switch p := v.(type) {
	case float64:
		return normalizeNumeric(p, lang)
	case int:
		return normalizeNumeric(float64(p), lang)
	case string:
		s := strings.TrimSpace(p)
		if s == "" {
			return ""
		}
		for _, marker := range currencyMarkers {
			if strings.HasPrefix(s, marker) {
				return s
			}
		}
		if knownFreeWords[strings.ToLower(s)] {
			return FreeWord(lang)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return normalizeNumeric(f, lang)
		}
		return s
	default:
		return ""
	}
}

func normalizeNumeric(f float64, lang string) string {
	if f == 0 {
		return FreeWord(lang)
	}
	return "$" + strconv.FormatFloat(f, 'f', -1, 64)
}
