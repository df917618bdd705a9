// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// SiteLocales lists the locales with a live static-site tree, in the order
// they appear in the language switcher. English is the unprefixed root.
var SiteLocales = []string{"en", "nl", "pt", "de"}

// Catalog holds UI-chrome strings for every site locale. These are distinct
// from content translations, which live in the remote store.
type Catalog struct {
	mu          sync.RWMutex
	strings     map[string]map[string]string // lang -> key -> text
	matcher     language.Matcher
	supported   []language.Tag
	defaultLang string
	logger      *slog.Logger
}

var catalog *Catalog

// Init loads the embedded chrome-string catalogs.
func Init(logger *slog.Logger) error {
	catalog = &Catalog{
		strings:     make(map[string]map[string]string),
		defaultLang: "en",
		logger:      logger,
	}

	tags := make([]language.Tag, 0, len(SiteLocales))
	for _, lang := range SiteLocales {
		tags = append(tags, language.MustParse(lang))
	}
	catalog.supported = tags
	catalog.matcher = language.NewMatcher(tags)

	for _, lang := range SiteLocales {
		if err := catalog.load(lang); err != nil {
			return fmt.Errorf("failed to load locale %s: %w", lang, err)
		}
	}

	if logger != nil {
		logger.Info("locale catalog initialized", "locales", SiteLocales)
	}
	return nil
}

func (c *Catalog) load(lang string) error {
	path := fmt.Sprintf("locales/%s.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	c.strings[lang] = m
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("loaded chrome strings", "locale", lang, "count", len(m))
	}
	return nil
}

// T returns the chrome string for key in lang, falling back to the default
// locale, then to the key itself.
func T(lang, key string) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	if m, ok := catalog.strings[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if lang != catalog.defaultLang {
		if m, ok := catalog.strings[catalog.defaultLang]; ok {
			if v, ok := m[key]; ok {
				if catalog.logger != nil {
					catalog.logger.Debug("missing chrome string, using default", "key", key, "locale", lang)
				}
				return v
			}
		}
	}
	return key
}

// Match finds the best supported site locale for an Accept-Language header
// or bare language code.
func Match(acceptLang string) string {
	if catalog == nil {
		return "en"
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return catalog.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, _ := catalog.matcher.Match(tags...)
	if idx >= 0 && idx < len(catalog.supported) {
		return catalog.supported[idx].String()
	}
	return catalog.defaultLang
}

// IsSiteLocale checks whether code has a live static-site tree.
func IsSiteLocale(code string) bool {
	code = strings.ToLower(code)
	for _, l := range SiteLocales {
		if l == code {
			return true
		}
	}
	return false
}

// StringCount returns the number of chrome strings loaded for a locale.
func StringCount(lang string) int {
	if catalog == nil {
		return 0
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.strings[lang])
}
