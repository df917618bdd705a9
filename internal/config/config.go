// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment
// variables. The store token and base are required; a missing value is a
// fatal startup error with a descriptive message, never a silent default.
type Config struct {
	// Record store access.
	AirtableToken  string `env:"COMPANEDIA_AIRTABLE_TOKEN,required,notEmpty"`
	AirtableBaseID string `env:"COMPANEDIA_AIRTABLE_BASE,required,notEmpty"`

	// Table identifiers within the base.
	CompanionsTable   string `env:"COMPANEDIA_TABLE_COMPANIONS" envDefault:"Companions"`
	TranslationsTable string `env:"COMPANEDIA_TABLE_TRANSLATIONS" envDefault:"Translations"`
	ArticlesTable     string `env:"COMPANEDIA_TABLE_ARTICLES" envDefault:"Articles"`

	// HTTP server.
	ServerHost string `env:"COMPANEDIA_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"COMPANEDIA_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"COMPANEDIA_ENV" envDefault:"development"`
	LogLevel   string `env:"COMPANEDIA_LOG_LEVEL" envDefault:"info"`

	// Static site tree and canonical URL.
	SiteDir string `env:"COMPANEDIA_SITE_DIR" envDefault:"./site"`
	SiteURL string `env:"COMPANEDIA_SITE_URL" envDefault:"https://companedia.com"`

	// Cache configuration. Redis is optional; without it the API keeps an
	// in-process cache.
	RedisURL    string `env:"COMPANEDIA_REDIS_URL"`
	CachePrefix string `env:"COMPANEDIA_CACHE_PREFIX" envDefault:"companedia:"`
	CacheTTL    int    `env:"COMPANEDIA_CACHE_TTL" envDefault:"300"` // seconds

	// Fixed delay between record store write calls, in milliseconds.
	WriteDelayMS int `env:"COMPANEDIA_WRITE_DELAY_MS" envDefault:"250"`

	// LLM-assisted translation (compsync translate).
	OpenAIKey   string `env:"COMPANEDIA_OPENAI_KEY"`
	OpenAIModel string `env:"COMPANEDIA_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// IsDevelopment returns true when running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the host:port the API server binds to.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true when Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// WriteDelay returns the inter-write throttle as a duration.
func (c Config) WriteDelay() time.Duration {
	return time.Duration(c.WriteDelayMS) * time.Millisecond
}

// CacheTTLDuration returns the response cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// TranslateEnabled returns true when the LLM translation job may run.
func (c Config) TranslateEnabled() bool {
	return c.OpenAIKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
