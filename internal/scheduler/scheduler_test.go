// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/companedia/companedia/internal/cache"
	"github.com/companedia/companedia/internal/service"
	"github.com/companedia/companedia/internal/testutil"
)

func TestWarmPrimesListKeys(t *testing.T) {
	f := testutil.NewFakeStore()
	f.Seed("Companions", map[string]any{
		"slug":        "secrets-ai",
		"name":        "Secrets AI",
		"status":      "Active",
		"rating":      9.6,
		"tagline":     "Tagline.",
		"deal_active": true,
		"website_url": "https://secrets.ai",
	})
	svc := service.New(f, service.Tables{
		Companions:   "Companions",
		Translations: "Translations",
		Articles:     "Articles",
	}, testutil.TestLogger())

	c := cache.NewMemory(time.Minute)
	defer c.Close()

	s := New(svc, c, time.Minute, testutil.TestLogger())
	if err := s.Warm(context.Background()); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	for _, key := range []string{"companions::rating:0:en", "companions::rating:0:nl", "deals:en"} {
		data, err := c.Get(context.Background(), key)
		if err != nil {
			t.Errorf("key %s not warmed: %v", key, err)
			continue
		}
		var body map[string]any
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("key %s holds invalid JSON: %v", key, err)
		}
	}
}

func TestStartStop(t *testing.T) {
	f := testutil.NewFakeStore()
	svc := service.New(f, service.Tables{Companions: "Companions", Translations: "Translations"}, testutil.TestLogger())
	c := cache.NewMemory(time.Minute)
	defer c.Close()

	s := New(svc, c, time.Minute, testutil.TestLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Stop()
}
