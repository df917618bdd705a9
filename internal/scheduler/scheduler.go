// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler keeps the response cache warm: the default companion
// and deal lists per site locale are refetched on a fixed cron schedule so
// the popular queries never pay a cold store round trip.
package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/companedia/companedia/internal/cache"
	"github.com/companedia/companedia/internal/locale"
	"github.com/companedia/companedia/internal/service"
)

const warmTimeout = 30 * time.Second

// Scheduler runs the periodic cache warm-up.
type Scheduler struct {
	svc    *service.Service
	cache  cache.Cache
	ttl    time.Duration
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler over the given service and cache.
func New(svc *service.Service, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		svc:    svc,
		cache:  c,
		ttl:    ttl,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the warm-up loop, every five minutes plus once immediately.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		if err := s.Warm(context.Background()); err != nil {
			s.logger.Error("cache warm-up failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))

	go func() {
		if err := s.Warm(context.Background()); err != nil {
			s.logger.Error("initial cache warm-up failed", "error", err)
		}
	}()
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Warm refreshes the default list responses for every site locale. Keys
// mirror the API handlers' cache keys so warmed entries are served directly.
func (s *Scheduler) Warm(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	start := time.Now()
	for _, lang := range locale.SiteLocales {
		views, err := s.svc.Companions(ctx, service.CompanionQuery{Sort: "rating", Lang: lang})
		if err != nil {
			return err
		}
		s.put(ctx, "companions::rating:0:"+lang, map[string]any{
			"companions": views,
			"total":      len(views),
		})

		deals, err := s.svc.Deals(ctx, lang)
		if err != nil {
			return err
		}
		s.put(ctx, "deals:"+lang, map[string]any{"deals": deals})
	}

	s.logger.Info("cache warmed",
		"locales", len(locale.SiteLocales), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Scheduler) put(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}
}
