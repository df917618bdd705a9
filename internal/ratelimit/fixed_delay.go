// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ratelimit provides the fixed-delay throttle used between record
// store write calls. The store enforces a request-rate ceiling; a fixed gap
// between writes keeps batch scripts under it without adaptive backpressure.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// FixedDelay enforces a minimum gap between successive calls to Wait.
// A zero delay disables throttling entirely.
type FixedDelay struct {
	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewFixedDelay creates a throttle with the given gap between calls.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Wait blocks until the gap since the previous call has elapsed, or the
// context is cancelled.
func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}

	f.mu.Lock()
	now := time.Now()
	wait := f.reserve(now)
	f.last = now.Add(wait)
	f.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reserve reports how long the next Wait would block, without reserving.
func (f *FixedDelay) Reserve() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reserve(time.Now())
}

// Reset clears the last-call timestamp so the next Wait returns immediately.
func (f *FixedDelay) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = time.Time{}
}

func (f *FixedDelay) reserve(now time.Time) time.Duration {
	if f.last.IsZero() {
		return 0
	}
	elapsed := now.Sub(f.last)
	if elapsed >= f.delay {
		return 0
	}
	return f.delay - elapsed
}
