// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the short-TTL response cache in front of the
// record store: in-memory by default, Redis when configured.
package cache

import (
	"context"
	"time"
)

// Cache is implemented by every backend. All implementations are safe for
// concurrent use. Values are []byte so the same interface serves both the
// in-memory and the Redis backend.
type Cache interface {
	// Get returns the value, or ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero TTL means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
