// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Typed wraps a Cache with JSON serialization for one value type.
type Typed[T any] struct {
	cache      Cache
	defaultTTL time.Duration
}

// NewTyped creates a typed view over the given cache.
func NewTyped[T any](cache Cache, defaultTTL time.Duration) *Typed[T] {
	return &Typed[T]{cache: cache, defaultTTL: defaultTTL}
}

// Get retrieves and decodes a value. A decode failure counts as a miss;
// stale shapes from older builds age out instead of erroring.
func (c *Typed[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Set encodes and stores a value with the default TTL.
func (c *Typed[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key.
func (c *Typed[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}
