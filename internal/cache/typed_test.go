// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listPayload struct {
	Slugs []string `json:"slugs"`
	Total int      `json:"total"`
}

func TestTypedRoundTrip(t *testing.T) {
	m := NewMemory(time.Minute)
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	tc := NewTyped[listPayload](m, time.Minute)

	_, ok := tc.Get(ctx, "lists:en")
	assert.False(t, ok, "empty cache should miss")

	want := listPayload{Slugs: []string{"secrets-ai", "candy-ai"}, Total: 2}
	require.NoError(t, tc.Set(ctx, "lists:en", &want))

	got, ok := tc.Get(ctx, "lists:en")
	require.True(t, ok)
	assert.Equal(t, want, *got)

	require.NoError(t, tc.Delete(ctx, "lists:en"))
	_, ok = tc.Get(ctx, "lists:en")
	assert.False(t, ok, "deleted key should miss")
}

func TestTypedDecodeFailureIsMiss(t *testing.T) {
	m := NewMemory(time.Minute)
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	// Store a payload of the wrong shape under the key.
	require.NoError(t, m.Set(ctx, "lists:en", []byte(`"just a string"`), time.Minute))

	tc := NewTyped[listPayload](m, time.Minute)
	_, ok := tc.Get(ctx, "lists:en")
	assert.False(t, ok, "undecodable entry should read as a miss")
}
