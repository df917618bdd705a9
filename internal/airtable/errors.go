// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package airtable

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying store failures. CLI callers treat both as
// fatal; the HTTP API degrades them to a typed error response.
var (
	// ErrStoreUnavailable indicates a network, auth, or server-side failure.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrBadQuery indicates the store rejected a filter formula or field name.
	ErrBadQuery = errors.New("record store rejected query")
)

// StoreError carries the store's native error code and message alongside the
// sentinel classification.
type StoreError struct {
	Kind       error  // ErrStoreUnavailable or ErrBadQuery
	StatusCode int
	Code       string // store-native error code, e.g. INVALID_FILTER_BY_FORMULA
	Message    string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("store error %d: %s", e.StatusCode, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Kind
}

// classifyStatus maps an HTTP status from the store to a sentinel error kind.
func classifyStatus(status int) error {
	switch {
	case status == 422 || status == 400:
		return ErrBadQuery
	default:
		return ErrStoreUnavailable
	}
}
