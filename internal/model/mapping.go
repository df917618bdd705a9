// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// The public API and the backing store disagree on several field names. The
// mapping is a fixed table, never inferred from response shapes.
var storeToAPI = map[string]string{
	"tagline":       "short_description",
	"my_verdict":    "verdict",
	"body_text":     "body",
	"last_modified": "modified_at",
}

var apiToStore = invert(storeToAPI)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// APIFieldName translates a store field name to its public API name.
// Unmapped names pass through unchanged.
func APIFieldName(store string) string {
	if api, ok := storeToAPI[store]; ok {
		return api
	}
	return store
}

// StoreFieldName translates a public API field name back to the store's
// name. Unmapped names pass through unchanged.
func StoreFieldName(api string) string {
	if store, ok := apiToStore[api]; ok {
		return store
	}
	return api
}
