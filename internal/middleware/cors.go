// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the content API:
// cross-origin access, request logging, and write-endpoint rate limiting.
package middleware

import "net/http"

// CORS allows cross-origin access from any origin. The API serves public
// catalog data to widgets embedded in static pages, so a wildcard policy
// is intentional. Preflight requests are answered here and never reach
// the handlers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
