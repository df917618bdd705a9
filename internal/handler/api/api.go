// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the HTTP Content API handlers backing the browser
// widgets: read endpoints for companions, deals, translations, and articles,
// plus create/update write endpoints. Each handler is stateless; every
// request stands alone, matching the serverless shape the widgets expect.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/companedia/companedia/internal/airtable"
	"github.com/companedia/companedia/internal/cache"
	"github.com/companedia/companedia/internal/service"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc    *service.Service
	cache  cache.Cache
	logger *slog.Logger

	companionLists *cache.Typed[CompanionsResponse]
	dealLists      *cache.Typed[DealsResponse]
}

// NewHandler creates a new API handler. cache may be nil to disable
// response caching.
func NewHandler(svc *service.Service, c cache.Cache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{svc: svc, cache: c, logger: logger}
	if c != nil {
		h.companionLists = cache.NewTyped[CompanionsResponse](c, listCacheTTL)
		h.dealLists = cache.NewTyped[DealsResponse](c, listCacheTTL)
	}
	return h
}

// errorBody is the error envelope every endpoint returns: a generic message
// plus an optional details field carrying the store's native error code.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with CORS headers. Every response is
// cross-origin readable because the widgets fetch from static pages on
// another origin.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteBadRequest writes a 400 naming the offending field.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: message})
}

// WriteStoreError degrades a store failure to a typed 500 response, with
// the store's native error code in details. Bad queries surface as 400
// because they mean the caller's filter parameters were unusable.
func (h *Handler) WriteStoreError(w http.ResponseWriter, err error) {
	var se *airtable.StoreError
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		message := "record store unavailable"
		if se.Kind == airtable.ErrBadQuery {
			status = http.StatusBadRequest
			message = "invalid query"
		}
		h.logger.Error("store error", "status", se.StatusCode, "code", se.Code, "error", err)
		WriteJSON(w, status, errorBody{Error: message, Details: se.Code})
		return
	}
	h.logger.Error("request failed", "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// Status returns API health for uptime checks.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": "v1"})
}
