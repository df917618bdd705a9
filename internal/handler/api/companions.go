// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/companedia/companedia/internal/model"
	"github.com/companedia/companedia/internal/service"
)

const listCacheTTL = 5 * time.Minute

// CompanionsResponse is the read-endpoint envelope.
type CompanionsResponse struct {
	Companions []service.CompanionView `json:"companions"`
	Total      int                     `json:"total"`
}

// ListCompanions handles GET /companions?category=&sort=&limit=&lang=.
func (h *Handler) ListCompanions(w http.ResponseWriter, r *http.Request) {
	q := service.CompanionQuery{
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
		Lang:     normalizeLang(r.URL.Query().Get("lang")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}

	cacheKey := fmt.Sprintf("companions:%s:%s:%d:%s", q.Category, q.Sort, q.Limit, q.Lang)
	if h.companionLists != nil {
		if resp, ok := h.companionLists.Get(r.Context(), cacheKey); ok {
			WriteJSON(w, http.StatusOK, resp)
			return
		}
	}

	views, err := h.svc.Companions(r.Context(), q)
	if err != nil {
		h.WriteStoreError(w, err)
		return
	}

	resp := CompanionsResponse{Companions: views, Total: len(views)}
	if h.companionLists != nil {
		if err := h.companionLists.Set(r.Context(), cacheKey, &resp); err != nil {
			h.logger.Debug("cache set failed", "key", cacheKey, "error", err)
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// DealsResponse is the deals envelope.
type DealsResponse struct {
	Deals []service.DealView `json:"deals"`
}

// ListDeals handles GET /deals?lang=.
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	lang := normalizeLang(r.URL.Query().Get("lang"))

	cacheKey := "deals:" + lang
	if h.dealLists != nil {
		if resp, ok := h.dealLists.Get(r.Context(), cacheKey); ok {
			WriteJSON(w, http.StatusOK, resp)
			return
		}
	}

	deals, err := h.svc.Deals(r.Context(), lang)
	if err != nil {
		h.WriteStoreError(w, err)
		return
	}

	resp := DealsResponse{Deals: deals}
	if h.dealLists != nil {
		if err := h.dealLists.Set(r.Context(), cacheKey, &resp); err != nil {
			h.logger.Debug("cache set failed", "key", cacheKey, "error", err)
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// TranslationView serializes a translation row for the public API. The
// store's field names differ from the published ones (tagline vs
// short_description), so the tracked-field keys go through the fixed
// mapping table before they leave the server.
type TranslationView struct {
	ID            string            `json:"id"`
	CompanionSlug string            `json:"companion_slug"`
	Language      string            `json:"language"`
	Fields        map[string]string `json:"fields"`
}

func translationView(t model.Translation) TranslationView {
	fields := make(map[string]string, len(t.Fields))
	for k, v := range t.Fields {
		fields[model.APIFieldName(k)] = v
	}
	return TranslationView{
		ID:            t.ID,
		CompanionSlug: t.CompanionSlug,
		Language:      t.Language,
		Fields:        fields,
	}
}

// TranslationsResponse is the translations envelope.
type TranslationsResponse struct {
	Translations []TranslationView `json:"translations"`
}

// ListTranslations handles GET /translations?slug=&lang=.
func (h *Handler) ListTranslations(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		WriteBadRequest(w, "slug is required")
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang != "" && !model.IsContentLanguage(lang) {
		WriteBadRequest(w, "lang must be one of en, nl, pt, de, es")
		return
	}

	rows, err := h.svc.Translations(r.Context(), slug, lang)
	if err != nil {
		h.WriteStoreError(w, err)
		return
	}
	views := make([]TranslationView, 0, len(rows))
	for _, t := range rows {
		views = append(views, translationView(t))
	}
	WriteJSON(w, http.StatusOK, TranslationsResponse{Translations: views})
}

// ArticlesResponse is the articles envelope.
type ArticlesResponse struct {
	Articles []model.Article `json:"articles"`
	Total    int             `json:"total"`
}

// ListArticles handles GET /articles?featured=.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	featured := r.URL.Query().Get("featured") == "true"

	articles, err := h.svc.Articles(r.Context(), featured)
	if err != nil {
		h.WriteStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ArticlesResponse{Articles: articles, Total: len(articles)})
}

// createCompanionRequired names the minimal field set a create call must
// carry, in public API naming.
var createCompanionRequired = []string{"name", "slug", "description", "short_description", "website_url"}

// slugRe is the slug shape the static site generator expects.
var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateCompanion handles POST /companions.
func (h *Handler) CreateCompanion(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteBadRequest(w, "request body must be a JSON object")
		return
	}

	for _, field := range createCompanionRequired {
		s, _ := body[field].(string)
		if s == "" {
			WriteBadRequest(w, "missing required field: "+field)
			return
		}
	}
	if slug, _ := body["slug"].(string); !slugRe.MatchString(slug) {
		WriteBadRequest(w, "slug must be lowercase letters, digits, and hyphens")
		return
	}

	id, err := h.svc.CreateCompanion(r.Context(), body)
	if err != nil {
		h.WriteStoreError(w, err)
		return
	}

	h.invalidateLists(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

// updateCompanionRequest is the PATCH /companions body.
type updateCompanionRequest struct {
	RecordID string         `json:"recordId"`
	Fields   map[string]any `json:"fields"`
}

// UpdateCompanion handles PATCH /companions.
func (h *Handler) UpdateCompanion(w http.ResponseWriter, r *http.Request) {
	var body updateCompanionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteBadRequest(w, "request body must be a JSON object")
		return
	}
	if body.RecordID == "" {
		WriteBadRequest(w, "missing required field: recordId")
		return
	}
	if len(body.Fields) == 0 {
		WriteBadRequest(w, "missing required field: fields")
		return
	}

	if err := h.svc.UpdateCompanion(r.Context(), body.RecordID, body.Fields); err != nil {
		h.WriteStoreError(w, err)
		return
	}

	h.invalidateLists(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": body.RecordID})
}

// normalizeLang maps unknown language codes onto the base language so a bad
// lang parameter degrades instead of erroring.
func normalizeLang(lang string) string {
	if lang == "" || !model.IsContentLanguage(lang) {
		return model.BaseLanguage
	}
	return lang
}

// invalidateLists drops cached list responses after a write. Clearing the
// whole cache is acceptable at this scale; list keys dominate it anyway.
func (h *Handler) invalidateLists(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Clear(ctx); err != nil {
		h.logger.Warn("cache clear failed", "error", err)
	}
}
