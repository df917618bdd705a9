// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Package airtable is a typed client for the remote record store's REST API.
// It owns query-formula compilation, pagination, write batching, and the
// conversion boundary from the store's loosely-typed responses into Record
// values.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/companedia/companedia/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	httpTimeout    = 30 * time.Second

	// MaxBatchSize is the store's cap on ids per batched delete call.
	MaxBatchSize = 10

	writeRetries = 3
)

// Options configures a Client. Token and BaseID are required.
type Options struct {
	// Token is the store API token.
	Token string

	// BaseID identifies the base holding the content tables.
	BaseID string

	// BaseURL overrides the store endpoint. Used in tests.
	BaseURL string

	// WriteDelay is the fixed delay inserted between write calls to respect
	// the store's request-rate ceiling. Zero disables throttling.
	WriteDelay time.Duration

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client issues read and write calls against the record store. It is safe for
// sequential use; the offline scripts are single-process and the API handlers
// get one client per process.
type Client struct {
	baseURL  string
	token    string
	baseID   string
	http     *http.Client
	throttle *ratelimit.FixedDelay
	logger   *slog.Logger
}

// New creates a Client from the given options.
func New(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("airtable: token is required")
	}
	if opts.BaseID == "" {
		return nil, fmt.Errorf("airtable: base ID is required")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		token:    opts.Token,
		baseID:   opts.BaseID,
		http:     httpClient,
		throttle: ratelimit.NewFixedDelay(opts.WriteDelay),
		logger:   logger,
	}, nil
}

// SortField names a field and direction for server-side sorting.
type SortField struct {
	Field string
	Desc  bool
}

// SelectOptions narrows a Select call.
type SelectOptions struct {
	Filter Formula
	Sort   []SortField
	Limit  int // 0 means no limit
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// Select lists records from a table, following pagination until the limit or
// the end of the table.
func (c *Client) Select(ctx context.Context, table string, opts SelectOptions) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		q := url.Values{}
		if !opts.Filter.IsZero() {
			q.Set("filterByFormula", opts.Filter.String())
		}
		for i, s := range opts.Sort {
			q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
			dir := "asc"
			if s.Desc {
				dir = "desc"
			}
			q.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
		}
		if opts.Limit > 0 {
			q.Set("maxRecords", strconv.Itoa(opts.Limit))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" || (opts.Limit > 0 && len(all) >= opts.Limit) {
			break
		}
		offset = page.Offset
	}
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

// Create inserts a single record and returns it with its assigned ID.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	err := c.write(ctx, func() error {
		return c.do(ctx, http.MethodPost, c.tableURL(table), body, &rec)
	})
	return rec, err
}

// Update patches fields on an existing record. Fields not named are left
// untouched; the store applies the patch atomically per record.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	err := c.write(ctx, func() error {
		return c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+id, body, &rec)
	})
	return rec, err
}

// Destroy deletes records by id, issuing sequential batches of at most
// MaxBatchSize. A failure partway leaves earlier batches deleted and the
// error names the failed batch. Callers re-run safely by re-listing first,
// so already-deleted ids never reach a second call.
func (c *Client) Destroy(ctx context.Context, table string, ids []string) error {
	for start := 0; start < len(ids); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		q := url.Values{}
		for _, id := range ids[start:end] {
			q.Add("records[]", id)
		}
		err := c.write(ctx, func() error {
			return c.do(ctx, http.MethodDelete, c.tableURL(table)+"?"+q.Encode(), nil, nil)
		})
		if err != nil {
			return fmt.Errorf("deleting batch at %d: %w", start, err)
		}
	}
	return nil
}

// write throttles and retries a single write call. Bad-query errors are not
// retried; only store-unavailable errors are, with a fixed delay.
func (c *Client) write(ctx context.Context, call func() error) error {
	var err error
	for attempt := 1; attempt <= writeRetries; attempt++ {
		if werr := c.throttle.Wait(ctx); werr != nil {
			return werr
		}
		err = call()
		if err == nil {
			return nil
		}
		var se *StoreError
		if !errors.As(err, &se) || se.Kind != ErrStoreUnavailable {
			return err
		}
		c.logger.Warn("store write failed, retrying",
			"attempt", attempt, "error", err)
	}
	return err
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + c.baseID + "/" + url.PathEscape(table)
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &StoreError{Kind: ErrStoreUnavailable, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StoreError{Kind: ErrStoreUnavailable, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StoreError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
		var er errorResponse
		if jsonErr := json.Unmarshal(data, &er); jsonErr == nil && er.Error.Message != "" {
			se.Code = er.Error.Type
			se.Message = er.Error.Message
		} else {
			se.Message = http.StatusText(resp.StatusCode)
		}
		return se
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
