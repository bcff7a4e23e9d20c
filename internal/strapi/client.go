// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package strapi is a client for the Strapi headless CMS REST API.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response body is kept for logging.
const maxErrorBody = 4 << 10

// ErrUpstream wraps any failure to get a usable response from the CMS.
var ErrUpstream = errors.New("content API unavailable")

// ErrNotFound is returned by single-entity lookups that match nothing.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the CMS.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strapi %s %s: status %d", e.Method, e.Path, e.Status)
}

// Unwrap lets callers match APIError with errors.Is(err, ErrUpstream).
func (e *APIError) Unwrap() error {
	return ErrUpstream
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues queries against the CMS REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
	media   MediaResolver
}

// New creates a new Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		baseURL: base,
		token:   opts.Token,
		http:    hc,
		logger:  logger,
		media:   NewMediaResolver(base),
	}
}

// Media returns the resolver for this client's CMS host.
func (c *Client) Media() MediaResolver {
	return c.media
}

// get fetches /api{path}?{query} and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, q Query, out any) error {
	url := c.baseURL + "/api" + path
	if qs := q.Encode(); qs != "" {
		url += "?" + qs
	}
	return c.do(ctx, http.MethodGet, path, url, nil, out)
}

// put sends a JSON body to /api{path}.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, c.baseURL+"/api"+path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", requestID(ctx))

	start := time.Now()
	c.logger.Debug("strapi request", "method", method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUpstream, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
		c.logger.Error("strapi request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", apiErr.Body,
			"duration", time.Since(start),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %w", ErrUpstream, method, path, err)
	}
	return nil
}

// requestID propagates the inbound request id, or mints one.
func requestID(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
