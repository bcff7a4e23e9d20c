// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/blogfront/internal/views"
)

// maxViewsBodySize bounds the POST /api/views request body.
const maxViewsBodySize = 4 << 10

// ViewCounter increments article view counts. *views.Counter implements it.
type ViewCounter interface {
	IncrementFor(ctx context.Context, slug, userAgent string) (int, error)
}

// ViewsHandler serves the view counter API.
type ViewsHandler struct {
	counter ViewCounter
	logger  *slog.Logger
}

// NewViewsHandler creates a new ViewsHandler.
func NewViewsHandler(counter ViewCounter, logger *slog.Logger) *ViewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewsHandler{counter: counter, logger: logger}
}

type viewsRequest struct {
	Slug string `json:"slug"`
}

type viewsResponse struct {
	Views int `json:"views"`
}

// Increment handles POST /api/views.
func (h *ViewsHandler) Increment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxViewsBodySize)

	var req viewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Slug) == "" {
		writeJSONError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	n, err := h.counter.IncrementFor(r.Context(), req.Slug, r.UserAgent())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, viewsResponse{Views: n})
	case errors.Is(err, views.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Article not found")
	case errors.Is(err, views.ErrWriteFailed):
		h.logger.ErrorContext(r.Context(), "failed to update views", "slug", req.Slug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update views")
	default:
		h.logger.ErrorContext(r.Context(), "failed to read views", "slug", req.Slug, "error", err)
		writeJSONError(w, http.StatusBadGateway, "Failed to read views")
	}
}
