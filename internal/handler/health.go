// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/olegiv/blogfront/internal/cache"
	"github.com/olegiv/blogfront/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store     cache.Store
	version   *version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. store and info may be nil.
func NewHealthHandler(store cache.Store, info *version.Info) *HealthHandler {
	return &HealthHandler{
		store:     store,
		version:   info,
		startTime: time.Now(),
	}
}

// HealthStatus is the /healthz response.
type HealthStatus struct {
	Status  string      `json:"status"`
	Uptime  string      `json:"uptime"`
	Version string      `json:"version,omitempty"`
	Cache   *CacheCheck `json:"cache,omitempty"`
}

// CacheCheck summarizes cache effectiveness.
type CacheCheck struct {
	Backend string  `json:"backend"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
}

// Health handles GET /healthz. It never calls the CMS.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	status := HealthStatus{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.version != nil {
		status.Version = h.version.Version
	}
	if h.store != nil {
		s := h.store.Stats()
		status.Cache = &CacheCheck{
			Backend: s.Backend,
			Hits:    s.Hits,
			Misses:  s.Misses,
			Items:   s.Items,
			HitRate: s.HitRate(),
		}
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, status)
}
