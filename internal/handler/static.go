// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"strings"
)

// StaticHandler serves the theme's embedded assets.
type StaticHandler struct {
	files   http.Handler
	favicon []byte
}

// NewStaticHandler creates a StaticHandler over fsys. The favicon is read
// from favicon.svg when present.
func NewStaticHandler(fsys fs.FS) *StaticHandler {
	favicon, _ := fs.ReadFile(fsys, "favicon.svg")
	return &StaticHandler{
		files:   http.StripPrefix("/static/", http.FileServer(http.FS(fsys))),
		favicon: favicon,
	}
}

// Files handles GET /static/*. Directory listings are not served.
func (h *StaticHandler) Files(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/") {
		http.NotFound(w, r)
		return
	}
	h.files.ServeHTTP(w, r)
}

// Favicon handles GET /favicon.ico with the SVG icon.
func (h *StaticHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	if len(h.favicon) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=604800")
	_, _ = w.Write(h.favicon)
}
