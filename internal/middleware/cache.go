// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
)

// StaticCache adds a public Cache-Control header with the given max-age in
// seconds.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return CacheControl("public, max-age=" + strconv.Itoa(maxAge))
}

// NoStore marks responses as uncacheable.
func NoStore(next http.Handler) http.Handler {
	return CacheControl("no-store")(next)
}

// CacheControl sets a default Cache-Control header. Handlers may override it.
func CacheControl(directive string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", directive)
			next.ServeHTTP(w, r)
		})
	}
}
