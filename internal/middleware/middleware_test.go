// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware()(okHandler())

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/views", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222").Code)

	limited := send("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111").Code, "other clients have their own bucket")
	assert.Equal(t, 2, rl.cache.size())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", clientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production enables HSTS", false, true},
		{"development disables HSTS", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			hsts := rec.Header().Get("Strict-Transport-Security")
			assert.Equal(t, tt.wantHSTS, hsts != "", "HSTS = %q", hsts)
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
			csp := rec.Header().Get("Content-Security-Policy")
			assert.True(t, strings.HasPrefix(csp, "default-src 'self'; script-src"), csp)
			assert.Contains(t, csp, "object-src 'none'")
		})
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/static/"}
	h := SecurityHeaders(cfg)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestTimeout(t *testing.T) {
	fast := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("success"))
	}))
	rec := httptest.NewRecorder()
	fast.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())

	release := make(chan struct{})
	lateErr := make(chan error, 2)
	slow := Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, err := w.Write([]byte("late"))
		lateErr <- err
	}))

	rec = httptest.NewRecorder()
	slow.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/article/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Request timeout", rec.Body.String())

	apiRec := httptest.NewRecorder()
	slow.ServeHTTP(apiRec, httptest.NewRequest(http.MethodPost, "/api/views", nil))
	assert.Equal(t, http.StatusServiceUnavailable, apiRec.Code)
	assert.JSONEq(t, `{"error":"Request timeout"}`, apiRec.Body.String())

	close(release)
	for range 2 {
		assert.ErrorIs(t, <-lateErr, http.ErrHandlerTimeout)
	}
	assert.Equal(t, "Request timeout", rec.Body.String())
}

func TestCSRF(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(make([]byte, 32), false))(okHandler())

	sameOrigin := httptest.NewRequest(http.MethodPost, "/api/views", strings.NewReader(`{}`))
	sameOrigin.Header.Set("Sec-Fetch-Site", "same-origin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, sameOrigin)
	require.Equal(t, http.StatusOK, rec.Code)

	crossSite := httptest.NewRequest(http.MethodPost, "/api/views", strings.NewReader(`{}`))
	crossSite.Header.Set("Sec-Fetch-Site", "cross-site")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, crossSite)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	get.Header.Set("Sec-Fetch-Site", "cross-site")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, get)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(nil, true)
	assert.Equal(t, []string{"localhost:8080", "127.0.0.1:8080"}, dev.TrustedOrigins)
	assert.Empty(t, DefaultCSRFConfig(nil, false).TrustedOrigins)
}

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		target   string
		wantCode int
		wantLoc  string
	}{
		{"/", http.StatusOK, ""},
		{"/blog/go", http.StatusOK, ""},
		{"/blog/go/", http.StatusMovedPermanently, "/blog/go"},
		{"/search/?q=chi", http.StatusMovedPermanently, "/search?q=chi"},
		{"//evil.example.com/", http.StatusMovedPermanently, "/evil.example.com"},
		{"/article/x///", http.StatusMovedPermanently, "/article/x"},
	}

	h := StripTrailingSlash(okHandler())
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path, req.URL.RawQuery, _ = strings.Cut(tt.target, "?")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestCacheControl(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticCache(3600)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NoStore(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/views", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	override := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "private")
	})
	rec = httptest.NewRecorder()
	NoStore(override).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "private", rec.Header().Get("Cache-Control"))
}
