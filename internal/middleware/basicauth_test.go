// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuth(t *testing.T) {
	gate := BasicAuth(DefaultBasicAuthConfig("admin", "pa:ss"))(okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid credentials", "/", basic("admin", "pa:ss"), http.StatusOK},
		{"password with colon split at first colon", "/article/x", basic("admin", "pa:ss"), http.StatusOK},
		{"missing header", "/", "", http.StatusUnauthorized},
		{"wrong password", "/", basic("admin", "pa"), http.StatusUnauthorized},
		{"wrong user", "/", basic("root", "pa:ss"), http.StatusUnauthorized},
		{"wrong scheme", "/", "Bearer abc", http.StatusUnauthorized},
		{"malformed base64", "/", "Basic !!!not-base64", http.StatusUnauthorized},
		{"no colon", "/", "Basic " + base64.StdEncoding.EncodeToString([]byte("admin")), http.StatusUnauthorized},
		{"lowercase scheme", "/", "basic " + base64.StdEncoding.EncodeToString([]byte("admin:pa:ss")), http.StatusOK},
		{"api exempt", "/api/views", "", http.StatusOK},
		{"static exempt", "/static/css/site.css", "", http.StatusOK},
		{"favicon exempt", "/favicon.ico", "", http.StatusOK},
		{"healthz exempt", "/healthz", "", http.StatusOK},
		{"api prefix needs slash", "/apixyz", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="Secure Area"` {
					t.Errorf("WWW-Authenticate = %q", got)
				}
				if body := rec.Body.String(); body != "Authentication required\n" {
					t.Errorf("body = %q", body)
				}
			}
		})
	}
}

func TestBasicAuth_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	gate := BasicAuth(DefaultBasicAuthConfig("admin", string(hash)))(okHandler())

	for pass, want := range map[string]int{"secret": http.StatusOK, "wrong": http.StatusUnauthorized, string(hash): http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", basic("admin", pass))
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("password %q: status = %d, want %d", pass, rec.Code, want)
		}
	}
}

func TestBasicAuth_DisabledWithoutUser(t *testing.T) {
	gate := BasicAuth(BasicAuthConfig{})(okHandler())
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
