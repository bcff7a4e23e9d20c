// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthConfig configures the whole-site basic-auth gate.
type BasicAuthConfig struct {
	User string
	// Password is compared in constant time. A value starting with "$2" is
	// treated as a bcrypt hash.
	Password string
	// Realm is sent in the WWW-Authenticate challenge.
	Realm string
	// ExemptPrefixes are path prefixes served without credentials.
	ExemptPrefixes []string
	// ExemptPaths are exact paths served without credentials.
	ExemptPaths []string
}

// DefaultBasicAuthConfig returns a gate for user and password that leaves the
// view API, static assets, the favicon and the health check open.
func DefaultBasicAuthConfig(user, password string) BasicAuthConfig {
	return BasicAuthConfig{
		User:           user,
		Password:       password,
		Realm:          "Secure Area",
		ExemptPrefixes: []string{"/api/", "/static/"},
		ExemptPaths:    []string{"/favicon.ico", "/healthz"},
	}
}

// BasicAuth returns a middleware that requires HTTP basic credentials on
// every non-exempt request. An empty User disables the gate.
func BasicAuth(cfg BasicAuthConfig) func(http.Handler) http.Handler {
	if cfg.User == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Realm == "" {
		cfg.Realm = "Secure Area"
	}
	challenge := `Basic realm="` + cfg.Realm + `"`
	hashed := strings.HasPrefix(cfg.Password, "$2")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.exempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := parseBasicAuth(r.Header.Get("Authorization"))
			if ok && cfg.matches(user, pass, hashed) {
				next.ServeHTTP(w, r)
				return
			}

			slog.Debug("basic auth rejected", "path", r.URL.Path, "credentials_present", ok)
			w.Header().Set("WWW-Authenticate", challenge)
			http.Error(w, "Authentication required", http.StatusUnauthorized)
		})
	}
}

func (cfg BasicAuthConfig) exempt(path string) bool {
	for _, p := range cfg.ExemptPaths {
		if path == p {
			return true
		}
	}
	for _, p := range cfg.ExemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (cfg BasicAuthConfig) matches(user, pass string, hashed bool) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.User)) == 1
	var passOK bool
	if hashed {
		passOK = bcrypt.CompareHashAndPassword([]byte(cfg.Password), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password)) == 1
	}
	return userOK && passOK
}

// parseBasicAuth decodes an Authorization header value. The password may
// contain colons; the pair is split at the first one.
func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	user, pass, ok = strings.Cut(string(decoded), ":")
	return user, pass, ok
}
