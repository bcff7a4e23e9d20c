// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package strapi

import "strings"

// MediaResolver rewrites relative upload paths against the CMS host.
type MediaResolver struct {
	base string
}

// NewMediaResolver creates a resolver for the given CMS base URL.
func NewMediaResolver(base string) MediaResolver {
	return MediaResolver{base: strings.TrimRight(base, "/")}
}

// Resolve returns an absolute URL for a media path. Scheme-prefixed and
// protocol-relative URLs are returned unchanged; an empty path stays empty.
func (r MediaResolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "//") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.base + path
}

// ResolveMedia resolves the URL of a media reference, returning "" for nil.
func (r MediaResolver) ResolveMedia(m *Media) string {
	if m.IsZero() {
		return ""
	}
	return r.Resolve(m.URL)
}
