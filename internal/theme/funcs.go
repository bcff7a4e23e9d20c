// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"html/template"
	"strconv"
	"time"

	"github.com/olegiv/blogfront/internal/strapi"
)

// DateLayout is the human-readable date format used on cards and articles.
const DateLayout = "January 02, 2006"

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"isoDate":    isoDate,
		"adHTML":     adHTML,
		"viewsLabel": viewsLabel,
		"add":        func(a, b int) int { return a + b },
		"mediaURL":   strapi.MediaResolver{}.ResolveMedia,
	}
}

// MediaFuncs returns template functions that resolve media through r.
func MediaFuncs(r strapi.MediaResolver) template.FuncMap {
	return template.FuncMap{
		"mediaURL": r.ResolveMedia,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// adHTML marks CMS-authored ad markup as trusted.
func adHTML(ad *strapi.Advertisement) template.HTML {
	if ad == nil {
		return ""
	}
	return template.HTML(ad.HTMLCode)
}

func viewsLabel(n int) string {
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return "1 View"
	}
	return strconv.Itoa(n) + " Views"
}
