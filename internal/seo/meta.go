// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, structured data, sitemaps and robots.txt.
package seo

import (
	"encoding/json"
	"html"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DescriptionLength is the maximum length of a generated meta description.
const DescriptionLength = 160

// Meta holds the SEO meta tag data for a page.
type Meta struct {
	Title         string
	Description   string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string // absolute URL
	OGType        string // website or article
	OGSiteName    string
	OGURL         string
	Robots        string
	TwitterCard   string
}

// PageData describes one page for meta generation. A nil *PageData means
// the home page.
type PageData struct {
	Title       string
	Description string
	// Body is used for the description when Description is empty.
	Body string
	// Path is the site-relative URL path, e.g. /article/hello.
	Path        string
	Image       string
	Article     bool
	NoIndex     bool
	PublishedAt time.Time
	ModifiedAt  time.Time
	Section     string
}

// SiteConfig contains site-wide settings.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	// NoIndex marks every page noindex, e.g. behind the basic-auth gate.
	NoIndex bool
}

// BuildMeta creates page meta tags with site-level fallbacks.
func BuildMeta(page *PageData, site SiteConfig) Meta {
	meta := Meta{
		OGType:      "website",
		OGSiteName:  site.SiteName,
		TwitterCard: "summary_large_image",
		Robots:      robotsDirective(site.NoIndex),
	}

	if page == nil {
		meta.Title = site.SiteName
		meta.Description = site.SiteDescription
		meta.Canonical = AbsoluteURL("/", site.SiteURL)
	} else {
		meta.Title = page.Title
		if site.SiteName != "" && page.Title != "" {
			meta.Title = page.Title + " - " + site.SiteName
		}
		meta.Description = page.Description
		if meta.Description == "" && page.Body != "" {
			meta.Description = Truncate(StripHTML(page.Body), DescriptionLength)
		}
		if meta.Description == "" {
			meta.Description = site.SiteDescription
		}
		meta.Canonical = AbsoluteURL(page.Path, site.SiteURL)
		meta.OGImage = AbsoluteURL(page.Image, site.SiteURL)
		if page.Article {
			meta.OGType = "article"
		}
		meta.Robots = robotsDirective(site.NoIndex || page.NoIndex)
	}

	meta.OGTitle = meta.Title
	meta.OGDescription = meta.Description
	meta.OGURL = meta.Canonical
	return meta
}

func robotsDirective(noIndex bool) string {
	if noIndex {
		return "noindex,nofollow"
	}
	return "index,follow"
}

// ArticleSchema is JSON-LD BlogPosting structured data.
type ArticleSchema struct {
	Context          string     `json:"@context"`
	Type             string     `json:"@type"`
	Headline         string     `json:"headline"`
	Description      string     `json:"description,omitempty"`
	Image            string     `json:"image,omitempty"`
	DatePublished    string     `json:"datePublished,omitempty"`
	DateModified     string     `json:"dateModified,omitempty"`
	ArticleSection   string     `json:"articleSection,omitempty"`
	Publisher        *OrgSchema `json:"publisher,omitempty"`
	MainEntityOfPage string     `json:"mainEntityOfPage,omitempty"`
}

// OrgSchema is JSON-LD Organization structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BreadcrumbSchema is JSON-LD BreadcrumbList structured data.
type BreadcrumbSchema struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	ItemList []BreadcrumbItem `json:"itemListElement"`
}

// BreadcrumbItem is one breadcrumb list element.
type BreadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// Crumb is a breadcrumb label with an optional site-relative link.
type Crumb struct {
	Label string
	Href  string
}

// BuildArticleSchema returns JSON-LD for an article page.
func BuildArticleSchema(page *PageData, site SiteConfig) template.JS {
	if page == nil {
		return ""
	}
	schema := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         page.Title,
		Description:      page.Description,
		Image:            AbsoluteURL(page.Image, site.SiteURL),
		ArticleSection:   page.Section,
		MainEntityOfPage: AbsoluteURL(page.Path, site.SiteURL),
		Publisher:        &OrgSchema{Type: "Organization", Name: site.SiteName},
	}
	if !page.PublishedAt.IsZero() {
		schema.DatePublished = page.PublishedAt.Format(time.RFC3339)
	}
	if !page.ModifiedAt.IsZero() {
		schema.DateModified = page.ModifiedAt.Format(time.RFC3339)
	}
	return marshalJSONLD(schema)
}

// BuildBreadcrumbSchema returns JSON-LD for a breadcrumb trail that starts
// at the home page.
func BuildBreadcrumbSchema(crumbs []Crumb, site SiteConfig) template.JS {
	list := BreadcrumbSchema{
		Context:  "https://schema.org",
		Type:     "BreadcrumbList",
		ItemList: []BreadcrumbItem{{Type: "ListItem", Position: 1, Name: "Home", Item: AbsoluteURL("/", site.SiteURL)}},
	}
	for i, c := range crumbs {
		list.ItemList = append(list.ItemList, BreadcrumbItem{
			Type:     "ListItem",
			Position: i + 2,
			Name:     c.Label,
			Item:     AbsoluteURL(c.Href, site.SiteURL),
		})
	}
	return marshalJSONLD(list)
}

func marshalJSONLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(data)
}

var textOnly = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// StripHTML removes markup, decodes entities and collapses whitespace.
func StripHTML(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(textOnly.Sanitize(s))), " ")
}

// Truncate shortens text to at most maxLen runes, cutting at a word
// boundary when one is reasonably close, and appends "...".
func Truncate(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	truncated := string([]rune(text)[:maxLen])
	if i := strings.LastIndex(truncated, " "); i > len(truncated)/2 {
		truncated = truncated[:i]
	}
	return strings.TrimSpace(truncated) + "..."
}

// AbsoluteURL prefixes site-relative paths with siteURL. Absolute URLs and
// the empty string are returned unchanged.
func AbsoluteURL(path, siteURL string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "//") {
		return "https:" + path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(siteURL, "/") + path
}
