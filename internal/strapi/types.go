// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package strapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Response is the Strapi REST envelope.
type Response[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta holds response metadata.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes a page of a collection.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Timestamp accepts RFC3339 datetimes, plain dates and null.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// FlexString decodes a JSON string, number or null into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch r.Type {
	case gjson.Null:
		*f = ""
	case gjson.String, gjson.Number:
		*f = FlexString(r.String())
	default:
		return fmt.Errorf("unsupported value for string field: %s", r.Raw)
	}
	return nil
}

// Media is an uploaded file reference.
type Media struct {
	ID              int    `json:"id"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
	Caption         string `json:"caption"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
}

// UnmarshalJSON accepts the flattened shape {url}, the relation shape
// {data:{attributes:{url}}} and {data:{url}}.
func (m *Media) UnmarshalJSON(b []byte) error {
	obj := unwrapEntity(b)
	*m = Media{
		ID:              int(obj.Get("id").Int()),
		URL:             obj.Get("url").String(),
		AlternativeText: obj.Get("alternativeText").String(),
		Caption:         obj.Get("caption").String(),
		Width:           int(obj.Get("width").Int()),
		Height:          int(obj.Get("height").Int()),
	}
	return nil
}

// IsZero reports whether the media reference carries no URL.
func (m *Media) IsZero() bool {
	return m == nil || m.URL == ""
}

// Category groups articles.
type Category struct {
	ID          int    `json:"id"`
	DocumentID  string `json:"documentId"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both the flattened and the relation shapes.
func (c *Category) UnmarshalJSON(b []byte) error {
	obj := unwrapEntity(b)
	*c = Category{
		ID:          int(obj.Get("id").Int()),
		DocumentID:  obj.Get("documentId").String(),
		Name:        obj.Get("name").String(),
		Slug:        obj.Get("slug").String(),
		Description: obj.Get("description").String(),
	}
	return nil
}

// Article is a blog post.
type Article struct {
	ID          int             `json:"id"`
	DocumentID  string          `json:"documentId"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	PublishedAt Timestamp       `json:"publishedAt"`
	CreatedAt   Timestamp       `json:"createdAt"`
	UpdatedAt   Timestamp       `json:"updatedAt"`
	DisplayDate Timestamp       `json:"display_date"`
	Cover       *Media          `json:"cover,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	Views       int             `json:"views"`
}

// EffectiveDate returns the display date override when set, else the publish date.
func (a Article) EffectiveDate() time.Time {
	if !a.DisplayDate.IsZero() {
		return a.DisplayDate.Time
	}
	return a.PublishedAt.Time
}

// HasCategory reports whether the article references a resolvable category.
func (a Article) HasCategory() bool {
	return a.Category != nil && a.Category.Slug != ""
}

// Ad formats.
const (
	FormatCard   = "card"
	FormatBanner = "banner"
)

// Advertisement is a sponsored HTML snippet.
type Advertisement struct {
	ID          int        `json:"id"`
	DocumentID  string     `json:"documentId"`
	Name        string     `json:"name"`
	HTMLCode    string     `json:"htmlCode"`
	Format      string     `json:"format"`
	PlacementID FlexString `json:"placementId,omitempty"`
}

// Placement returns the 1-based fixed slot, or 0 when the ad is auto-placed.
func (a Advertisement) Placement() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(a.PlacementID)))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// unwrapEntity resolves {data:{attributes:{...}}} and {data:{...}} wrappers
// to the object carrying the entity fields.
func unwrapEntity(b []byte) gjson.Result {
	obj := gjson.ParseBytes(bytes.TrimSpace(b))
	if data := obj.Get("data"); data.IsObject() {
		obj = data
	}
	if attrs := obj.Get("attributes"); attrs.IsObject() {
		if id := obj.Get("id"); id.Exists() && !attrs.Get("id").Exists() {
			// keep the relation id alongside the attributes
			if merged, err := sjson.SetRaw(attrs.Raw, "id", id.Raw); err == nil {
				return gjson.Parse(merged)
			}
		}
		obj = attrs
	}
	return obj
}
