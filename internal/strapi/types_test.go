// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package strapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedia_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		url  string
		id   int
	}{
		{"flat", `{"id":3,"url":"/uploads/a.jpg"}`, "/uploads/a.jpg", 3},
		{"legacy relation", `{"data":{"id":4,"attributes":{"url":"/uploads/b.jpg"}}}`, "/uploads/b.jpg", 4},
		{"data object", `{"data":{"id":5,"url":"/uploads/c.jpg"}}`, "/uploads/c.jpg", 5},
		{"empty attributes", `{"data":{"id":6,"attributes":{}}}`, "", 6},
		{"null data", `{"data":null}`, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Media
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.url, m.URL)
			assert.Equal(t, tt.id, m.ID)
		})
	}
}

func TestMedia_IsZero(t *testing.T) {
	var m *Media
	assert.True(t, m.IsZero())
	assert.True(t, (&Media{}).IsZero())
	assert.False(t, (&Media{URL: "/x.png"}).IsZero())
}

func TestCategory_UnmarshalRelation(t *testing.T) {
	var c Category
	raw := `{"data":{"id":1,"attributes":{"name":"Go","slug":"go"}}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "Go", c.Name)
	assert.Equal(t, "go", c.Slug)
	assert.Equal(t, 1, c.ID)
}

func TestArticle_Unmarshal(t *testing.T) {
	raw := `{
		"id": 7,
		"documentId": "abc123",
		"title": "Hello",
		"slug": "hello",
		"content": [{"type":"paragraph","children":[{"type":"text","text":"hi"}]}],
		"publishedAt": "2025-03-01T10:00:00.000Z",
		"display_date": "2024-12-31",
		"cover": {"url": "/uploads/cover.png"},
		"category": {"name": "News", "slug": "news"},
		"views": 12
	}`
	var a Article
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, "abc123", a.DocumentID)
	assert.Equal(t, 12, a.Views)
	assert.True(t, a.HasCategory())
	assert.Equal(t, "/uploads/cover.png", a.Cover.URL)
	assert.JSONEq(t, `[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]`, string(a.Content))
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), a.EffectiveDate())
}

func TestArticle_EffectiveDateFallsBack(t *testing.T) {
	var a Article
	require.NoError(t, json.Unmarshal([]byte(`{"publishedAt":"2025-01-02T03:04:05Z","display_date":null}`), &a))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), a.EffectiveDate())
	assert.False(t, a.HasCategory())
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestAdvertisement_Placement(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"placementId":"3"}`, 3},
		{`{"placementId":3}`, 3},
		{`{"placementId":" 7 "}`, 7},
		{`{"placementId":"0"}`, 0},
		{`{"placementId":"-2"}`, 0},
		{`{"placementId":"top"}`, 0},
		{`{"placementId":null}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		var ad Advertisement
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &ad), tt.raw)
		assert.Equal(t, tt.want, ad.Placement(), tt.raw)
	}
}
