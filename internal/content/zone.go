// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/olegiv/blogfront/internal/strapi"
)

// Component is one dynamic-zone entry, selected by its "__component" name.
type Component interface {
	component() string
}

// RichText holds either a string body (HTML or markdown) or blocks.
type RichText struct {
	Name   string
	Text   string
	Kind   Kind
	Blocks []Block
}

// MediaComponent is a single captioned file.
type MediaComponent struct {
	Name    string
	File    strapi.Media
	Caption string
}

// QuoteComponent is a pull quote with optional attribution.
type QuoteComponent struct {
	Name  string
	Body  string
	Title string
}

// Slider is an image gallery.
type Slider struct {
	Name  string
	Files []strapi.Media
}

// UnknownComponent is a component this renderer does not handle.
type UnknownComponent struct {
	Name string
	Raw  json.RawMessage
}

func (c RichText) component() string { return c.Name }
func (c MediaComponent) component() string { return c.Name }
func (c QuoteComponent) component() string { return c.Name }
func (c Slider) component() string { return c.Name }
func (c UnknownComponent) component() string { return c.Name }

// ParseZone decodes a dynamic-zone array.
func ParseZone(raw json.RawMessage) ([]Component, error) {
	v := gjson.ParseBytes(raw)
	if !v.IsArray() {
		return nil, fmt.Errorf("decoding dynamic zone: expected array, got %s", v.Type)
	}
	var out []Component
	v.ForEach(func(_, el gjson.Result) bool {
		out = append(out, parseComponent(el))
		return true
	})
	return out, nil
}

func parseComponent(el gjson.Result) Component {
	name := el.Get("__component").String()
	if IsRichText(name) {
		return parseRichText(name, el)
	}
	switch componentType(name) {
	case "media":
		return MediaComponent{
			Name:    name,
			File:    decodeMedia(el.Get("file")),
			Caption: el.Get("caption").String(),
		}
	case "quote":
		return QuoteComponent{
			Name:  name,
			Body:  firstString(el, "body", "quote", "text"),
			Title: firstString(el, "title", "author"),
		}
	case "slider":
		files := el.Get("files.data")
		if !files.IsArray() {
			files = el.Get("files")
		}
		s := Slider{Name: name}
		files.ForEach(func(_, f gjson.Result) bool {
			if m := decodeMedia(f); !m.IsZero() {
				s.Files = append(s.Files, m)
			}
			return true
		})
		return s
	default:
		return UnknownComponent{Name: name, Raw: json.RawMessage(el.Raw)}
	}
}

// parseRichText reads the body field, falling back to content, the same way
// the normalizer picks it.
func parseRichText(name string, el gjson.Result) Component {
	target := el.Get("body")
	if !truthy(target) {
		target = el.Get("content")
	}
	rt := RichText{Name: name}
	switch {
	case target.IsArray():
		blocks, err := ParseBlocks(json.RawMessage(target.Raw))
		if err != nil {
			return UnknownComponent{Name: name, Raw: json.RawMessage(el.Raw)}
		}
		rt.Kind, rt.Blocks = KindBlocks, blocks
	case target.Type == gjson.String:
		rt.Text, rt.Kind = target.Str, DetectString(target.Str)
	default:
		rt.Kind = KindEmpty
	}
	return rt
}

func decodeMedia(v gjson.Result) strapi.Media {
	var m strapi.Media
	if v.IsObject() {
		_ = json.Unmarshal([]byte(v.Raw), &m)
	}
	return m
}

func firstString(el gjson.Result, keys ...string) string {
	for _, k := range keys {
		if s := el.Get(k).String(); s != "" {
			return s
		}
	}
	return ""
}
