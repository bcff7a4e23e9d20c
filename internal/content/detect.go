// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind identifies the representation of an article body.
type Kind int

// Content kinds.
const (
	KindUnknown Kind = iota
	KindEmpty
	KindHTML
	KindMarkdown
	KindBlocks
	KindZone
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	case KindBlocks:
		return "blocks"
	case KindZone:
		return "zone"
	default:
		return "unknown"
	}
}

// htmlBlockTag matches an opening block-level tag. A string containing one is
// treated as HTML, anything else as markdown.
var htmlBlockTag = regexp.MustCompile(`(?i)<(h[1-6]|p|div|ul|ol|li|blockquote|pre|table|section|article|figure|img|br|hr)[\s>/]`)

// DetectString picks exactly one heading pass for a string body.
func DetectString(s string) Kind {
	if strings.TrimSpace(s) == "" {
		return KindEmpty
	}
	if htmlBlockTag.MatchString(s) {
		return KindHTML
	}
	return KindMarkdown
}

// detect classifies an unwrapped JSON value.
func detect(v gjson.Result) Kind {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return KindEmpty
	case v.Type == gjson.String:
		return DetectString(v.Str)
	case v.IsArray():
		kind := KindBlocks
		v.ForEach(func(_, el gjson.Result) bool {
			if el.Get("__component").Exists() {
				kind = KindZone
				return false
			}
			return true
		})
		return kind
	default:
		return KindUnknown
	}
}

// IsRichText reports whether a namespaced component name (e.g.
// "shared.rich-text") denotes a rich-text component.
func IsRichText(component string) bool {
	name := strings.ToLower(component)
	return strings.HasSuffix(name, "rich-text") ||
		strings.HasSuffix(name, "rich_text") ||
		strings.HasSuffix(name, "richtext")
}

// componentType returns the lower-cased last segment of a component name.
func componentType(component string) string {
	name := strings.ToLower(component)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
