// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olegiv/blogfront/internal/strapi"
)

// Block is one node of a rich-text blocks document. The set of
// implementations is closed; unrecognized types decode to UnknownBlock.
type Block interface {
	blockType() string
}

// Inline is a text leaf, a link or a list item inside a block.
type Inline struct {
	Type          string   `json:"type"`
	Text          string   `json:"text,omitempty"`
	Bold          bool     `json:"bold,omitempty"`
	Italic        bool     `json:"italic,omitempty"`
	Underline     bool     `json:"underline,omitempty"`
	Strikethrough bool     `json:"strikethrough,omitempty"`
	Code          bool     `json:"code,omitempty"`
	URL           string   `json:"url,omitempty"`
	Format        string   `json:"format,omitempty"`
	Children      []Inline `json:"children,omitempty"`
}

// IsExternal reports whether a link points off-site.
func (n Inline) IsExternal() bool {
	return strings.HasPrefix(n.URL, "http")
}

// PlainText concatenates the text leaves below n.
func (n Inline) PlainText() string {
	if n.Type == "text" {
		return n.Text
	}
	return plainText(n.Children)
}

func plainText(nodes []Inline) string {
	var sb strings.Builder
	for _, c := range nodes {
		sb.WriteString(c.PlainText())
	}
	return sb.String()
}

// Heading is a heading block with level 1 to 6.
type Heading struct {
	Level    int
	ID       string
	Children []Inline
}

// Paragraph is a paragraph of inline content.
type Paragraph struct {
	Children []Inline
}

// List is an ordered or unordered list. Items are list-item nodes.
type List struct {
	Ordered bool
	Items   []Inline
}

// Quote is a block quote.
type Quote struct {
	Children []Inline
}

// Code is a preformatted code block.
type Code struct {
	Language string
	Children []Inline
}

// Image is an embedded image block.
type Image struct {
	Image strapi.Media
}

// UnknownBlock is a block whose type this renderer does not handle.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (Heading) blockType() string { return "heading" }
func (Paragraph) blockType() string { return "paragraph" }
func (List) blockType() string { return "list" }
func (Quote) blockType() string { return "quote" }
func (Code) blockType() string { return "code" }
func (Image) blockType() string { return "image" }
func (b UnknownBlock) blockType() string { return b.Type }

type rawBlock struct {
	Type     string          `json:"type"`
	Level    int             `json:"level"`
	ID       string          `json:"id"`
	Format   string          `json:"format"`
	Language string          `json:"language"`
	Image    json.RawMessage `json:"image"`
	Children []Inline        `json:"children"`
}

// ParseBlocks decodes a blocks document. Elements that fail to decode become
// UnknownBlock values; only a non-array input is an error.
func ParseBlocks(raw json.RawMessage) ([]Block, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, parseBlock(item))
	}
	return blocks, nil
}

func parseBlock(item json.RawMessage) Block {
	var rb rawBlock
	if err := json.Unmarshal(item, &rb); err != nil {
		return UnknownBlock{Raw: item}
	}
	switch rb.Type {
	case "heading":
		level := rb.Level
		if level < 1 || level > 6 {
			level = 6
		}
		return Heading{Level: level, ID: rb.ID, Children: rb.Children}
	case "paragraph":
		return Paragraph{Children: rb.Children}
	case "list":
		return List{Ordered: rb.Format == "ordered", Items: rb.Children}
	case "quote":
		return Quote{Children: rb.Children}
	case "code":
		return Code{Language: rb.Language, Children: rb.Children}
	case "image":
		var m strapi.Media
		if len(rb.Image) > 0 {
			if err := json.Unmarshal(rb.Image, &m); err != nil {
				return UnknownBlock{Type: rb.Type, Raw: item}
			}
		}
		return Image{Image: m}
	default:
		return UnknownBlock{Type: rb.Type, Raw: item}
	}
}
