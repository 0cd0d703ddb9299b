// Package markdown renders prose segments to HTML and finds the points where
// a growing message can be split without breaking markdown structure.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// converter is shared; goldmark renderers are safe for concurrent use.
var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML converts markdown to HTML. Raw HTML in the source is omitted by
// goldmark's default renderer.
func ToHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := converter.Convert([]byte(src), &buf); err != nil {
		// Fallback: escaped plain text.
		return "<p>" + html.EscapeString(src) + "</p>\n"
	}
	return buf.String()
}

// Escape renders src as literal text.
func Escape(src string) string {
	return html.EscapeString(src)
}
