package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache provides width-keyed caching of glamour renderers.
// Creating a renderer is expensive; caching by width avoids recreation.
var rendererCache sync.Map // map[rendererKey]*glamour.TermRenderer

type rendererKey struct {
	width int
	theme *Theme
}

// getRenderer returns a cached renderer for the given width, creating one if needed.
func getRenderer(width int, theme *Theme) (*glamour.TermRenderer, error) {
	key := rendererKey{width: width, theme: theme}
	if cached, ok := rendererCache.Load(key); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(GlamourStyle(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	// Race-safe: if another goroutine stored first, we just discard ours
	rendererCache.Store(key, renderer)
	return renderer, nil
}

// RenderMarkdown renders markdown for the terminal. On error, returns the
// original content unchanged.
func RenderMarkdown(content string, width int, theme *Theme) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	renderer, err := getRenderer(width, theme)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
