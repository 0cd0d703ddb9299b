package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/samsaffron/editrender/internal/markdown"
)

// highlighter emits chroma token classes for one line at a time. The class
// names match the stylesheet produced by Stylesheet.
type highlighter struct {
	lexer chroma.Lexer
}

// newHighlighter returns nil if the path has no recognised language.
func newHighlighter(path string) *highlighter {
	if path == "" {
		return nil
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		return nil
	}
	return &highlighter{lexer: chroma.Coalesce(lexer)}
}

func (h *highlighter) line(text string) string {
	if h == nil || text == "" {
		return markdown.Escape(text)
	}

	iterator, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return markdown.Escape(text)
	}

	var sb strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}
		class := tokenClass(token.Type)
		if class == "" {
			sb.WriteString(markdown.Escape(value))
			continue
		}
		sb.WriteString(`<span class="`)
		sb.WriteString(class)
		sb.WriteString(`">`)
		sb.WriteString(markdown.Escape(value))
		sb.WriteString("</span>")
	}
	return sb.String()
}

// tokenClass walks up the token hierarchy until it finds a styled class.
func tokenClass(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if class, ok := chroma.StandardTypes[candidate]; ok && class != "" {
			return class
		}
	}
	return ""
}

// Stylesheet returns the CSS for the named chroma style, scoped to the
// "chroma" class carried by every edit diff.
func Stylesheet(styleName string) (string, error) {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var sb strings.Builder
	if err := formatter.WriteCSS(&sb, style); err != nil {
		return "", fmt.Errorf("write css for style %s: %w", styleName, err)
	}
	sb.WriteString(baseCSS)
	return sb.String(), nil
}

const baseCSS = `
.edit-block { border: 1px solid #444; border-radius: 4px; margin: 1em 0; }
.edit-header { display: flex; gap: 0.75em; padding: 0.25em 0.5em; font-family: monospace; }
.edit-block[data-status="applied"] .edit-status { color: #3fb950; }
.edit-block[data-status="failed"] .edit-status { color: #f85149; }
.edit-block[data-status="pending"] .edit-status { color: #d29922; }
.edit-diff { margin: 0; padding: 0.5em; overflow-x: auto; }
.diff-line { display: block; }
.diff-add { background: rgba(63, 185, 80, 0.15); }
.diff-remove { background: rgba(248, 81, 73, 0.15); }
.seg-add { background: rgba(63, 185, 80, 0.4); }
.seg-remove { background: rgba(248, 81, 73, 0.4); }
.stream-pending { white-space: pre-wrap; opacity: 0.8; }
.file-ref { text-decoration: underline dotted; cursor: pointer; }
`
