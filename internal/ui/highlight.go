package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Highlighter handles syntax highlighting for diff display
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// NewHighlighter creates a highlighter for the given file path and chroma
// style name. Returns nil if the language is not recognized.
func NewHighlighter(filePath, styleName string) *Highlighter {
	lexer := lexers.Match(filePath)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		lexer: lexer,
		style: style,
	}
}

// HighlightLine applies syntax highlighting to a line without a background color.
func (h *Highlighter) HighlightLine(line string) string {
	return h.highlight(line, nil)
}

// HighlightLineWithBg applies syntax highlighting to a line with a specific
// true-color background.
func (h *Highlighter) HighlightLineWithBg(line string, bg [3]int) string {
	return h.highlight(line, &bg)
}

func (h *Highlighter) highlight(line string, bg *[3]int) string {
	if h == nil {
		return paint(line, bg, false)
	}

	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return paint(line, bg, false)
	}

	var buf strings.Builder
	formatter := &tokenFormatter{style: h.style, bg: bg}
	if err := formatter.Format(&buf, iterator); err != nil {
		return paint(line, bg, false)
	}
	return buf.String()
}

// tokenFormatter is a Chroma formatter emitting true-color ANSI sequences
// with an optional fixed background.
type tokenFormatter struct {
	style *chroma.Style
	bg    *[3]int
}

func (f *tokenFormatter) Format(w io.Writer, iterator chroma.Iterator) error {
	wrote := false
	for token := iterator(); token != chroma.EOF; token = iterator() {
		// Lexers may produce trailing newline tokens
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}

		entry := f.style.Get(token.Type)

		var codes []string
		if f.bg != nil {
			codes = append(codes, bgCode(*f.bg))
		}
		if entry.Colour.IsSet() {
			codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
		}
		if entry.Bold == chroma.Yes {
			codes = append(codes, "1")
		}
		if entry.Italic == chroma.Yes {
			codes = append(codes, "3")
		}
		if entry.Underline == chroma.Yes {
			codes = append(codes, "4")
		}

		if len(codes) > 0 {
			fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), value)
		} else {
			fmt.Fprint(w, value)
		}
		wrote = true
	}
	if !wrote && f.bg != nil {
		fmt.Fprintf(w, "\x1b[%sm\x1b[0m", bgCode(*f.bg))
	}
	return nil
}

func bgCode(bg [3]int) string {
	return fmt.Sprintf("48;2;%d;%d;%d", bg[0], bg[1], bg[2])
}

// paint wraps s in a background and optional bold.
func paint(s string, bg *[3]int, bold bool) string {
	if bg == nil && !bold {
		return s
	}
	var codes []string
	if bg != nil {
		codes = append(codes, bgCode(*bg))
	}
	if bold {
		codes = append(codes, "1")
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + s + "\x1b[0m"
}

const tabWidth = 4

// ExpandTabs replaces tabs with spaces up to the next tab stop, so background
// colors cover the full indentation.
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return xansi.Strip(s)
}

// ANSILen returns the display width of a string, ignoring ANSI codes
func ANSILen(s string) int {
	return xansi.StringWidth(s)
}
