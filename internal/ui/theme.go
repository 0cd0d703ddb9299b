package ui

import (
	"io"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the terminal preview
type Theme struct {
	Primary   lipgloss.Color // accents, file paths
	Secondary lipgloss.Color // headers, borders
	Success   lipgloss.Color // applied edits, added lines
	Error     lipgloss.Color // failed edits, removed lines
	Warning   lipgloss.Color // pending edits
	Muted     lipgloss.Color // context lines, pending text
	Text      lipgloss.Color // primary text

	// Diff line backgrounds as true-color RGB
	DiffAddBg          [3]int
	DiffRemoveBg       [3]int
	DiffAddBgStrong    [3]int // changed characters within an added line
	DiffRemoveBgStrong [3]int // changed characters within a removed line
}

// DefaultTheme returns the default color theme (gruvbox)
func DefaultTheme() *Theme {
	return &Theme{
		Primary:            lipgloss.Color("#b8bb26"), // gruvbox green
		Secondary:          lipgloss.Color("#83a598"), // gruvbox aqua
		Success:            lipgloss.Color("#b8bb26"),
		Error:              lipgloss.Color("#fb4934"), // gruvbox red
		Warning:            lipgloss.Color("#fabd2f"), // gruvbox yellow
		Muted:              lipgloss.Color("#928374"), // gruvbox gray
		Text:               lipgloss.Color("#ebdbb2"), // gruvbox foreground
		DiffAddBg:          [3]int{30, 60, 30},
		DiffRemoveBg:       [3]int{60, 30, 30},
		DiffAddBgStrong:    [3]int{40, 90, 40},
		DiffRemoveBgStrong: [3]int{90, 40, 40},
	}
}

// Status indicators
const (
	AppliedIcon = "✓"
	FailedIcon  = "✗"
	PendingIcon = "…"
)

// Styles holds lipgloss styles bound to one output.
type Styles struct {
	theme *Theme

	Path     lipgloss.Style
	Applied  lipgloss.Style
	Failed   lipgloss.Style
	Pending  lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Added    lipgloss.Style
	Removed  lipgloss.Style
	Hunk     lipgloss.Style
	Reason   lipgloss.Style
	Boundary lipgloss.Style
}

// NewStyles creates styles for output w. Color support is detected from w,
// so writing to a pipe or buffer yields plain text.
func NewStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		theme:    theme,
		Path:     r.NewStyle().Bold(true).Foreground(theme.Primary),
		Applied:  r.NewStyle().Foreground(theme.Success),
		Failed:   r.NewStyle().Foreground(theme.Error),
		Pending:  r.NewStyle().Foreground(theme.Warning),
		Muted:    r.NewStyle().Foreground(theme.Muted),
		Bold:     r.NewStyle().Bold(true),
		Added:    r.NewStyle().Foreground(theme.Success),
		Removed:  r.NewStyle().Foreground(theme.Error),
		Hunk:     r.NewStyle().Foreground(theme.Secondary).Bold(true),
		Reason:   r.NewStyle().Foreground(theme.Muted).Italic(true),
		Boundary: r.NewStyle().Foreground(theme.Secondary),
	}
}

// Theme returns the theme used by these styles
func (s *Styles) Theme() *Theme {
	return s.theme
}

// GlamourStyle creates a glamour StyleConfig from the given theme
func GlamourStyle(theme *Theme) ansi.StyleConfig {
	primary := string(theme.Primary)
	secondary := string(theme.Secondary)
	warning := string(theme.Warning)
	muted := string(theme.Muted)
	text := string(theme.Text)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &text},
			Margin:         uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &warning, Italic: boolPtr(true)},
			Indent:         uintPtr(2),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
			StyleBlock:  ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: &text}},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", Color: &secondary, Bold: boolPtr(true)},
		},
		H1:            ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "# "}},
		H2:            ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "## "}},
		H3:            ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "### "}},
		Strikethrough: ansi.StylePrimitive{CrossedOut: boolPtr(true)},
		Emph:          ansi.StylePrimitive{Color: &warning, Italic: boolPtr(true)},
		Strong:        ansi.StylePrimitive{Bold: boolPtr(true), Color: &primary},
		HorizontalRule: ansi.StylePrimitive{
			Color:  &muted,
			Format: "\n--------\n",
		},
		Item:        ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{BlockPrefix: ". ", Color: &secondary},
		Link:        ansi.StylePrimitive{Color: &secondary, Underline: boolPtr(true)},
		LinkText:    ansi.StylePrimitive{Color: &primary},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &primary},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: &text},
				Margin:         uintPtr(2),
			},
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func uintPtr(u uint) *uint {
	return &u
}
