package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/render"
)

// PreviewOptions configures terminal rendering.
type PreviewOptions struct {
	Width     int    // 0 detects the terminal width
	Style     string // chroma style for diff highlighting
	Highlight bool
	Theme     *Theme
}

// Previewer renders a rendered message for a terminal.
type Previewer struct {
	width     int
	style     string
	highlight bool
	styles    *Styles
}

// NewPreviewer creates a previewer writing styled text meant for w.
func NewPreviewer(w io.Writer, opts PreviewOptions) *Previewer {
	width := opts.Width
	if width <= 0 {
		width = TerminalWidth(w)
	}
	return &Previewer{
		width:     width,
		style:     opts.Style,
		highlight: opts.Highlight,
		styles:    NewStyles(w, opts.Theme),
	}
}

// Render lays out every part of out in order.
func (p *Previewer) Render(out render.Output) string {
	var sections []string
	for _, part := range out.Parts {
		var s string
		switch part.Kind {
		case render.PartProse:
			s = RenderMarkdown(part.Source, p.width, p.styles.Theme())
		case render.PartPending:
			s = p.styles.Muted.Render(strings.TrimRight(part.Source, "\n"))
		case render.PartBlock:
			if part.Block != nil {
				s = p.Block(*part.Block)
			}
		}
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n\n")
}

// Block renders one edit block: a header line, an optional reason and the
// diff lines.
func (p *Previewer) Block(b render.BlockView) string {
	var sb strings.Builder
	sb.WriteString(p.header(b))
	sb.WriteString("\n")
	if b.Reason != "" {
		sb.WriteString("  ")
		sb.WriteString(p.styles.Reason.Render(b.Reason))
		sb.WriteString("\n")
	}

	p.writeEntries(&sb, b.FilePath, b.Entries)
	return strings.TrimRight(sb.String(), "\n")
}

// Diff renders a bare line diff of path with a stats header.
func (p *Previewer) Diff(path string, entries []diff.Entry) string {
	added, removed := diff.Stats(entries)
	var sb strings.Builder
	sb.WriteString(p.styles.Path.Render(path))
	sb.WriteString(" ")
	sb.WriteString(p.styles.Added.Render(fmt.Sprintf("+%d", added)) + " " + p.styles.Removed.Render(fmt.Sprintf("-%d", removed)))
	sb.WriteString("\n")
	p.writeEntries(&sb, path, entries)
	return strings.TrimRight(sb.String(), "\n")
}

func (p *Previewer) writeEntries(sb *strings.Builder, path string, entries []diff.Entry) {
	var hl *Highlighter
	if p.highlight {
		hl = NewHighlighter(path, p.style)
	}
	for _, e := range entries {
		sb.WriteString(p.clip(p.entryLine(e, hl)))
		sb.WriteString("\n")
	}
}

func (p *Previewer) header(b render.BlockView) string {
	icon, status := PendingIcon, p.styles.Pending
	switch b.Status {
	case edit.StatusApplied:
		icon, status = AppliedIcon, p.styles.Applied
	case edit.StatusFailed:
		icon, status = FailedIcon, p.styles.Failed
	}

	path := b.FilePath
	if path == "" {
		path = "(no file)"
	}

	parts := []string{
		status.Render(icon),
		p.styles.Path.Render(path),
		status.Render(string(b.Status)),
		p.styles.Added.Render(fmt.Sprintf("+%d", b.Added)) + " " + p.styles.Removed.Render(fmt.Sprintf("-%d", b.Removed)),
	}
	if b.EstimatedLine != nil {
		parts = append(parts, p.styles.Muted.Render(fmt.Sprintf("line %d", *b.EstimatedLine)))
	}
	if !b.Closed {
		parts = append(parts, p.styles.Muted.Render("(streaming)"))
	}
	return strings.Join(parts, " ")
}

func (p *Previewer) entryLine(e diff.Entry, hl *Highlighter) string {
	theme := p.styles.Theme()

	var bg, strong *[3]int
	switch e.Kind {
	case diff.Add:
		bg, strong = &theme.DiffAddBg, &theme.DiffAddBgStrong
	case diff.Remove:
		bg, strong = &theme.DiffRemoveBg, &theme.DiffRemoveBgStrong
	}

	marker := paint(e.Kind.Marker()+" ", bg, false)

	if e.Segments != nil {
		var sb strings.Builder
		sb.WriteString(marker)
		for _, seg := range e.Segments {
			text := ExpandTabs(seg.Text)
			if seg.Kind == diff.Same {
				sb.WriteString(paint(text, bg, false))
			} else {
				sb.WriteString(paint(text, strong, true))
			}
		}
		return sb.String()
	}

	text := ExpandTabs(e.Text)
	if bg == nil {
		return marker + hl.HighlightLine(text)
	}
	return marker + hl.HighlightLineWithBg(text, *bg)
}

// clip truncates a rendered line to the preview width, keeping escape
// sequences intact.
func (p *Previewer) clip(line string) string {
	if p.width <= 0 || ANSILen(line) <= p.width {
		return line
	}
	return truncate.StringWithTail(line, uint(p.width), "…") + "\x1b[0m"
}
