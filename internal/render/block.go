package render

import (
	"strconv"
	"strings"

	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/markdown"
)

const unknownPath = "(no file)"

// blockHTML renders one edit block.
func blockHTML(b BlockView, highlight bool) string {
	var sb strings.Builder

	sb.WriteString(`<div class="edit-block" data-status="`)
	sb.WriteString(markdown.Escape(string(b.Status)))
	sb.WriteString(`" data-path="`)
	sb.WriteString(markdown.Escape(b.FilePath))
	sb.WriteString(`">`)

	writeHeader(&sb, b)

	var hl *highlighter
	if highlight {
		hl = newHighlighter(b.FilePath)
	}

	sb.WriteString(`<pre class="edit-diff chroma">`)
	for _, e := range b.Entries {
		writeEntry(&sb, e, hl)
	}
	sb.WriteString("</pre></div>\n")
	return sb.String()
}

func writeHeader(sb *strings.Builder, b BlockView) {
	path := b.FilePath
	if path == "" {
		path = unknownPath
	}

	sb.WriteString(`<div class="edit-header"><span class="edit-path">`)
	sb.WriteString(markdown.Escape(path))
	sb.WriteString(`</span><span class="edit-status">`)
	sb.WriteString(markdown.Escape(string(b.Status)))
	sb.WriteString(`</span>`)
	if b.Reason != "" {
		sb.WriteString(`<span class="edit-reason">`)
		sb.WriteString(markdown.Escape(b.Reason))
		sb.WriteString(`</span>`)
	}
	if b.EstimatedLine != nil {
		sb.WriteString(`<span class="edit-line">line `)
		sb.WriteString(strconv.Itoa(*b.EstimatedLine))
		sb.WriteString(`</span>`)
	}
	sb.WriteString(`<span class="edit-stats"><span class="stat-add">+`)
	sb.WriteString(strconv.Itoa(b.Added))
	sb.WriteString(`</span> <span class="stat-remove">-`)
	sb.WriteString(strconv.Itoa(b.Removed))
	sb.WriteString(`</span></span></div>`)
}

func writeEntry(sb *strings.Builder, e diff.Entry, hl *highlighter) {
	sb.WriteString(`<span class="diff-line diff-`)
	sb.WriteString(e.Kind.String())
	sb.WriteString(`"><span class="diff-marker">`)
	sb.WriteString(e.Kind.Marker())
	sb.WriteString(`</span>`)

	if e.Segments != nil {
		for _, seg := range e.Segments {
			switch seg.Kind {
			case diff.SegmentAdd:
				sb.WriteString(`<span class="seg-add">`)
				sb.WriteString(markdown.Escape(seg.Text))
				sb.WriteString(`</span>`)
			case diff.SegmentRemove:
				sb.WriteString(`<span class="seg-remove">`)
				sb.WriteString(markdown.Escape(seg.Text))
				sb.WriteString(`</span>`)
			default:
				sb.WriteString(markdown.Escape(seg.Text))
			}
		}
	} else {
		sb.WriteString(hl.line(e.Text))
	}

	sb.WriteString("</span>\n")
}
