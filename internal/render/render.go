// Package render turns a streaming assistant message into HTML.
//
// Each growth event calls Render with the full current text and the state
// returned by the previous call. Messages without edit markers are committed
// incrementally at fence-safe paragraph boundaries; messages with markers are
// re-extracted in full on every update. Finalization always re-derives from
// scratch.
package render

import (
	"strings"

	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/markdown"
)

// Renderer binds options and a diff cache. It is safe for concurrent use by
// different messages; each message owns its own StreamState.
type Renderer struct {
	opts  Options
	diffs *DiffCache
}

// New returns a renderer with its own diff cache.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts, diffs: NewDiffCache(0)}
}

// Render performs one update with a throwaway renderer.
func Render(text string, st StreamState, results []edit.Result, final bool, opts Options) (Output, StreamState) {
	r := Renderer{opts: opts}
	return r.Render(text, st, results, final)
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render renders text given the state from the previous update. When final
// is true the returned state is empty and must not be reused.
func (r *Renderer) Render(text string, st StreamState, results []edit.Result, final bool) (Output, StreamState) {
	if final {
		return r.finalize(text, st, results), StreamState{}
	}
	return r.stream(text, st, results)
}

// Final renders a complete message from scratch.
func (r *Renderer) Final(text string, results []edit.Result) Output {
	return r.derive(text, results)
}

func (r *Renderer) stream(text string, st StreamState, results []edit.Result) (Output, StreamState) {
	if !strings.HasPrefix(text, st.Text) {
		r.opts.logger().Debug("stream restart",
			"previous_len", len(st.Text),
			"len", len(text))
		st = StreamState{}
	}
	st.Text = text

	if !edit.HasStartMarker(text) {
		return r.streamProse(text, st)
	}

	// Edit blocks can move prose boundaries, so the prose cache is dropped.
	st.CommittedPrefixHTML = ""
	st.CommittedUpTo = 0
	st.ScannedUpTo = 0
	st.FenceOpen = false

	out, equivalent := r.renderEdits(text, results, false)
	st.last = &out
	st.lastResults = append([]edit.Result(nil), results...)
	st.finalEquivalent = equivalent
	return out, st
}

func (r *Renderer) streamProse(text string, st StreamState) (Output, StreamState) {
	sr := markdown.Scan(text, st.ScannedUpTo, st.FenceOpen)
	st.ScannedUpTo = sr.ScannedUpTo
	st.FenceOpen = sr.FenceOpen

	if sr.Boundary > st.CommittedUpTo {
		st.CommittedPrefixHTML += markdown.ToHTML(text[st.CommittedUpTo:sr.Boundary])
		st.CommittedUpTo = sr.Boundary
	}

	var out Output
	if st.CommittedUpTo > 0 {
		out.Parts = append(out.Parts, Part{
			Kind:   PartProse,
			Source: text[:st.CommittedUpTo],
			HTML:   st.CommittedPrefixHTML,
		})
	}
	if tail := text[st.CommittedUpTo:]; !markdown.IsBlank(tail) {
		out.Parts = append(out.Parts, Part{
			Kind:   PartPending,
			Source: tail,
			HTML:   pendingHTML(tail),
		})
	}
	out.HTML = joinHTML(out.Parts)

	st.last = nil
	st.lastResults = nil
	st.finalEquivalent = false
	return out, st
}

func (r *Renderer) finalize(text string, st StreamState, results []edit.Result) Output {
	if st.last != nil && st.finalEquivalent && st.Text == text && !r.opts.postProcessing() &&
		sameResults(st.lastResults, results) {
		r.opts.logger().Debug("reusing streamed output", "len", len(text))
		return *st.last
	}
	return r.derive(text, results)
}

// derive renders a complete message with post-processing.
func (r *Renderer) derive(text string, results []edit.Result) Output {
	var out Output
	if edit.HasStartMarker(text) {
		out, _ = r.renderEdits(text, results, true)
	} else {
		r.appendProse(&out, text)
		out.HTML = joinHTML(out.Parts)
	}

	if r.opts.postProcessing() {
		d := r.decorations(out.Blocks)
		for i := range out.Parts {
			out.Parts[i].HTML = markdown.Decorate(out.Parts[i].HTML, d)
		}
		out.HTML = joinHTML(out.Parts)
	}
	return out
}

// renderEdits partitions text into prose and edit blocks. The boolean result
// reports whether the output equals what finalization would produce before
// post-processing.
func (r *Renderer) renderEdits(text string, results []edit.Result, final bool) (Output, bool) {
	lines := edit.SplitLines(text)

	// A marker may be arriving a few bytes at a time.
	withheld := false
	if !final && len(lines) > 0 && !strings.HasSuffix(text, "\n") && edit.IsMarkerPrefix(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
		withheld = true
	}

	ext := edit.Extract(lines)
	index := edit.IndexResults(results)

	var out Output
	cursor := 0
	for _, b := range ext.Blocks {
		proseEnd, next := b.StartLine, b.EndLine+1
		if opensFence(lines, cursor, b.StartLine) {
			proseEnd--
			if next < len(lines) && markdown.IsFence(lines[next]) {
				next++
			}
		}
		r.appendProse(&out, strings.Join(lines[cursor:proseEnd], "\n"))

		entries := r.diffs.blockDiff(b.SearchLines, b.ReplaceLines, r.opts.CharDiff)
		view := BlockView{
			FilePath:  b.FilePath,
			Status:    edit.StatusPending,
			Closed:    true,
			StartLine: b.StartLine,
			EndLine:   b.EndLine,
			Entries:   entries,
		}
		if res, ok := index.Next(b.FilePath); ok {
			view.Status = res.Status
			view.Reason = res.Reason
			view.EstimatedLine = res.EstimatedLine
		}
		r.appendBlock(&out, view)
		cursor = next
	}

	switch u := ext.Unclosed; {
	case u == nil:
		r.appendProse(&out, strings.Join(lines[cursor:], "\n"))
	case final:
		// Never closed: the markers were prose after all.
		r.appendProse(&out, strings.Join(lines[cursor:], "\n"))
	default:
		proseEnd := u.StartLine
		if opensFence(lines, cursor, u.StartLine) {
			proseEnd--
		}
		r.appendProse(&out, strings.Join(lines[cursor:proseEnd], "\n"))
		r.appendBlock(&out, BlockView{
			FilePath:  u.FilePath,
			Status:    edit.StatusPending,
			StartLine: u.StartLine,
			EndLine:   len(lines) - 1,
			Entries:   edit.PartialEntries(*u),
		})
	}

	out.HTML = joinHTML(out.Parts)
	return out, ext.Unclosed == nil && !withheld
}

// opensFence reports whether the line just before a block starting at start
// is a fence that opens a code block, counting fences from from. Such a fence
// and its matching close wrap the block and belong to it, not to the prose.
func opensFence(lines []string, from, start int) bool {
	if start-1 < from || !markdown.IsFence(lines[start-1]) {
		return false
	}
	n := 0
	for _, l := range lines[from:start] {
		if markdown.IsFence(l) {
			n++
		}
	}
	return n%2 == 1
}

func (r *Renderer) appendProse(out *Output, src string) {
	if markdown.IsBlank(src) {
		return
	}
	out.Parts = append(out.Parts, Part{
		Kind:   PartProse,
		Source: src,
		HTML:   markdown.ToHTML(src),
	})
}

func (r *Renderer) appendBlock(out *Output, view BlockView) {
	view.Added, view.Removed = diff.Stats(view.Entries)
	out.Blocks = append(out.Blocks, view)
	b := view
	out.Parts = append(out.Parts, Part{
		Kind:  PartBlock,
		HTML:  blockHTML(view, r.opts.Highlight),
		Block: &b,
	})
}

// decorations builds the final post-processing for a message, treating the
// message's own edit targets as known files.
func (r *Renderer) decorations(blocks []BlockView) markdown.Decorations {
	d := markdown.Decorations{CopyButtons: r.opts.CopyButtons}
	if !r.opts.FileRefs {
		return d
	}

	known := make(map[string]bool)
	for _, p := range r.opts.KnownPaths {
		if n := edit.NormalizePath(p); n != "" {
			known[n] = true
		}
	}
	for _, b := range blocks {
		if n := edit.NormalizePath(b.FilePath); n != "" {
			known[n] = true
		}
	}
	if len(known) == 0 {
		return d
	}

	d.Resolve = func(text string) (string, bool) {
		n := edit.NormalizePath(text)
		return n, known[n]
	}
	return d
}

// sameResults reports whether a and b would annotate blocks identically.
func sameResults(a, b []edit.Result) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.FilePath != y.FilePath || x.Status != y.Status || x.Reason != y.Reason {
			return false
		}
		if (x.EstimatedLine == nil) != (y.EstimatedLine == nil) {
			return false
		}
		if x.EstimatedLine != nil && *x.EstimatedLine != *y.EstimatedLine {
			return false
		}
	}
	return true
}

func pendingHTML(src string) string {
	return `<div class="stream-pending">` + markdown.Escape(src) + "</div>\n"
}

func joinHTML(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.HTML)
	}
	return sb.String()
}
