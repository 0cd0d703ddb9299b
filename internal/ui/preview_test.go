package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/render"
)

func newTestPreviewer(width int) *Previewer {
	return NewPreviewer(&bytes.Buffer{}, PreviewOptions{Width: width, Style: "monokai", Highlight: true})
}

func TestPreviewBlock(t *testing.T) {
	line := 42
	b := render.BlockView{
		FilePath:      "main.go",
		Status:        edit.StatusFailed,
		Reason:        "search text not found",
		EstimatedLine: &line,
		Closed:        true,
		Entries: []diff.Entry{
			{Kind: diff.Context, Text: "func main() {"},
			{Kind: diff.Remove, Text: "\tx := 1", Segments: []diff.Segment{{Kind: diff.Same, Text: "\tx := "}, {Kind: diff.SegmentRemove, Text: "1"}}},
			{Kind: diff.Add, Text: "\tx := 2", Segments: []diff.Segment{{Kind: diff.Same, Text: "\tx := "}, {Kind: diff.SegmentAdd, Text: "2"}}},
		},
		Added:   1,
		Removed: 1,
	}

	got := StripANSI(newTestPreviewer(80).Block(b))
	want := strings.Join([]string{
		"✗ main.go failed +1 -1 line 42",
		"  search text not found",
		"  func main() {",
		"-     x := 1",
		"+     x := 2",
	}, "\n")
	if got != want {
		t.Errorf("Block() =\n%s\nwant\n%s", got, want)
	}
}

func TestPreviewStreamingBlockHeader(t *testing.T) {
	got := StripANSI(newTestPreviewer(80).Block(render.BlockView{Status: edit.StatusPending}))
	if got != "… (no file) pending +0 -0 (streaming)" {
		t.Errorf("header = %q", got)
	}
}

func TestPreviewDiff(t *testing.T) {
	entries := diff.Lines([]string{"a", "b"}, []string{"a", "c"})
	got := StripANSI(newTestPreviewer(80).Diff("x.txt", entries))
	want := "x.txt +1 -1\n  a\n- b\n+ c"
	if got != want {
		t.Errorf("Diff() =\n%s\nwant\n%s", got, want)
	}
}

func TestPreviewClipsLongLines(t *testing.T) {
	p := newTestPreviewer(20)
	b := render.BlockView{
		FilePath: "notes.unknown-ext",
		Status:   edit.StatusApplied,
		Closed:   true,
		Entries:  []diff.Entry{{Kind: diff.Add, Text: strings.Repeat("x", 100)}},
	}
	lines := strings.Split(p.Block(b), "\n")
	last := lines[len(lines)-1]
	if w := ANSILen(last); w > 20 {
		t.Errorf("line width = %d, want <= 20: %q", w, StripANSI(last))
	}
	if !strings.HasSuffix(StripANSI(last), "…") {
		t.Errorf("clipped line missing tail: %q", StripANSI(last))
	}
}

func TestPreviewRender(t *testing.T) {
	text := "Intro text.\n\na.go\n««« EDIT\nold\n═══════ REPL\nnew\n»»» EDIT END\n\nstill typing"
	out, _ := render.Render(text, render.StreamState{}, nil, false, render.Options{})

	got := StripANSI(newTestPreviewer(80).Render(out))
	for _, want := range []string{"Intro text.", "a.go pending", "- old", "+ new", "still typing"} {
		if !strings.Contains(got, want) {
			t.Errorf("preview missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Intro text.") > strings.Index(got, "- old") {
		t.Errorf("parts out of order:\n%s", got)
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"none", "none"},
		{"\tx", "    x"},
		{"ab\tc", "ab  c"},
		{"界\tx", "界  x"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in); got != tt.want {
			t.Errorf("ExpandTabs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHighlighterNil(t *testing.T) {
	if h := NewHighlighter("file.unknown-ext", "monokai"); h != nil {
		t.Fatal("expected nil highlighter for unknown extension")
	}
	var h *Highlighter
	if got := h.HighlightLine("plain"); got != "plain" {
		t.Errorf("HighlightLine = %q", got)
	}
	if got := StripANSI(h.HighlightLineWithBg("plain", [3]int{1, 2, 3})); got != "plain" {
		t.Errorf("HighlightLineWithBg = %q", got)
	}
}

func TestHighlightLineKeepsText(t *testing.T) {
	h := NewHighlighter("main.go", "monokai")
	if h == nil {
		t.Fatal("expected a Go highlighter")
	}
	line := `fmt.Println("hi")`
	got := h.HighlightLineWithBg(line, [3]int{30, 60, 30})
	if StripANSI(got) != line {
		t.Errorf("highlighting changed text: %q", StripANSI(got))
	}
	if !strings.Contains(got, "48;2;30;60;30") {
		t.Errorf("background missing: %q", got)
	}
}

func TestColorizeUnified(t *testing.T) {
	in := "--- a.go\n+++ a.go\n@@ -1,2 +1,2 @@\n a\n-b\n+c\n"
	got := ColorizeUnified(in, NewStyles(&bytes.Buffer{}, nil))
	if StripANSI(got) != in {
		t.Errorf("ColorizeUnified changed text:\n%q\nwant\n%q", StripANSI(got), in)
	}
	if ColorizeUnified("", NewStyles(&bytes.Buffer{}, nil)) != "" {
		t.Error("empty diff should stay empty")
	}
}

func TestTerminalWidthNonTerminal(t *testing.T) {
	if got := TerminalWidth(&bytes.Buffer{}); got != defaultWidth {
		t.Errorf("TerminalWidth(buffer) = %d, want %d", got, defaultWidth)
	}
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("buffer reported as terminal")
	}
}
