// Package edit extracts edit blocks from assistant text.
//
// An edit block is five consecutive logical lines:
//
//	path/to/file.go
//	««« EDIT
//	<search lines>
//	═══════ REPL
//	<replacement lines>
//	»»» EDIT END
//
// Marker lines must match exactly after trimming surrounding whitespace.
package edit

import "strings"

// Wire markers.
const (
	StartMarker     = "««« EDIT"
	SeparatorMarker = "═══════ REPL"
	EndMarker       = "»»» EDIT END"
)

// State is the extractor state.
type State int

const (
	StateIdle        State = iota // Looking for a path line
	StateExpectStart              // Have a candidate path, waiting for the start marker
	StateEditSection              // Accumulating search lines
	StateReplSection              // Accumulating replacement lines
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExpectStart:
		return "expect-start"
	case StateEditSection:
		return "edit-section"
	case StateReplSection:
		return "repl-section"
	default:
		return "unknown"
	}
}

// Action is the side effect a transition asks the extractor to perform.
type Action int

const (
	ActionNone        Action = iota
	ActionCapturePath        // line becomes the candidate path
	ActionClearPath          // drop the candidate path
	ActionOpenBlock          // start marker seen
	ActionSearchLine         // append line to search side
	ActionSeparator          // separator seen
	ActionReplaceLine        // append line to replace side
	ActionCloseBlock         // end marker seen, block complete
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCapturePath:
		return "capture-path"
	case ActionClearPath:
		return "clear-path"
	case ActionOpenBlock:
		return "open-block"
	case ActionSearchLine:
		return "search-line"
	case ActionSeparator:
		return "separator"
	case ActionReplaceLine:
		return "replace-line"
	case ActionCloseBlock:
		return "close-block"
	default:
		return "unknown"
	}
}

// Block is a complete, well-formed edit block. StartLine is the index of the
// path line and EndLine the index of the end marker line.
type Block struct {
	FilePath     string
	SearchLines  []string
	ReplaceLines []string
	StartLine    int
	EndLine      int
}

// Unclosed is a trailing block whose end marker has not arrived.
type Unclosed struct {
	FilePath      string
	StartLine     int
	SearchLines   []string
	ReplaceLines  []string
	SeparatorSeen bool
}

// Extraction is the result of one pass over a line sequence.
type Extraction struct {
	Blocks   []Block
	Unclosed *Unclosed
}

// Step is the transition function. It never looks at anything but the state
// and the current line.
func Step(s State, line string) (State, Action) {
	trimmed := strings.TrimSpace(line)

	switch s {
	case StateIdle:
		switch {
		case trimmed == StartMarker:
			return StateEditSection, ActionOpenBlock
		case !isPathCandidate(trimmed):
			return StateIdle, ActionNone
		default:
			return StateExpectStart, ActionCapturePath
		}

	case StateExpectStart:
		switch {
		case trimmed == StartMarker:
			return StateEditSection, ActionOpenBlock
		case !isPathCandidate(trimmed):
			return StateIdle, ActionClearPath
		default:
			return StateExpectStart, ActionCapturePath
		}

	case StateEditSection:
		if trimmed == SeparatorMarker {
			return StateReplSection, ActionSeparator
		}
		return StateEditSection, ActionSearchLine

	case StateReplSection:
		if trimmed == EndMarker {
			return StateIdle, ActionCloseBlock
		}
		return StateReplSection, ActionReplaceLine
	}

	return StateIdle, ActionNone
}

// isPathCandidate reports whether a trimmed line may name a file: non-blank,
// not a fence delimiter, not a heading.
func isPathCandidate(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "```") {
		return false
	}
	if strings.HasPrefix(trimmed, "#") {
		return false
	}
	return true
}

// Extractor applies Step over a line sequence and records blocks.
type Extractor struct {
	state         State
	candidate     string
	candidateLine int
	current       *Unclosed
	blocks        []Block
}

// NewExtractor returns an extractor in the idle state.
func NewExtractor() *Extractor {
	return &Extractor{state: StateIdle, candidateLine: -1}
}

// State returns the current state.
func (x *Extractor) State() State {
	return x.state
}

// Feed processes the line at index idx.
func (x *Extractor) Feed(idx int, line string) {
	next, action := Step(x.state, line)
	x.state = next

	switch action {
	case ActionCapturePath:
		x.candidate = strings.TrimSpace(line)
		x.candidateLine = idx
	case ActionClearPath:
		x.candidate = ""
		x.candidateLine = -1
	case ActionOpenBlock:
		start := x.candidateLine
		if start < 0 {
			start = idx
		}
		x.current = &Unclosed{FilePath: x.candidate, StartLine: start}
		x.candidate = ""
		x.candidateLine = -1
	case ActionSearchLine:
		x.current.SearchLines = append(x.current.SearchLines, line)
	case ActionSeparator:
		x.current.SeparatorSeen = true
	case ActionReplaceLine:
		x.current.ReplaceLines = append(x.current.ReplaceLines, line)
	case ActionCloseBlock:
		x.blocks = append(x.blocks, Block{
			FilePath:     x.current.FilePath,
			SearchLines:  x.current.SearchLines,
			ReplaceLines: x.current.ReplaceLines,
			StartLine:    x.current.StartLine,
			EndLine:      idx,
		})
		x.current = nil
	}
}

// Result returns the blocks found so far and the open block, if any.
func (x *Extractor) Result() Extraction {
	ext := Extraction{Blocks: x.blocks}
	if x.current != nil {
		u := *x.current
		ext.Unclosed = &u
	}
	return ext
}

// Extract runs a fresh extractor over lines.
func Extract(lines []string) Extraction {
	x := NewExtractor()
	for i, line := range lines {
		x.Feed(i, line)
	}
	return x.Result()
}

// HasStartMarker reports whether text contains an edit start marker anywhere.
func HasStartMarker(text string) bool {
	return strings.Contains(text, StartMarker)
}

// IsMarkerPrefix reports whether line is a proper, non-empty prefix of one of
// the markers. A trailing line like this may still be growing into a marker.
func IsMarkerPrefix(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return false
	}
	for _, m := range []string{StartMarker, SeparatorMarker, EndMarker} {
		if trimmed != m && strings.HasPrefix(m, trimmed) {
			return true
		}
	}
	return false
}

// SplitLines splits text on "\n", strips a trailing "\r" from each line and
// drops the empty element produced by a terminating newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
