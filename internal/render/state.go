package render

import (
	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/edit"
)

// StreamState is the incremental state for one streaming message. The zero
// value is the state of a message that has not started. Callers hand the
// returned state back on the next update and drop it once the message is
// final.
type StreamState struct {
	// CommittedPrefixHTML is the rendered HTML of Text[:CommittedUpTo].
	CommittedPrefixHTML string
	// CommittedUpTo is the offset of the last committed safe boundary.
	CommittedUpTo int
	// FenceOpen is the fence state at ScannedUpTo.
	FenceOpen bool
	// ScannedUpTo is the offset the fence scan has consumed.
	ScannedUpTo int
	// Text is the raw text of the previous update.
	Text string

	last            *Output
	lastResults     []edit.Result
	finalEquivalent bool
}

// Started reports whether any update has been recorded.
func (s StreamState) Started() bool {
	return s.Text != "" || s.last != nil
}

// PartKind classifies a rendered region.
type PartKind int

const (
	PartProse   PartKind = iota // committed markdown
	PartPending                 // uncommitted tail shown as literal text
	PartBlock                   // edit block
)

func (k PartKind) String() string {
	switch k {
	case PartProse:
		return "prose"
	case PartPending:
		return "pending"
	case PartBlock:
		return "block"
	default:
		return "unknown"
	}
}

// MarshalText encodes k by name.
func (k PartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Part is one rendered region of a message, in order. Source is the raw text
// the region was rendered from. Block is set for PartBlock.
type Part struct {
	Kind   PartKind   `json:"kind"`
	Source string     `json:"source,omitempty"`
	HTML   string     `json:"html"`
	Block  *BlockView `json:"block,omitempty"`
}

// BlockView is an edit block as displayed: its diff and its outcome.
type BlockView struct {
	FilePath      string       `json:"file_path"`
	Status        edit.Status  `json:"status"`
	Reason        string       `json:"reason,omitempty"`
	EstimatedLine *int         `json:"estimated_line,omitempty"`
	Closed        bool         `json:"closed"`
	StartLine     int          `json:"start_line"`
	EndLine       int          `json:"end_line"`
	Entries       []diff.Entry `json:"entries"`
	Added         int          `json:"added"`
	Removed       int          `json:"removed"`
}

// Output is a rendered message.
type Output struct {
	HTML   string      `json:"html"`
	Parts  []Part      `json:"parts"`
	Blocks []BlockView `json:"blocks,omitempty"`
}

// Pending returns the raw text held back as literal, or "".
func (o Output) Pending() string {
	for _, p := range o.Parts {
		if p.Kind == PartPending {
			return p.Source
		}
	}
	return ""
}
