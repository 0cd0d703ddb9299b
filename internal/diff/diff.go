// Package diff computes line-level diffs between the search and replacement
// regions of an edit block.
//
// Lines is a plain longest-common-subsequence diff. On equal DP scores the
// backtrack prefers consuming from the new side, so an insertion is reported
// before a removal would be. Callers rely on that to get reproducible output.
//
// Invariants:
//   - concat(Context+Remove texts) == old
//   - concat(Context+Add texts) == new
//   - len(entries) <= len(old)+len(new)
package diff

// Kind classifies a diff entry.
type Kind int

const (
	Context Kind = iota
	Add
	Remove
)

func (k Kind) String() string {
	switch k {
	case Context:
		return "context"
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Marker returns the unified-diff style prefix for k.
func (k Kind) Marker() string {
	switch k {
	case Add:
		return "+"
	case Remove:
		return "-"
	default:
		return " "
	}
}

// SegmentKind classifies a character-level segment within a changed line.
type SegmentKind int

const (
	Same SegmentKind = iota
	SegmentAdd
	SegmentRemove
)

func (k SegmentKind) String() string {
	switch k {
	case Same:
		return "same"
	case SegmentAdd:
		return "add"
	case SegmentRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// MarshalText encodes k by name.
func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is a run of characters inside a changed line.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text"`
}

// Entry is one line of diff output. Segments is nil unless the entry was
// paired with a counterpart by Refine.
type Entry struct {
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
}

// Lines diffs old against new.
func Lines(old, new []string) []Entry {
	n, m := len(old), len(new)
	if n == 0 && m == 0 {
		return nil
	}

	// dp[i][j] = LCS length of old[:i] and new[:j]
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if old[i-1] == new[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	entries := make([]Entry, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && old[i-1] == new[j-1]:
			entries = append(entries, Entry{Kind: Context, Text: old[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			entries = append(entries, Entry{Kind: Add, Text: new[j-1]})
			j--
		default:
			entries = append(entries, Entry{Kind: Remove, Text: old[i-1]})
			i--
		}
	}

	for l, r := 0, len(entries)-1; l < r; l, r = l+1, r-1 {
		entries[l], entries[r] = entries[r], entries[l]
	}
	return entries
}

// Old reconstructs the old side from entries.
func Old(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Kind != Add {
			out = append(out, e.Text)
		}
	}
	return out
}

// New reconstructs the new side from entries.
func New(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Kind != Remove {
			out = append(out, e.Text)
		}
	}
	return out
}

// Stats counts added and removed lines.
func Stats(entries []Entry) (added, removed int) {
	for _, e := range entries {
		switch e.Kind {
		case Add:
			added++
		case Remove:
			removed++
		}
	}
	return added, removed
}
