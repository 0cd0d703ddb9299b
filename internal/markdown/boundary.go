package markdown

import "strings"

// Fence is the code fence delimiter.
const Fence = "```"

// IsFence reports whether line opens or closes a fenced code block.
func IsFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), Fence)
}

// IsBlank reports whether line has no visible content.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ScanResult is the outcome of scanning text for a safe split point.
type ScanResult struct {
	// Boundary is the offset just after the last blank line seen outside a
	// fence during this scan, or -1 if the scan found none.
	Boundary int
	// ScannedUpTo is the offset after the last complete line consumed.
	ScannedUpTo int
	// FenceOpen is the fence state at ScannedUpTo.
	FenceOpen bool
}

// Scan resumes a fence-aware scan of text at offset from, where fenceOpen is
// the fence state at that offset. Only newline-terminated lines are consumed;
// a trailing partial line is left for the next call.
//
// A blank line inside an open fence is never a boundary, so splitting text at
// Boundary never cuts a code block in half.
func Scan(text string, from int, fenceOpen bool) ScanResult {
	res := ScanResult{Boundary: -1, ScannedUpTo: from, FenceOpen: fenceOpen}
	if from < 0 || from > len(text) {
		return res
	}

	pos := from
	for {
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			break
		}
		line := text[pos : pos+nl]
		next := pos + nl + 1

		switch {
		case IsFence(line):
			res.FenceOpen = !res.FenceOpen
		case !res.FenceOpen && IsBlank(line):
			res.Boundary = next
		}
		pos = next
	}

	res.ScannedUpTo = pos
	return res
}

// SafeBoundary scans text from the start and returns the last safe split
// offset, or -1 if there is none.
func SafeBoundary(text string) int {
	return Scan(text, 0, false).Boundary
}
