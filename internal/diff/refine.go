package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Refine attaches character-level segments to changed-line pairs.
//
// Pairing rule: a maximal run of Remove entries immediately followed by a
// maximal run of Add entries of the same length is paired index-by-index.
// Runs of unequal length are left alone, since any pairing between them would
// be a guess. A pair with no common text gets no segments (the whole line is
// the change). Line kinds are never altered.
func Refine(entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]Entry, len(entries))
	copy(out, entries)

	dmp := diffmatchpatch.New()
	i := 0
	for i < len(out) {
		if out[i].Kind != Remove {
			i++
			continue
		}
		remStart := i
		for i < len(out) && out[i].Kind == Remove {
			i++
		}
		addStart := i
		for i < len(out) && out[i].Kind == Add {
			i++
		}
		remCount := addStart - remStart
		addCount := i - addStart
		if addCount == 0 || remCount != addCount {
			continue
		}
		for k := 0; k < remCount; k++ {
			oldSegs, newSegs := charSegments(dmp, out[remStart+k].Text, out[addStart+k].Text)
			out[remStart+k].Segments = oldSegs
			out[addStart+k].Segments = newSegs
		}
	}
	return out
}

// charSegments splits a changed pair into per-side segments.
func charSegments(dmp *diffmatchpatch.DiffMatchPatch, oldLine, newLine string) (oldSegs, newSegs []Segment) {
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	hasCommon := false
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			hasCommon = true
			oldSegs = appendSegment(oldSegs, Same, d.Text)
			newSegs = appendSegment(newSegs, Same, d.Text)
		case diffmatchpatch.DiffDelete:
			oldSegs = appendSegment(oldSegs, SegmentRemove, d.Text)
		case diffmatchpatch.DiffInsert:
			newSegs = appendSegment(newSegs, SegmentAdd, d.Text)
		}
	}
	if !hasCommon {
		return nil, nil
	}
	return oldSegs, newSegs
}

// appendSegment appends, coalescing with the previous segment of the same kind.
func appendSegment(segs []Segment, kind SegmentKind, text string) []Segment {
	if n := len(segs); n > 0 && segs[n-1].Kind == kind {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Kind: kind, Text: text})
}

// SegmentText concatenates segment texts, which reproduces the entry text.
func SegmentText(segs []Segment) string {
	var n int
	for _, s := range segs {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range segs {
		b = append(b, s.Text...)
	}
	return string(b)
}
