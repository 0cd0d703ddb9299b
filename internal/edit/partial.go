package edit

import "github.com/samsaffron/editrender/internal/diff"

// PartialEntries renders an unclosed block for live display.
//
// Before the separator there is nothing to diff against, so every search line
// is neutral context. After it, the shared literal prefix of both sides is
// context, the rest of the search side is removed and the rest of the replace
// side is added. This prefix heuristic is cheaper than a full LCS on every
// chunk and is replaced by diff.Lines once the block closes.
func PartialEntries(u Unclosed) []diff.Entry {
	if !u.SeparatorSeen {
		entries := make([]diff.Entry, 0, len(u.SearchLines))
		for _, l := range u.SearchLines {
			entries = append(entries, diff.Entry{Kind: diff.Context, Text: l})
		}
		return entries
	}

	shared := 0
	for shared < len(u.SearchLines) && shared < len(u.ReplaceLines) &&
		u.SearchLines[shared] == u.ReplaceLines[shared] {
		shared++
	}

	entries := make([]diff.Entry, 0, len(u.SearchLines)+len(u.ReplaceLines)-shared)
	for _, l := range u.SearchLines[:shared] {
		entries = append(entries, diff.Entry{Kind: diff.Context, Text: l})
	}
	for _, l := range u.SearchLines[shared:] {
		entries = append(entries, diff.Entry{Kind: diff.Remove, Text: l})
	}
	for _, l := range u.ReplaceLines[shared:] {
		entries = append(entries, diff.Entry{Kind: diff.Add, Text: l})
	}
	return entries
}
