package diff

import (
	"strings"

	textdiff "github.com/shogoki/gotextdiff"
)

// Unified renders old and new as a unified diff for path. It returns "" when
// the sides are identical.
func Unified(path string, old, new []string) string {
	oldText := joinLines(old)
	newText := joinLines(new)
	if oldText == newText {
		return ""
	}
	return string(textdiff.Diff(path, []byte(oldText), path, []byte(newText)))
}

// joinLines joins lines with a terminating newline so the last line is not
// reported as "no newline at end of file".
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
