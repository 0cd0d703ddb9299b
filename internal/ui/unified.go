package ui

import (
	"regexp"
	"strings"
)

// Regex to parse hunk header: @@ -start,count +start,count @@
var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// ColorizeUnified styles unified diff text line by line.
func ColorizeUnified(text string, s *Styles) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			lines[i] = s.Bold.Render(line)
		case hunkRe.MatchString(line):
			lines[i] = s.Hunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.Added.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.Removed.Render(line)
		default:
			lines[i] = s.Muted.Render(line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
