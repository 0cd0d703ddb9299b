// Package clipboard moves message text to and from the system clipboard by
// shelling out to the platform's clipboard utilities.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoTool is returned when no clipboard utility is installed.
var ErrNoTool = errors.New("no clipboard utility found (install wl-clipboard or xclip)")

// tool is one clipboard command line.
type tool struct {
	name string
	args []string
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func readTools(goos string, primary bool) []tool {
	switch goos {
	case "darwin":
		// macOS has no primary selection concept
		return []tool{{"pbpaste", nil}}
	case "linux":
		if primary {
			return []tool{
				{"wl-paste", []string{"--primary", "--no-newline"}},
				{"xclip", []string{"-selection", "primary", "-o"}},
			}
		}
		return []tool{
			{"wl-paste", []string{"--no-newline"}},
			{"xclip", []string{"-selection", "clipboard", "-o"}},
		}
	default:
		return nil
	}
}

func writeTools(goos string) []tool {
	switch goos {
	case "darwin":
		return []tool{{"pbcopy", nil}}
	case "linux":
		return []tool{
			{"wl-copy", nil},
			{"xclip", []string{"-selection", "clipboard", "-i"}},
		}
	default:
		return nil
	}
}

// available returns the tools whose binaries are on PATH, in order.
func available(tools []tool) []tool {
	var out []tool
	for _, t := range tools {
		if _, err := lookPath(t.name); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// ReadText reads text content from the system clipboard
func ReadText(ctx context.Context) (string, error) {
	return read(ctx, false)
}

// ReadPrimarySelection reads from the PRIMARY selection (middle-click buffer on Linux).
// On macOS, falls back to the regular clipboard since there's no primary selection.
func ReadPrimarySelection(ctx context.Context) (string, error) {
	return read(ctx, true)
}

func read(ctx context.Context, primary bool) (string, error) {
	candidates := readTools(runtime.GOOS, primary)
	if candidates == nil {
		return "", fmt.Errorf("clipboard read not supported on %s", runtime.GOOS)
	}

	var lastErr error
	for _, t := range available(candidates) {
		cmd := exec.CommandContext(ctx, t.name, t.args...)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", t.name, err)
			continue
		}
		return out.String(), nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", lastErr)
	}
	return "", ErrNoTool
}

// CopyText writes text to the system clipboard.
func CopyText(ctx context.Context, text string) error {
	candidates := writeTools(runtime.GOOS)
	if candidates == nil {
		return fmt.Errorf("clipboard write not supported on %s", runtime.GOOS)
	}

	var lastErr error
	for _, t := range available(candidates) {
		cmd := exec.CommandContext(ctx, t.name, t.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", t.name, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to write clipboard: %w", lastErr)
	}
	return ErrNoTool
}
