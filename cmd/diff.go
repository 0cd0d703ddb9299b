package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/ui"
	"github.com/spf13/cobra"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Show a line diff of two files",
	Long: `Compare two files line by line using the same differ that renders edit
blocks.

Examples:
  editrender diff old.go new.go
  editrender diff old.go new.go -f unified > change.patch
  editrender diff old.go new.go -f json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	AddFormatFlag(diffCmd, &diffFormat, formatTerminal, formatTerminal, formatUnified, formatJSON)
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	if err := checkChoice("format", diffFormat, formatTerminal, formatUnified, formatJSON); err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	oldLines, err := readLines(args[0])
	if err != nil {
		return err
	}
	newLines, err := readLines(args[1])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch diffFormat {
	case formatUnified:
		text := diff.Unified(args[1], oldLines, newLines)
		if ui.IsTerminal(w) {
			text = ui.ColorizeUnified(text, ui.NewStyles(w, nil))
		}
		_, err = io.WriteString(w, text)
		return err
	case formatJSON:
		entries := lineDiff(oldLines, newLines, cfg.Render.CharDiff)
		if entries == nil {
			entries = []diff.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		entries := lineDiff(oldLines, newLines, cfg.Render.CharDiff)
		fmt.Fprintln(w, ui.NewPreviewer(w, previewOptions(cfg)).Diff(args[1], entries))
		return nil
	}
}

func lineDiff(oldLines, newLines []string, refine bool) []diff.Entry {
	entries := diff.Lines(oldLines, newLines)
	if refine {
		entries = diff.Refine(entries)
	}
	return entries
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return edit.SplitLines(string(data)), nil
}
