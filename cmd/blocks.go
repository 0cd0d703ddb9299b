package cmd

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/samsaffron/editrender/internal/diff"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/spf13/cobra"
)

var blocksClipboard inputSource

var blocksCmd = &cobra.Command{
	Use:   "blocks [file]",
	Short: "List the edit blocks in a message",
	Long: `Extract edit blocks from a message and list each one with its file path,
line range and change counts. A trailing block that was never closed is
reported separately.

Examples:
  editrender blocks reply.md
  pbpaste | editrender blocks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBlocks,
}

func init() {
	AddClipboardFlags(blocksCmd, &blocksClipboard)
	rootCmd.AddCommand(blocksCmd)
}

func runBlocks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text, err := readInput(ctx, cmd, args, blocksClipboard)
	if err != nil {
		return err
	}
	return listBlocks(cmd.OutOrStdout(), text)
}

// listBlocks writes one line per closed block, then the unclosed block or a
// dangling path candidate the text ends with.
func listBlocks(w io.Writer, text string) error {
	x := edit.NewExtractor()
	for i, line := range edit.SplitLines(text) {
		x.Feed(i, line)
	}
	ex, state := x.Result(), x.State()

	if len(ex.Blocks) == 0 && ex.Unclosed == nil {
		if state == edit.StateExpectStart {
			_, err := fmt.Fprintln(w, "no edit blocks (last line awaits a start marker)")
			return err
		}
		_, err := fmt.Fprintln(w, "no edit blocks")
		return err
	}

	pathWidth := 0
	for _, b := range ex.Blocks {
		pathWidth = max(pathWidth, runewidth.StringWidth(displayPath(b.FilePath)))
	}
	if ex.Unclosed != nil {
		pathWidth = max(pathWidth, runewidth.StringWidth(displayPath(ex.Unclosed.FilePath)))
	}

	for i, b := range ex.Blocks {
		added, removed := diff.Stats(diff.Lines(b.SearchLines, b.ReplaceLines))
		fmt.Fprintf(w, "%2d  %s  lines %d-%d  +%d -%d\n",
			i+1, runewidth.FillRight(displayPath(b.FilePath), pathWidth), b.StartLine+1, b.EndLine+1, added, removed)
	}
	if u := ex.Unclosed; u != nil {
		fmt.Fprintf(w, " …  %s  from line %d  unclosed (%s, %d/%d lines)\n",
			runewidth.FillRight(displayPath(u.FilePath), pathWidth), u.StartLine+1, state, len(u.SearchLines), len(u.ReplaceLines))
	}
	return nil
}

func displayPath(p string) string {
	if p == "" {
		return "(no file)"
	}
	return p
}
