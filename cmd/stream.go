package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/markdown"
	"github.com/samsaffron/editrender/internal/render"
	"github.com/spf13/cobra"
)

const (
	streamByLine = "line"
	streamByByte = "byte"
)

var (
	streamBy        string
	streamChunk     int
	streamHTML      bool
	streamResults   string
	streamClipboard inputSource
)

var streamCmd = &cobra.Command{
	Use:   "stream [file]",
	Short: "Replay a message as a stream of growing prefixes",
	Long: `Feed a message to the incremental renderer in growing prefixes, the way a
model would deliver it, and report the renderer state after each update.

Each step prints the committed prose offset, the safe split offset of the
whole prefix, whether a code fence is open and the number of edit blocks
rendered so far. The finalized HTML is printed last.

Examples:
  editrender stream reply.md
  editrender stream reply.md --by byte --chunk 7
  editrender stream reply.md --html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&streamBy, "by", streamByLine, "Chunk unit: line or byte")
	streamCmd.Flags().IntVarP(&streamChunk, "chunk", "n", 1, "Units appended per update")
	streamCmd.Flags().BoolVar(&streamHTML, "html", false, "Print the HTML of every update")
	AddResultsFlag(streamCmd, &streamResults)
	AddClipboardFlags(streamCmd, &streamClipboard)
	if err := streamCmd.RegisterFlagCompletionFunc("by", cobra.FixedCompletions([]string{streamByLine, streamByByte}, cobra.ShellCompDirectiveNoFileComp)); err != nil {
		panic("failed to register by completion: " + err.Error())
	}
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	if err := checkChoice("by", streamBy, streamByLine, streamByByte); err != nil {
		return err
	}
	if streamChunk < 1 {
		return fmt.Errorf("--chunk must be at least 1")
	}
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	text, err := readInput(ctx, cmd, args, streamClipboard)
	if err != nil {
		return err
	}
	results, err := loadResultsFile(streamResults)
	if err != nil {
		return err
	}

	r := render.New(renderOptions(cfg, logger))
	return replay(cmd.OutOrStdout(), r, prefixes(text, streamBy, streamChunk), results, streamHTML)
}

// replay renders each prefix as a streaming update, then finalizes the last
// one and reports whether the result matches a one-shot render.
func replay(w io.Writer, r *render.Renderer, steps []string, results []edit.Result, showHTML bool) error {
	var st render.StreamState
	var text string
	for i, prefix := range steps {
		var out render.Output
		out, st = r.Render(prefix, st, results, false)
		text = prefix
		fmt.Fprintf(w, "step %d: bytes=%d committed=%d safe=%d fence=%t blocks=%d pending=%d\n",
			i+1, len(prefix), st.CommittedUpTo, markdown.SafeBoundary(prefix), st.FenceOpen, len(out.Blocks), len(out.Pending()))
		if showHTML {
			fmt.Fprintln(w, out.HTML)
		}
	}

	final, _ := r.Render(text, st, results, true)
	oneShot := r.Final(text, results)
	fmt.Fprintf(w, "final: blocks=%d matches one-shot render: %t\n", len(final.Blocks), final.HTML == oneShot.HTML)
	_, err := io.WriteString(w, final.HTML)
	return err
}

// prefixes splits text into the growing prefixes a stream would deliver.
// Byte chunks never split a UTF-8 sequence.
func prefixes(text, by string, n int) []string {
	if text == "" {
		return []string{""}
	}
	var out []string
	if by == streamByByte {
		end := 0
		for end < len(text) {
			for i := 0; i < n && end < len(text); i++ {
				_, size := utf8.DecodeRuneInString(text[end:])
				end += size
			}
			out = append(out, text[:end])
		}
		return out
	}

	end := 0
	for end < len(text) {
		for i := 0; i < n && end < len(text); i++ {
			next := strings.IndexByte(text[end:], '\n')
			if next < 0 {
				end = len(text)
			} else {
				end += next + 1
			}
		}
		out = append(out, text[:end])
	}
	return out
}
