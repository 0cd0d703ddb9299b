package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/samsaffron/editrender/internal/clipboard"
	"github.com/samsaffron/editrender/internal/config"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/render"
	"github.com/samsaffron/editrender/internal/ui"
	"github.com/spf13/cobra"
)

// AddFormatFlag adds the --format/-f flag restricted to choices, with completion
func AddFormatFlag(cmd *cobra.Command, dest *string, def string, choices ...string) {
	cmd.Flags().StringVarP(dest, "format", "f", def, "Output format: "+strings.Join(choices, ", "))
	if err := cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp)); err != nil {
		panic("failed to register format completion: " + err.Error())
	}
}

// AddResultsFlag adds the --results/-r flag
func AddResultsFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVarP(dest, "results", "r", "", "YAML or JSON file with edit results")
}

// inputSource selects where a command reads its message from when no file is
// given.
type inputSource struct {
	Clipboard bool
	Primary   bool
}

// AddClipboardFlags adds the --clipboard and --primary flags
func AddClipboardFlags(cmd *cobra.Command, dest *inputSource) {
	cmd.Flags().BoolVar(&dest.Clipboard, "clipboard", false, "Read the message from the clipboard")
	cmd.Flags().BoolVar(&dest.Primary, "primary", false, "Read the message from the primary selection (X11/Wayland)")
	cmd.MarkFlagsMutuallyExclusive("clipboard", "primary")
}

func checkChoice(flag, value string, choices ...string) error {
	if !slices.Contains(choices, value) {
		return fmt.Errorf("invalid --%s %q (want one of: %s)", flag, value, strings.Join(choices, ", "))
	}
	return nil
}

// readInput returns the message text from the clipboard, the file named by
// args[0], or stdin when no file (or "-") is given.
func readInput(ctx context.Context, cmd *cobra.Command, args []string, src inputSource) (string, error) {
	if src.Clipboard || src.Primary {
		if len(args) > 0 {
			return "", fmt.Errorf("--clipboard and --primary cannot be combined with a file argument")
		}
		read := clipboard.ReadText
		if src.Primary {
			read = clipboard.ReadPrimarySelection
		}
		text, err := read(ctx)
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	return string(data), nil
}

func loadResultsFile(path string) ([]edit.Result, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()
	results, err := edit.LoadResults(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// renderOptions maps the render section of the config onto renderer options.
func renderOptions(cfg *config.Config, logger *slog.Logger) render.Options {
	return render.Options{
		CharDiff:    cfg.Render.CharDiff,
		Highlight:   cfg.Render.Highlight,
		CopyButtons: cfg.Render.CopyButtons,
		FileRefs:    cfg.Render.FileRefs,
		KnownPaths:  cfg.Render.KnownPaths,
		Logger:      logger,
	}
}

func previewOptions(cfg *config.Config) ui.PreviewOptions {
	return ui.PreviewOptions{
		Width:     cfg.UI.Width,
		Style:     cfg.UI.Theme,
		Highlight: cfg.Render.Highlight,
	}
}
