package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/samsaffron/editrender/internal/cache"
	"github.com/samsaffron/editrender/internal/clipboard"
	"github.com/samsaffron/editrender/internal/config"
	"github.com/samsaffron/editrender/internal/edit"
	"github.com/samsaffron/editrender/internal/render"
	"github.com/samsaffron/editrender/internal/ui"
	"github.com/spf13/cobra"
)

const (
	formatHTML     = "html"
	formatTerminal = "terminal"
	formatJSON     = "json"
	formatUnified  = "unified"
)

var (
	renderFormat     string
	renderResults    string
	renderClipboard  inputSource
	renderCopy       bool
	renderStandalone bool
	renderNoCache    bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a finished message",
	Long: `Render a complete message, reading it from a file, stdin or the clipboard.

Edit blocks become diffs annotated with the outcomes from --results; prose is
rendered as markdown.

Examples:
  editrender render reply.md
  editrender render reply.md -r results.yaml -f terminal
  cat reply.md | editrender render -f json
  editrender render --clipboard --standalone --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	AddFormatFlag(renderCmd, &renderFormat, formatHTML, formatHTML, formatTerminal, formatJSON)
	AddResultsFlag(renderCmd, &renderResults)
	AddClipboardFlags(renderCmd, &renderClipboard)
	renderCmd.Flags().BoolVar(&renderCopy, "copy", false, "Copy the rendered output to the clipboard")
	renderCmd.Flags().BoolVar(&renderStandalone, "standalone", false, "Wrap HTML output in a complete document with a stylesheet")
	renderCmd.Flags().BoolVar(&renderNoCache, "no-cache", false, "Bypass the render cache")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := checkChoice("format", renderFormat, formatHTML, formatTerminal, formatJSON); err != nil {
		return err
	}
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	text, err := readInput(ctx, cmd, args, renderClipboard)
	if err != nil {
		return err
	}
	results, err := loadResultsFile(renderResults)
	if err != nil {
		return err
	}

	job := renderJob{
		Text:       text,
		Results:    results,
		Format:     renderFormat,
		Standalone: renderStandalone,
		Options:    renderOptions(cfg, logger),
		Preview:    previewOptions(cfg),
		Theme:      cfg.UI.Theme,
	}

	var store cache.Store = cache.NoopStore{}
	if cfg.Cache.Enabled && !renderNoCache && job.Format != formatTerminal {
		store = openCache(cfg, logger)
	}
	defer store.Close()

	output, err := job.run(ctx, store, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), output); err != nil {
		return err
	}

	if renderCopy {
		if err := clipboard.CopyText(ctx, output); err != nil {
			return fmt.Errorf("copy output: %w", err)
		}
		logger.Info("copied output to clipboard", "bytes", len(output))
	}
	return nil
}

// openCache opens the configured render cache. Any failure is logged and a
// no-op store is returned so rendering proceeds uncached.
func openCache(cfg *config.Config, logger *slog.Logger) cache.Store {
	store, err := cache.OpenSQLite(cfg.Cache.Path)
	if err != nil {
		logger.Warn("render cache unavailable", "path", cfg.Cache.Path, "error", err)
		return cache.NoopStore{}
	}
	return cache.NewLoggingStore(store, logger)
}

// renderJob is one finalized render of a message in a given format.
type renderJob struct {
	Text       string
	Results    []edit.Result
	Format     string
	Standalone bool
	Options    render.Options
	Preview    ui.PreviewOptions
	Theme      string
}

// fingerprint covers every setting that changes the formatted output.
func (j renderJob) fingerprint() string {
	o := j.Options
	return fmt.Sprintf("format=%s standalone=%t theme=%s char=%t hl=%t copy=%t refs=%t known=%s",
		j.Format, j.Standalone, j.Theme, o.CharDiff, o.Highlight, o.CopyButtons, o.FileRefs,
		strings.Join(o.KnownPaths, ","))
}

// run renders the message, consulting store first. w is only used to detect
// terminal capabilities for the terminal format.
func (j renderJob) run(ctx context.Context, store cache.Store, w io.Writer) (string, error) {
	key, err := cache.Key(j.Text, j.Results, j.fingerprint())
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	if entry, _ := store.Get(ctx, key); entry != nil {
		j.logger().Debug("render cache hit", "key", key[:12], "hits", entry.Hits)
		return string(entry.Output), nil
	}

	out := render.New(j.Options).Final(j.Text, j.Results)
	output, err := j.format(out, w)
	if err != nil {
		return "", err
	}
	if err := store.Put(ctx, key, []byte(output)); err != nil {
		j.logger().Warn("render cache put failed", "key", key[:12], "error", err)
	}
	return output, nil
}

func (j renderJob) logger() *slog.Logger {
	if j.Options.Logger != nil {
		return j.Options.Logger
	}
	return slog.Default()
}

func (j renderJob) format(out render.Output, w io.Writer) (string, error) {
	switch j.Format {
	case formatTerminal:
		return ui.NewPreviewer(w, j.Preview).Render(out) + "\n", nil
	case formatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode output: %w", err)
		}
		return string(data) + "\n", nil
	default:
		if !j.Standalone {
			return out.HTML, nil
		}
		return standaloneHTML(out.HTML, j.Theme)
	}
}

func standaloneHTML(body, theme string) (string, error) {
	css, err := render.Stylesheet(theme)
	if err != nil {
		return "", fmt.Errorf("stylesheet: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	sb.WriteString(css)
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}
