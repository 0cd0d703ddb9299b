package cmd

import (
	"log/slog"
	"os"

	"github.com/samsaffron/editrender/internal/config"
	"github.com/samsaffron/editrender/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/editrender/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:   "editrender",
	Short: "Render streamed edit blocks as diffs",
	Long: `editrender turns assistant messages containing edit blocks into rendered
HTML or terminal previews, either all at once or replayed as a stream.

Examples:
  editrender render reply.md                  # finalized HTML
  editrender render reply.md -f terminal      # terminal preview
  editrender render --clipboard --copy        # render the clipboard, copy back
  editrender stream reply.md --by byte -n 16  # replay as a stream
  editrender diff old.go new.go               # line diff of two files
  editrender blocks reply.md                  # list extracted edit blocks
  editrender config                           # view configuration`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
}

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var configFile string
var logLevel string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the logger for this run.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.Setup(cmd.ErrOrStderr(), level)
	return cfg, logger, nil
}
