package cmd

import (
	"fmt"
	"time"

	"github.com/samsaffron/editrender/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the render cache",
	Long: `Inspect or prune the cache of finalized renders.

The cache is used by "editrender render" when cache.enabled is true.

Examples:
  editrender cache path
  editrender cache prune --older-than 168h`,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache database path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Path)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached renders older than a duration",
	RunE:  cachePrune,
}

var cachePruneOlderThan time.Duration

func init() {
	cachePruneCmd.Flags().DurationVar(&cachePruneOlderThan, "older-than", 30*24*time.Hour, "Delete renders created longer ago than this")
	cacheCmd.AddCommand(cachePathCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cachePrune(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := cache.OpenSQLite(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	n, err := store.Prune(cmd.Context(), time.Now().Add(-cachePruneOlderThan))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached render(s)\n", n)
	return nil
}
