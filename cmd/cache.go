package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/app"
	"github.com/derickschaefer/forecast/internal/report"
	"github.com/derickschaefer/forecast/internal/store"
	"github.com/derickschaefer/forecast/internal/util"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local forecast cache",
	Long: `Commands for inspecting and clearing the local bbolt database.

Every fetched forecast is kept per location and reused while it is younger
than max_cache_age. --refresh re-fetches and overwrites the entry; --no-cache
leaves the database untouched.`,
}

// openCache opens the cache database without requiring an API key.
func openCache() (*app.Deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	deps := app.New(cfg)
	if err := deps.RequireStore(); err != nil {
		return nil, err
	}
	return deps, nil
}

// ─── cache stats ──────────────────────────────────────────────────────────────

var cacheStatsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show entry counts and sizes for each bucket",
	Example: `  forecast cache stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := openCache()
		if err != nil {
			return err
		}
		defer deps.Close()

		stats, err := deps.Store.Stats()
		if err != nil {
			return fmt.Errorf("reading store stats: %w", err)
		}
		report.CacheStats(cmd.OutOrStdout(), deps.Store.Path(), stats)
		if fi, err := os.Stat(deps.Store.Path()); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "File size: %s\n", humanBytes(fi.Size()))
		}
		return nil
	},
}

// ─── cache list ───────────────────────────────────────────────────────────────

var cacheListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List cached forecasts, newest first",
	Example: `  forecast cache list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := openCache()
		if err != nil {
			return err
		}
		defer deps.Close()

		entries, err := deps.Store.ListForecasts()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cached forecasts.")
			return nil
		}
		report.CacheEntries(cmd.OutOrStdout(), entries, deps.Config.MaxCacheAge, deps.Now())
		return nil
	},
}

// ─── cache clear ──────────────────────────────────────────────────────────────

var cacheClearAll bool

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached forecasts",
	Long: `Delete every cached forecast, or the one for a single location.

Note: bbolt does not shrink the database file after clearing. Free pages
are reused on the next write.`,
	Example: `  forecast cache clear --all
  forecast cache clear --location 52.52:13.405`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheClearAll && globalFlags.Location == "" {
			return fmt.Errorf("specify --all or --location <latitude>:<longitude>")
		}

		deps, err := openCache()
		if err != nil {
			return err
		}
		defer deps.Close()

		if cacheClearAll {
			for _, b := range store.AllBuckets {
				if err := deps.Store.ClearBucket(b); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared all cached forecasts")
			return nil
		}

		lat, lon, err := util.ParseLocation(globalFlags.Location)
		if err != nil {
			return err
		}
		key := store.Key(lat, lon)
		if err := deps.Store.DeleteForecast(key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared cached forecast for %s\n", key)
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "clear every cached forecast")
}
