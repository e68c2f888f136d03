// Package cmd implements the forecast CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/app"
	"github.com/derickschaefer/forecast/internal/config"
	"github.com/derickschaefer/forecast/internal/util"
)

// globalOptions holds the parsed values of all persistent (global) flags.
type globalOptions struct {
	APIKey   string
	Config   string
	Location string
	Mode     string
	Format   string
	Dump     bool
	Plain    bool
	NoCache  bool
	Refresh  bool
	Timeout  string
	Rate     float64
	Debug    bool
}

var globalFlags globalOptions

// rootCmd is the base command. Running `forecast` with no subcommand runs the
// configured operation (op in config.json, or --mode).
var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "forecast — weather forecasts and terminal bar plots",
	Long: `forecast queries a forecast.io-compatible weather API and shows the
result as text or as bar plots drawn in the terminal.

Modes (--mode or "op" in config.json):
  print               current conditions
  print-hourly        hourly outlook
  plot-hourly         hourly temperature
  plot-daily          daily maximum over minimum temperature
  plot-precip-hourly  hourly precipitation probability
  plot-precip-daily   daily precipitation probability
  plot-daylight       daylight hours per day

Plots take over the terminal until a key is pressed. Use --plain to print
them as text instead.

Quick start:
  forecast config init                    # create ~/.forecast/config.json
  forecast config set api_key YOUR_KEY
  forecast config set location 52.52:13.405
  forecast --mode plot-daily`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(globalFlags.Debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		return runOp(cmd, deps, deps.Config.Op)
	},
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging routes slog to stderr; --debug lowers the level to Debug.
func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig resolves config and applies CLI flag overrides without checking
// that the API key and location are usable.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalFlags.Config, globalFlags.APIKey)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.NoCache = globalFlags.NoCache
	cfg.Refresh = globalFlags.Refresh
	cfg.Plain = globalFlags.Plain
	cfg.Debug = globalFlags.Debug

	if globalFlags.Location != "" {
		lat, lon, err := util.ParseLocation(globalFlags.Location)
		if err != nil {
			return nil, err
		}
		cfg.Location = config.Location{Latitude: lat, Longitude: lon}
	}
	if globalFlags.Mode != "" {
		cfg.Op = globalFlags.Mode
	}
	if globalFlags.Timeout != "" {
		d, err := time.ParseDuration(globalFlags.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout %q: %w", globalFlags.Timeout, err)
		}
		cfg.Timeout = d
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}
	return cfg, nil
}

// buildDeps resolves and validates config and constructs the dependency
// container. Called at the start of each fetching command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(cfg), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.APIKey, "api-key", "",
		"forecast API key (overrides env FORECAST_API_KEY and config.json)")
	pf.StringVar(&globalFlags.Config, "config", "",
		"config file (default: ~/.forecast/config.json, env FORECAST_CONFIG_PATH)")
	pf.StringVarP(&globalFlags.Location, "location", "l", "",
		"location as <latitude>:<longitude> (overrides config.json)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json for reports, jsonl for plot series (default: table)")
	pf.BoolVar(&globalFlags.Dump, "dump", false,
		"write the raw forecast JSON to stdout instead of rendering it")
	pf.BoolVar(&globalFlags.Plain, "plain", false,
		"print plots as text instead of taking over the terminal")
	pf.BoolVar(&globalFlags.NoCache, "no-cache", false,
		"bypass the local cache entirely")
	pf.BoolVar(&globalFlags.Refresh, "refresh", false,
		"force re-fetch and overwrite the cached entry")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout (e.g. 30s, 2m)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max API requests per second (default: 2.0)")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log HTTP requests, responses and cache decisions (API key redacted)")

	rootCmd.Flags().StringVarP(&globalFlags.Mode, "mode", "m", "",
		"operation to run (see above; default: op from config.json, else print)")

	_ = rootCmd.RegisterFlagCompletionFunc("mode", fixedCompletion(config.Ops...))
	_ = rootCmd.RegisterFlagCompletionFunc("format", fixedCompletion("table", "json", "jsonl"))
}
