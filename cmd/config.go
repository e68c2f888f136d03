package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/config"
	"github.com/derickschaefer/forecast/internal/report"
	"github.com/derickschaefer/forecast/internal/util"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage forecast configuration",
	Long: `Read and write forecast configuration stored in config.json.

The file is looked up at --config, then $FORECAST_CONFIG_PATH, then
~/.forecast/config.json.`,
}

// configPath returns the config file the config subcommands operate on.
func configPath() string {
	if globalFlags.Config != "" {
		return globalFlags.Config
	}
	if v := os.Getenv(config.EnvConfigPath); v != "" {
		return v
	}
	return config.DefaultPath()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created %s\n", path)
		fmt.Fprintln(out, "  Set your api_key and location to get started:")
		fmt.Fprintln(out, "    forecast config set api_key YOUR_KEY")
		fmt.Fprintln(out, "    forecast config set location <latitude>:<longitude>")
		return nil
	},
}

var configGetShowSecrets bool

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		apiKey := cfg.RedactedAPIKey()
		if configGetShowSecrets {
			apiKey = cfg.APIKey
		}
		if cfg.APIKey == "" {
			apiKey = "(not set)"
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		switch resolveFormat() {
		case report.FormatJSON:
			type configOut struct {
				APIKey      string          `json:"api_key"`
				Location    config.Location `json:"location"`
				Op          string          `json:"op"`
				MaxCacheAge int             `json:"max_cache_age"`
				DBPath      string          `json:"db_path"`
				Timeout     string          `json:"timeout"`
				Rate        float64         `json:"rate"`
				BaseURL     string          `json:"base_url"`
				Units       string          `json:"units"`
				Plot        config.Plot     `json:"plot"`
				ConfigFile  string          `json:"config_file"`
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				APIKey:      apiKey,
				Location:    cfg.Location,
				Op:          cfg.Op,
				MaxCacheAge: int(cfg.MaxCacheAge / time.Second),
				DBPath:      cfg.DBPath,
				Timeout:     cfg.Timeout.String(),
				Rate:        cfg.Rate,
				BaseURL:     cfg.BaseURL,
				Units:       cfg.Units,
				Plot:        cfg.Plot,
				ConfigFile:  src,
			})
		default:
			p := cfg.Plot
			rows := [][]string{
				{"api_key", apiKey},
				{"location", fmt.Sprintf("%g:%g", cfg.Location.Latitude, cfg.Location.Longitude)},
				{"op", cfg.Op},
				{"max_cache_age", cfg.MaxCacheAge.String()},
				{"db_path", cfg.DBPath},
				{"timeout", cfg.Timeout.String()},
				{"rate", fmt.Sprintf("%.1f req/s", cfg.Rate)},
				{"base_url", cfg.BaseURL},
				{"units", cfg.Units},
				{"plot.height", strconv.Itoa(p.Height)},
				{"plot.bar.width", strconv.Itoa(p.Bar.Width)},
				{"plot.bar.color", p.Bar.Color},
				{"plot.bar.overlay_color", p.Bar.OverlayColor},
				{"plot.precipitation.bar_color", p.Precipitation.BarColor},
				{"plot.daylight.color", p.Daylight.Color},
				{"plot.hourly.succeeding_hours", strconv.Itoa(p.Hourly.SucceedingHours)},
				{"config_file", src},
			}
			printKVTable(cmd.OutOrStdout(), rows)
			return nil
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		path := configPath()

		// Load existing file or start from template
		f, err := config.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			t := config.Template()
			f = &t
		case err != nil:
			return err
		}

		if err := setConfigKey(f, key, args[1]); err != nil {
			return err
		}
		if err := config.WriteFile(path, *f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", key, path)
		return nil
	},
}

// configKeys lists the keys accepted by `config set`.
var configKeys = []string{
	"api_key", "location", "op", "max_cache_age", "db_path", "timeout", "rate",
	"base_url", "units", "plot.height", "plot.opaque", "plot.bar.width",
	"plot.bar.color", "plot.bar.overlay_color", "plot.precipitation.bar_color",
	"plot.daylight.color", "plot.hourly.succeeding_hours",
}

// setConfigKey validates val and stores it under key in f.
func setConfigKey(f *config.File, key, val string) error {
	if f.Plot == nil {
		p := config.DefaultPlot()
		f.Plot = &p
	}
	switch key {
	case "api_key":
		f.APIKey = val
	case "location":
		lat, lon, err := util.ParseLocation(val)
		if err != nil {
			return err
		}
		f.Location = &config.Location{Latitude: lat, Longitude: lon}
	case "op", "mode":
		if !config.ValidOp(val) {
			return fmt.Errorf("unknown op %q (valid: %s)", val, strings.Join(config.Ops, ", "))
		}
		f.Op = val
	case "max_cache_age":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("max_cache_age must be a whole number of seconds")
		}
		f.MaxCacheAge = n
	case "db_path":
		f.DBPath = val
	case "timeout":
		if _, err := time.ParseDuration(val); err != nil {
			return fmt.Errorf("timeout must be a duration such as 30s: %w", err)
		}
		f.Timeout = val
	case "rate":
		r, err := strconv.ParseFloat(val, 64)
		if err != nil || r <= 0 {
			return fmt.Errorf("rate must be a positive number")
		}
		f.Rate = r
	case "base_url":
		f.BaseURL = val
	case "units":
		switch val {
		case "us", "si", "ca", "uk2", "auto":
		default:
			return fmt.Errorf("units must be one of us, si, ca, uk2, auto")
		}
		f.Units = val
	case "plot.height":
		return setPositive(&f.Plot.Height, key, val)
	case "plot.bar.width":
		return setPositive(&f.Plot.Bar.Width, key, val)
	case "plot.hourly.succeeding_hours":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
		f.Plot.Hourly.SucceedingHours = n
	case "plot.opaque":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		f.Plot.Opaque = b
	case "plot.bar.color":
		return setColor(&f.Plot.Bar.Color, val)
	case "plot.bar.overlay_color":
		return setColor(&f.Plot.Bar.OverlayColor, val)
	case "plot.precipitation.bar_color":
		return setColor(&f.Plot.Precipitation.BarColor, val)
	case "plot.daylight.color":
		return setColor(&f.Plot.Daylight.Color, val)
	default:
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s", key, strings.Join(configKeys, ", "))
	}
	return nil
}

func setPositive(dst *int, key, val string) error {
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive integer", key)
	}
	*dst = n
	return nil
}

func setColor(dst *string, val string) error {
	if _, err := config.ParseColor(val); err != nil {
		return err
	}
	*dst = val
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configGetCmd.Flags().BoolVar(&configGetShowSecrets, "show-secrets", false, "show API key in plain text")
}
