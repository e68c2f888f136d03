// Package config handles loading and resolving forecast configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags --api-key, --config
//  2. Environment variables FORECAST_API_KEY, FORECAST_CONFIG_PATH,
//     FORECAST_DB_PATH (a .env file in the working directory is read first)
//  3. the JSON config file, by default ~/.forecast/config.json
//  4. built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/derickschaefer/forecast/internal/util"
)

const (
	DefaultConfigDir   = ".forecast"
	DefaultConfigFile  = "config.json"
	DefaultTimeout     = 30 * time.Second
	DefaultRate        = 2.0
	DefaultMaxCacheAge = 10 * time.Minute
	DefaultBaseURL     = "https://api.forecast.io/forecast/"
	DefaultUnits       = "us"
	EnvAPIKey          = "FORECAST_API_KEY"
	EnvConfigPath      = "FORECAST_CONFIG_PATH"
	EnvDBPath          = "FORECAST_DB_PATH"
)

// Operation names accepted by --mode and the "op" config key.
const (
	OpPrint            = "print"
	OpPrintHourly      = "print-hourly"
	OpPlotHourly       = "plot-hourly"
	OpPlotDaily        = "plot-daily"
	OpPlotPrecipDaily  = "plot-precip-daily"
	OpPlotPrecipHourly = "plot-precip-hourly"
	OpPlotDaylight     = "plot-daylight"
)

// Ops lists every valid operation in help order.
var Ops = []string{
	OpPrint, OpPrintHourly, OpPlotHourly, OpPlotDaily,
	OpPlotPrecipHourly, OpPlotPrecipDaily, OpPlotDaylight,
}

// ValidOp reports whether op names a known operation.
func ValidOp(op string) bool {
	for _, o := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Location is a point on the globe in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// File is the on-disk representation of config.json.
type File struct {
	APIKey      string    `json:"api_key"`
	Location    *Location `json:"location,omitempty"`
	Op          string    `json:"op"`
	MaxCacheAge int       `json:"max_cache_age"` // seconds
	DBPath      string    `json:"db_path"`
	Timeout     string    `json:"timeout"`
	Rate        float64   `json:"rate"`
	BaseURL     string    `json:"base_url"`
	Units       string    `json:"units"`
	Plot        *Plot     `json:"plot,omitempty"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	APIKey      string
	Location    Location
	Op          string
	MaxCacheAge time.Duration
	DBPath      string
	Timeout     time.Duration
	Rate        float64
	BaseURL     string
	Units       string
	Plot        Plot
	ConfigPath  string // path of the config file that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	NoCache bool
	Refresh bool
	Plain   bool
	Debug   bool
}

// Load resolves configuration from all sources.
// flagPath and flagAPIKey are the values of --config and --api-key (empty
// string if not set).
func Load(flagPath, flagAPIKey string) (*Config, error) {
	// .env never overrides variables that are already set.
	_ = godotenv.Load()

	cfg := &Config{
		Op:          OpPrint,
		MaxCacheAge: DefaultMaxCacheAge,
		Timeout:     DefaultTimeout,
		Rate:        DefaultRate,
		BaseURL:     DefaultBaseURL,
		Units:       DefaultUnits,
		Plot:        DefaultPlot(),
	}

	// Layer 1: config file (lowest priority)
	path, explicit := resolvePath(flagPath)
	f, err := loadFile(path)
	switch {
	case err == nil:
		applyFile(cfg, f, path)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}

	// Layer 3: CLI flag (highest priority)
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}

	if cfg.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DBPath = filepath.Join(home, DefaultConfigDir, "cache.db")
		}
	}

	return cfg, nil
}

// DefaultPath returns ~/.forecast/config.json, or config.json in the working
// directory when the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// resolvePath picks the config file path. explicit is true when the user
// named the file, in which case a missing file is an error.
func resolvePath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v, true
	}
	return DefaultPath(), false
}

// Validate returns an error if fields needed to fetch and plot are missing or
// malformed. Every problem found is reported.
func (c *Config) Validate() error {
	var errs util.MultiError
	if c.APIKey == "" {
		errs.Add(errors.New(
			"API key not found.\n\n" +
				"Set it one of these ways:\n" +
				"  1. CLI flag:        forecast --api-key YOUR_KEY ...\n" +
				"  2. Environment:     export FORECAST_API_KEY=YOUR_KEY\n" +
				"  3. config.json:     {\"api_key\": \"YOUR_KEY\"}",
		))
	}
	if !ValidOp(c.Op) {
		errs.Add(fmt.Errorf("unknown op %q", c.Op))
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs.Add(fmt.Errorf("latitude %g out of range", c.Location.Latitude))
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errs.Add(fmt.Errorf("longitude %g out of range", c.Location.Longitude))
	}
	errs.Add(c.Plot.Validate())
	return errs.Err()
}

// RedactedAPIKey returns the API key with most characters replaced by asterisks.
// Safe for logging and display.
func (c *Config) RedactedAPIKey() string {
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return c.APIKey[:2] + "****" + c.APIKey[len(c.APIKey)-2:]
}

// loadFile decodes the config file at path on top of Template(). Keys present
// in the file replace the defaults, zeros included; absent keys keep them.
func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f := Template()
	f.Location = nil
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// ReadFile decodes the config file at path with defaults filled in for
// missing keys; used by `config set`.
func ReadFile(path string) (*File, error) {
	return loadFile(path)
}

// applyFile copies values from a File decoded over Template() into cfg.
// Empty strings keep the built-in value.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.APIKey != "" {
		cfg.APIKey = f.APIKey
	}
	if f.Location != nil {
		cfg.Location = *f.Location
	}
	if f.Op != "" {
		cfg.Op = f.Op
	}
	cfg.MaxCacheAge = time.Duration(f.MaxCacheAge) * time.Second
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Units != "" {
		cfg.Units = f.Units
	}
	if f.Plot != nil {
		cfg.Plot = *f.Plot
	}
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `forecast config init`.
func Template() File {
	plot := DefaultPlot()
	return File{
		APIKey:      "",
		Location:    &Location{},
		Op:          OpPrint,
		MaxCacheAge: int(DefaultMaxCacheAge / time.Second),
		Timeout:     "30s",
		Rate:        DefaultRate,
		BaseURL:     DefaultBaseURL,
		Units:       DefaultUnits,
		Plot:        &plot,
	}
}

// WriteFile serialises a File to the given path, creating parent directories.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// ParseColor resolves a colour name ("red", "steelblue", "#ff8800") to a
// terminal colour. "" and "default" select the terminal default.
func ParseColor(name string) (tcell.Color, error) {
	if name == "" || name == "default" {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}
