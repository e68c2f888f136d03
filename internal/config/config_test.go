package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/derickschaefer/forecast/internal/config"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// isolate points HOME and the working directory at a fresh temp dir and
// clears the forecast environment variables for the duration of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvDBPath, "")
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// ─── Defaults ─────────────────────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Op != config.OpPrint {
		t.Errorf("Op: expected %q, got %q", config.OpPrint, cfg.Op)
	}
	if cfg.MaxCacheAge != config.DefaultMaxCacheAge {
		t.Errorf("MaxCacheAge: got %v", cfg.MaxCacheAge)
	}
	if cfg.Timeout != config.DefaultTimeout || cfg.Rate != config.DefaultRate {
		t.Errorf("transport defaults: got %v / %v", cfg.Timeout, cfg.Rate)
	}
	if cfg.Plot.Height != 10 || cfg.Plot.Bar.Width != 3 {
		t.Errorf("plot defaults: got %+v", cfg.Plot)
	}
	if want := filepath.Join(dir, ".forecast", "cache.db"); cfg.DBPath != want {
		t.Errorf("DBPath: expected %s, got %s", want, cfg.DBPath)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath should be empty without a file, got %q", cfg.ConfigPath)
	}
}

// ─── Layering ─────────────────────────────────────────────────────────────────

func TestLoadFromHomeFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".forecast", "config.json")
	writeFile(t, path, `{
  "api_key": "filekey",
  "location": {"latitude": 52.52, "longitude": 13.405},
  "op": "plot-daily",
  "max_cache_age": 60,
  "timeout": "5s",
  "plot": {"height": 6, "bar": {"color": "green"}}
}`)

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath: got %q", cfg.ConfigPath)
	}
	if cfg.APIKey != "filekey" || cfg.Op != config.OpPlotDaily {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Location.Latitude != 52.52 || cfg.Location.Longitude != 13.405 {
		t.Errorf("Location: got %+v", cfg.Location)
	}
	if cfg.MaxCacheAge != time.Minute || cfg.Timeout != 5*time.Second {
		t.Errorf("durations: got %v / %v", cfg.MaxCacheAge, cfg.Timeout)
	}
	// Partial plot objects merge onto the defaults.
	if cfg.Plot.Height != 6 || cfg.Plot.Bar.Color != "green" {
		t.Errorf("plot overrides not applied: %+v", cfg.Plot)
	}
	if cfg.Plot.Bar.Width != 3 || cfg.Plot.Bar.OverlayColor != "blue" {
		t.Errorf("plot defaults lost in merge: %+v", cfg.Plot.Bar)
	}
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".forecast", "config.json"),
		`{"api_key":"k","max_cache_age":0,"plot":{"hourly":{"succeeding_hours":0}}}`)

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCacheAge != 0 {
		t.Errorf("MaxCacheAge: expected 0, got %v", cfg.MaxCacheAge)
	}
	if cfg.Plot.Hourly.SucceedingHours != 0 {
		t.Errorf("SucceedingHours: expected 0, got %d", cfg.Plot.Hourly.SucceedingHours)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Plot.Height != 10 || cfg.Plot.Hourly.LabelFormat != "15" {
		t.Errorf("plot defaults lost: %+v", cfg.Plot)
	}
	if cfg.Timeout != config.DefaultTimeout || cfg.Rate != config.DefaultRate {
		t.Errorf("transport defaults lost: %v / %v", cfg.Timeout, cfg.Rate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestReadFileFillsMissingKeys(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "partial.json")
	writeFile(t, path, `{"api_key":"k","plot":{"hourly":{"succeeding_hours":0}}}`)

	f, err := config.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.MaxCacheAge != int(config.DefaultMaxCacheAge/time.Second) {
		t.Errorf("MaxCacheAge: expected default, got %d", f.MaxCacheAge)
	}
	if f.Plot == nil || f.Plot.Hourly.SucceedingHours != 0 || f.Plot.Bar.Width != 3 {
		t.Errorf("plot: got %+v", f.Plot)
	}
	if f.Location != nil {
		t.Errorf("Location should stay unset, got %+v", f.Location)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.json")
	writeFile(t, path, `{"api_key": "filekey", "db_path": "/tmp/file.db"}`)
	t.Setenv(config.EnvConfigPath, path)
	t.Setenv(config.EnvAPIKey, "envkey")
	t.Setenv(config.EnvDBPath, "/tmp/env.db")

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "envkey" || cfg.DBPath != "/tmp/env.db" {
		t.Errorf("env should override file: %q / %q", cfg.APIKey, cfg.DBPath)
	}

	cfg, err = config.Load("", "flagkey")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "flagkey" {
		t.Errorf("flag should override env, got %q", cfg.APIKey)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	_ = os.Unsetenv(config.EnvAPIKey)
	writeFile(t, filepath.Join(dir, ".env"), config.EnvAPIKey+"=dotenvkey\n")

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "dotenvkey" {
		t.Errorf("expected key from .env, got %q", cfg.APIKey)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := config.Load(filepath.Join(dir, "absent.json"), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.json")
	writeFile(t, path, `{"api_key": `)
	if _, err := config.Load(path, ""); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNegativeMaxCacheAgeDisablesCache(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.json")
	writeFile(t, path, `{"max_cache_age": -1}`)
	cfg, err := config.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCacheAge > 0 {
		t.Errorf("expected non-positive max age, got %v", cfg.MaxCacheAge)
	}
}

// ─── Validate ─────────────────────────────────────────────────────────────────

func validConfig() *config.Config {
	return &config.Config{
		APIKey:   "key",
		Location: config.Location{Latitude: 10, Longitude: 20},
		Op:       config.OpPrint,
		Plot:     config.DefaultPlot(),
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := validConfig()
	c.APIKey = ""
	c.Op = "plot-weekly"
	c.Location.Latitude = 95
	c.Plot.Height = 0
	err := c.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"API key not found", "plot-weekly", "latitude", "plot.height"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestPlotValidate(t *testing.T) {
	p := config.DefaultPlot()
	p.Daylight.WidthFrac = 1.5
	p.Bar.OverlayColor = "nosuchcolour"
	err := p.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	if !strings.Contains(err.Error(), "width_frac") || !strings.Contains(err.Error(), "overlay_color") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidOp(t *testing.T) {
	for _, op := range config.Ops {
		if !config.ValidOp(op) {
			t.Errorf("%s should be valid", op)
		}
	}
	if config.ValidOp("") || config.ValidOp("plot") {
		t.Error("unexpected valid op")
	}
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func TestRedactedAPIKey(t *testing.T) {
	cases := map[string]string{
		"":           "****",
		"abcd":       "****",
		"abcdef1234": "ab****34",
	}
	for key, want := range cases {
		c := &config.Config{APIKey: key}
		if got := c.RedactedAPIKey(); got != want {
			t.Errorf("RedactedAPIKey(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	if c, err := config.ParseColor("red"); err != nil || c != tcell.ColorRed {
		t.Errorf("red: got %v, %v", c, err)
	}
	if c, err := config.ParseColor(""); err != nil || c != tcell.ColorDefault {
		t.Errorf("empty: got %v, %v", c, err)
	}
	if _, err := config.ParseColor("#ff8800"); err != nil {
		t.Errorf("hex: %v", err)
	}
	if _, err := config.ParseColor("ultraviolet"); err == nil {
		t.Error("expected error for unknown colour")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.json")
	f := config.Template()
	f.APIKey = "written"
	if err := config.WriteFile(path, f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", fi.Mode().Perm())
	}
	got, err := config.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.APIKey != "written" || got.Plot == nil || got.Plot.Height != 10 {
		t.Errorf("round trip lost values: %+v", got)
	}
}
