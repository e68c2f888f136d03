package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/app"
	"github.com/derickschaefer/forecast/internal/barplot"
	"github.com/derickschaefer/forecast/internal/config"
	"github.com/derickschaefer/forecast/internal/forecast"
	"github.com/derickschaefer/forecast/internal/model"
	"github.com/derickschaefer/forecast/internal/pipeline"
	"github.com/derickschaefer/forecast/internal/report"
	"github.com/derickschaefer/forecast/internal/series"
)

// runMode runs op regardless of the op configured in config.json.
func runMode(cmd *cobra.Command, op string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Op = op
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps := app.New(cfg)
	defer deps.Close()
	return runOp(cmd, deps, op)
}

// runOp fetches the forecast and runs one operation on it.
func runOp(cmd *cobra.Command, deps *app.Deps, op string) error {
	if !config.ValidOp(op) {
		return fmt.Errorf("unknown mode %q (valid: %v)", op, config.Ops)
	}

	body, err := deps.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if globalFlags.Dump {
		_, err := out.Write(body)
		return err
	}

	f, err := forecast.Parse(body)
	if err != nil {
		return err
	}

	switch op {
	case config.OpPrint, config.OpPrintHourly:
		return report.Write(out, f, op, resolveFormat())
	default:
		return plotForecast(out, deps.Config, f, op)
	}
}

// plotForecast draws one plot operation, or writes its series as JSONL when
// --format jsonl is given.
func plotForecast(out io.Writer, cfg *config.Config, f *model.Forecast, op string) error {
	p := cfg.Plot

	if op == config.OpPlotDaylight {
		days := series.Daylight(f, p)
		if resolveFormat() == "jsonl" {
			return fmt.Errorf("--format jsonl is not supported for %s", op)
		}
		return newPlotter(out, cfg).Daylight(days)
	}

	var (
		chart *pipeline.Chart
		role  = barplot.RoleBar
	)
	switch op {
	case config.OpPlotHourly:
		s := series.HourlyTemperature(f, p)
		chart = &pipeline.Chart{Labels: s.Labels, Values: s.Values}
	case config.OpPlotPrecipHourly:
		s := series.HourlyPrecipitation(f, p)
		chart = &pipeline.Chart{Labels: s.Labels, Values: s.Values}
		role = barplot.RolePrecipitation
	case config.OpPlotPrecipDaily:
		s := series.DailyPrecipitation(f, p)
		chart = &pipeline.Chart{Labels: s.Labels, Values: s.Values}
		role = barplot.RolePrecipitation
	case config.OpPlotDaily:
		o := series.DailyTemperature(f, p)
		chart = &pipeline.Chart{Labels: o.Labels, Values: o.Primary, Overlay: o.Overlay}
	default:
		return fmt.Errorf("no plot for mode %q", op)
	}

	if resolveFormat() == "jsonl" {
		return pipeline.WriteJSONL(out, chart)
	}
	return drawChart(newPlotter(out, cfg), chart, role)
}

// drawChart plots a chart as a single or an overlaid series.
func drawChart(pl *barplot.Plotter, c *pipeline.Chart, role barplot.Role) error {
	if c.Overlay != nil {
		return pl.Overlaid(c.Values, c.Overlay, c.Labels)
	}
	return pl.Labeled(c.Values, c.Labels, role)
}

// newPlotter returns a plotter for the configured plot style. Plots go to
// the terminal unless --plain is set or stdout is not a terminal.
func newPlotter(out io.Writer, cfg *config.Config) *barplot.Plotter {
	pl := barplot.New(cfg.Plot)
	pl.Capacity = series.MaxHourly
	if cfg.Plain || !pipeline.IsTTY() {
		pl.Out = out
	}
	return pl
}
