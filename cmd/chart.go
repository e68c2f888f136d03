package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/barplot"
	"github.com/derickschaefer/forecast/internal/pipeline"
)

var (
	chartRole string
	chartRows int
	chartCols int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Draw a bar plot of JSONL points read from stdin",
	Long: `Reads JSONL points from stdin and draws them as a bar plot, using the plot
settings from config.json. No API key is needed.

Each line is an object with a "value" and optional "label" and "overlay".
When every point carries an overlay the two series share one axis, the
overlay drawn over the primary bars. Without labels, bars are numbered
00, 01, ….`,
	Example: `  forecast plot hourly --format jsonl | forecast chart
  printf '{"label":"a","value":-3}\n{"label":"b","value":5}\n' | forecast chart --plain
  forecast plot precip-daily --format jsonl | forecast chart --role precipitation --plain --cols 60`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(chartRole)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Plot.Validate(); err != nil {
			return err
		}

		c, err := pipeline.ReadChart(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if !hasLabels(c.Labels) {
			c.Labels = nil
		}

		pl := barplot.New(cfg.Plot)
		if cfg.Plain || !pipeline.IsTTY() {
			pl.Out = cmd.OutOrStdout()
			pl.Rows, pl.Cols = chartRows, chartCols
		}
		return drawChart(pl, c, role)
	},
}

func parseRole(s string) (barplot.Role, error) {
	switch s {
	case "", "bar":
		return barplot.RoleBar, nil
	case "precipitation", "precip":
		return barplot.RolePrecipitation, nil
	default:
		return 0, fmt.Errorf("unknown --role %q (valid: bar, precipitation)", s)
	}
}

func hasLabels(labels []string) bool {
	for _, l := range labels {
		if l != "" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartRole, "role", "bar", "bar colour: bar|precipitation")
	_ = chartCmd.RegisterFlagCompletionFunc("role", fixedCompletion("bar", "precipitation"))
	chartCmd.Flags().IntVar(&chartRows, "rows", 0, "plain output height (default: $LINES, else 24)")
	chartCmd.Flags().IntVar(&chartCols, "cols", 0, "plain output width (default: $COLUMNS, else 80)")
}
