package cmd

import (
	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/config"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw a forecast as a bar plot",
	Long: `Draw part of the forecast as a bar plot.

The plot fills the terminal and stays until a key is pressed. With --plain,
or when stdout is not a terminal, the plot is printed as text sized from
$LINES and $COLUMNS. With --format jsonl the plotted series is written as
JSON lines instead, ready to be piped into 'forecast chart'.`,
	Example: `  forecast plot daily
  forecast plot hourly --location 48.85:2.35
  forecast plot precip-daily --plain
  forecast plot hourly --format jsonl | forecast chart --plain`,
}

// plotSubcommand builds a plot subcommand that runs op.
func plotSubcommand(use, short, op string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, op)
		},
	}
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.AddCommand(
		plotSubcommand("hourly", "Hourly temperature (°C)", config.OpPlotHourly),
		plotSubcommand("daily", "Daily maximum temperature over the daily minimum (°C)", config.OpPlotDaily),
		plotSubcommand("precip-hourly", "Hourly precipitation probability (%)", config.OpPlotPrecipHourly),
		plotSubcommand("precip-daily", "Daily precipitation probability (%)", config.OpPlotPrecipDaily),
		plotSubcommand("daylight", "Sunrise to sunset for each day of the week", config.OpPlotDaylight),
	)
}
