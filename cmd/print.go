package cmd

import (
	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/config"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print current conditions",
	Long: `Print the current conditions for the configured location.

Temperatures are shown in °C and wind speeds in km/h whatever the units
requested from the API. Use --format json for machine-readable output.`,
	Example: `  forecast print
  forecast print --location 40.71:-74.01 --format json
  forecast print hourly`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, config.OpPrint)
	},
}

var printHourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Print the hourly outlook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, config.OpPrintHourly)
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.AddCommand(printHourlyCmd)
}
