package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/forecast/internal/config"
)

// Version is the canonical release string. The default here is the fallback
// for `go run` and untagged builds. Production builds overwrite this via:
//
//	go build -ldflags "-X github.com/derickschaefer/forecast/cmd.Version=v0.2.0"
var Version = "v0.1.0"

// BuildTime is optionally injected at build time alongside Version:
//
//	-ldflags "-X github.com/derickschaefer/forecast/cmd.Version=v0.2.0
//	           -X github.com/derickschaefer/forecast/cmd.BuildTime=2026-02-16T12:00:00Z"
var BuildTime = ""

// versionInfo is the structured payload for --format json output.
type versionInfo struct {
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
	BuildTime  string `json:"build_time,omitempty"`
	ConfigFile string `json:"config_file"`
}

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the forecast version and build information",
	Long: `Print the forecast version string, build metadata and the default config
file location.

Default output is plain text. Use --format json for structured output and
--short for the bare version string.`,
	Example: `  forecast version
  forecast version --short
  forecast version --format json | jq .version`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return nil
		}

		info := versionInfo{
			Version:    Version,
			GoVersion:  runtime.Version(),
			GOOS:       runtime.GOOS,
			GOARCH:     runtime.GOARCH,
			BuildTime:  BuildTime,
			ConfigFile: config.DefaultPath(),
		}

		switch globalFlags.Format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)

		case "jsonl":
			b, err := json.Marshal(info)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", b)
			return nil

		default:
			// One value per line, grep/awk friendly.
			fmt.Fprintf(out, "forecast %s\n", info.Version)
			fmt.Fprintf(out, "go       %s\n", info.GoVersion)
			fmt.Fprintf(out, "os       %s/%s\n", info.GOOS, info.GOARCH)
			if info.BuildTime != "" {
				fmt.Fprintf(out, "built    %s\n", info.BuildTime)
			}
			fmt.Fprintf(out, "config   %s\n", info.ConfigFile)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version string")
}
