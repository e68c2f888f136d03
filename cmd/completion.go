package cmd

import (
	"github.com/spf13/cobra"
)

var completionNoDesc bool

// completionCmd wraps Cobra's built-in shell completion generator.
// Running `forecast completion bash` prints a script the user can source.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for forecast. Modes (--mode) and chart
roles (--role) complete too.

To load completions in the current shell session:

  # bash
  source <(forecast completion bash)

  # zsh
  source <(forecast completion zsh)

  # fish
  forecast completion fish | source

Persist across sessions by adding the source line to your shell profile
(~/.bashrc, ~/.zshrc, ~/.config/fish/completions/forecast.fish, etc.).`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, out := cmd.Root(), cmd.OutOrStdout()
		desc := !completionNoDesc
		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, desc)
		case "zsh":
			if desc {
				return root.GenZshCompletion(out)
			}
			return root.GenZshCompletionNoDesc(out)
		case "fish":
			return root.GenFishCompletion(out, desc)
		case "powershell":
			if desc {
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return root.GenPowerShellCompletion(out)
		default:
			return cmd.Help()
		}
	},
}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func init() {
	rootCmd.AddCommand(completionCmd)
	completionCmd.Flags().BoolVar(&completionNoDesc, "no-descriptions", false, "omit completion descriptions")
}
