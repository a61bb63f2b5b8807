package cli

import (
	"strings"

	"github.com/spf13/cobra"

	chartio "github.com/matzehuels/barchart/pkg/io"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for barchart.

Besides subcommands and flags, the scripts complete chart files
(.toml, .yaml, .yml, .json) for render, layout and preview, output formats
for render -f (comma-separated lists included) and --measurer names.

Bash:
  $ source <(barchart completion bash)
  $ barchart completion bash > /etc/bash_completion.d/barchart

Zsh:
  $ barchart completion zsh > "${fpath[1]}/_barchart"

Fish:
  $ barchart completion fish > ~/.config/fish/completions/barchart.fish

PowerShell:
  PS> barchart completion powershell | Out-String | Invoke-Expression`,
		Example: `  barchart render week.toml -f svg,<TAB>    # png pdf json html
  barchart layout <TAB>                    # chart files only`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeChartFile offers chart definition files for the single
// positional argument.
func completeChartFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return chartio.Extensions(), cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last entry of a comma-separated format
// list, skipping formats already listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := parseFormats(prefix)
	if prefix == "" {
		chosen = nil
	}

	var out []string
	for _, f := range pipeline.ValidFormats {
		if !containsFormat(chosen, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func completeMeasurers(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return pipeline.ValidMeasurers, cobra.ShellCompDirectiveNoFileComp
}
