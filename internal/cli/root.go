package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// Settings are loaded in PersistentPreRunE so that flags of the executing
// subcommand take part.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Barchart lays out and renders animated bar charts",
		Long:         `Barchart turns a list of values into a laid out bar chart with axes, labels and an average line, and renders it as SVG, PNG, PDF, JSON or HTML. It can also preview charts in the terminal and serve renders over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "settings file (default .barchart.{yaml,toml,json})")
	pf.String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/barchart)")
	pf.String("redis", "", "use the Redis cache at this address")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
