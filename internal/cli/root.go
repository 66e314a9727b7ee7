package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidechart/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --config: config file (TOML or YAML); see package config for the lookup
//   - --verbose (-v): debug logging, overriding the configured level
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "slidechart turns tables into chart data for slides",
		Long: `slidechart reads CSV, XLSX or JSON tables and produces chart-ready data:
price-volume-mix bridges for waterfall charts, stacked bars with an inserted
total, dumbbell comparisons and categorical comparisons. Output is a plotly figure (JSON) or the
underlying table.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $SLIDECHART_CONFIG_DIR/config.toml or ~/.config/slidechart/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.bridgeCommand())
	root.AddCommand(c.totalCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.categoricalCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
