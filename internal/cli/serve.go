package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidechart/internal/server"
	"github.com/matzehuels/slidechart/pkg/buildinfo"
	"github.com/matzehuels/slidechart/pkg/observability"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the analysis pipeline over HTTP until interrupted.

  GET  /api/health
  GET  /api/kinds
  POST /api/analyses   {"kind", "options", "columns", "rows"}

The listen address defaults to server.addr from the config file
(SLIDECHART_SERVER_ADDR), ":8080" when unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			hooks := observability.NewLogHooks(c.Logger)
			srv := server.New(c.newRunner(), &cfg, c.Logger, hooks)

			w := cmd.ErrOrStderr()
			printInfo(w, "%s %s", StyleTitle.Render(appName+" API"), StyleDim.Render(buildinfo.Version))
			printKeyValue(w, "address", cfg.Server.Addr)
			printKeyValue(w, "total name", cfg.TotalName)

			if err := srv.ListenAndServe(cmd.Context()); err != nil {
				return err
			}
			printSuccess(w, "Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
