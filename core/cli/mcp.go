package cli

import (
	"os"

	"smart-schedule/core/logger"
	"smart-schedule/modules/mcp"

	"github.com/spf13/cobra"
)

func newMCPCommand(cli *CLI) *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the scheduling tools over the Model Context Protocol",
		Long: `Serve find_optimal_slots, detect_scheduling_conflicts and the supporting
tools to an MCP client, over stdio (default) or streamable HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport == "" {
				transport = cli.cfg.MCP.Transport
			}
			if addr == "" {
				addr = cli.cfg.MCP.Addr
			}

			ctx, done, app, err := cli.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()

			srv := mcp.New(app.Meetings, app.Metrics, logger.Slog())
			return srv.Serve(ctx, mcp.Transport(transport), addr, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "stdio or http (default from mcp.transport)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the http transport (default from mcp.addr)")
	return cmd
}
