package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smart-schedule/core/config"
	"smart-schedule/core/logger"
	"smart-schedule/core/server"

	"github.com/spf13/cobra"
)

type CLI struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand wires every subcommand under smart-schedule.
func NewRootCommand() *cobra.Command {
	cli := &CLI{}

	rootCmd := &cobra.Command{
		Use:           "smart-schedule",
		Short:         "Meeting slot recommendations and scheduling conflict detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cli.configPath)
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)
			cli.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (yaml, json or toml)")

	rootCmd.AddCommand(newServeCommand(cli))
	rootCmd.AddCommand(newMCPCommand(cli))
	rootCmd.AddCommand(newWorkerCommand(cli))
	rootCmd.AddCommand(newTokenCommand(cli))
	rootCmd.AddCommand(newSeedCommand(cli))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		logger.Error("CLI:Execute", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap builds the app and a context cancelled on SIGINT/SIGTERM.
func (c *CLI) bootstrap(cmd *cobra.Command) (context.Context, context.CancelFunc, *server.App, error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	app, err := server.Bootstrap(ctx, c.cfg)
	if err != nil {
		stop()
		return nil, nil, nil, err
	}
	return ctx, func() {
		stop()
		if err := app.Close(); err != nil {
			logger.Warn("CLI:Close", "error", err)
		}
	}, app, nil
}

func newServeCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done, app, err := cli.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()
			return server.Run(ctx, app)
		},
	}
}
