package main

import (
	"context"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the gallery page, the diagram API and Prometheus metrics.
Rendered markup is cached in memory or Redis as configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")

		if tui.IsTerminal(stderrFile(cmd)) {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		sm := runner.NewSignalManager(parent)
		defer sm.Stop()
		return cli.Serve(sm.Context(), app, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
