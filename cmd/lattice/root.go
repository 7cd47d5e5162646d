package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice builds interactive mathematical diagrams",
	Long: `Lattice lays out diagrams declared as types, predicates and style rules,
solving their constraints numerically and emitting interactive SVG.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a lattice.yaml (default $LATTICE_CONFIG)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log build events to stderr")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed for initial layouts (overrides config)")
	rootCmd.PersistentFlags().Float64("width", 0, "Canvas width (overrides config)")
	rootCmd.PersistentFlags().Float64("height", 0, "Canvas height (overrides config)")
	rootCmd.PersistentFlags().Int("satellites", 0, "Satellites in the circle diagram (overrides config)")
}

// loadApp reads the persistent flags and builds the application.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(path, debug)
}

// params applies the persistent overrides to the configured parameters.
func params(cmd *cobra.Command, app *cli.App) gallery.Params {
	p := app.Engine.Params()
	flags := cmd.Flags()
	if flags.Changed("seed") {
		p.Canvas.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("width") {
		p.Canvas.Width, _ = flags.GetFloat64("width")
	}
	if flags.Changed("height") {
		p.Canvas.Height, _ = flags.GetFloat64("height")
	}
	if flags.Changed("satellites") {
		p.Satellites, _ = flags.GetInt("satellites")
	}
	return p
}
