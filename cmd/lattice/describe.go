package main

import (
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <diagram>",
	Short: "Summarize a diagram and print its instance graph",
	Long:  `Builds the diagram and prints a markdown summary with a Mermaid graph of its instances and facts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		var render cli.ContentRenderer
		if out, ok := cmd.OutOrStdout().(*os.File); ok {
			render = tui.NewRenderer(out)
		}
		return cli.Describe(cmd.Context(), app.Engine, args[0], params(cmd, app), cmd.OutOrStdout(), render)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
