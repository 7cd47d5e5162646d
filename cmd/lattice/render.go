package main

import (
	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/adapters/clipboard"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [diagram...]",
	Short: "Build diagrams and write their SVG",
	Long: `Builds the named diagrams. A single diagram is written to stdout unless
--out is given; --all renders every registered diagram into --out.`,
	Example: `  lattice render circle > circle.svg
  lattice render eigen --copy
  lattice render --all --out build/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")
		out, _ := cmd.Flags().GetString("out")
		copySVG, _ := cmd.Flags().GetBool("copy")
		parallel, _ := cmd.Flags().GetInt("parallel")

		var clip ports.Clipboard
		if copySVG && clipboard.Available() {
			clip = clipboard.System{}
		}
		return cli.Render(cmd.Context(), app.Engine, cli.RenderOptions{
			Names:    args,
			All:      all,
			OutDir:   out,
			Copy:     copySVG,
			Parallel: parallel,
			Params:   params(cmd, app),
		}, cmd.OutOrStdout(), cmd.ErrOrStderr(), clip)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("all", false, "Render every registered diagram")
	renderCmd.Flags().StringP("out", "o", "", "Directory to write <name>.svg files into")
	renderCmd.Flags().Bool("copy", false, "Copy the SVG to the system clipboard")
	renderCmd.Flags().Int("parallel", 4, "Concurrent builds with --all")
}
