package main

import (
	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [diagram...]",
	Short: "Archive built diagrams as markdown documents",
	Long: `Builds the named diagrams (all of them by default) and stores each one in
the archive directory: the solved layout as frontmatter, the SVG as body.
With --load, prints the archived SVG of a diagram instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("archive")
		if dir == "" {
			dir = app.Config.Archive.Dir
		}
		archive, err := loam.Open(dir)
		if err != nil {
			return err
		}

		if id, _ := cmd.Flags().GetString("load"); id != "" {
			return cli.Restore(cmd.Context(), archive, id, cmd.OutOrStdout())
		}
		return cli.Export(cmd.Context(), app.Engine, archive, args, params(cmd, app), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("archive", "", "Archive directory (default from config)")
	exportCmd.Flags().String("load", "", "Print the archived SVG of this diagram")
}
