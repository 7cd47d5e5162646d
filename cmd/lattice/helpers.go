package main

import (
	"os"

	"github.com/spf13/cobra"
)

// stderrFile returns the command's error stream when it is a file.
func stderrFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return f
	}
	return nil
}
