package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tableshape",
	Short: "Tableshape applies idempotent additive schema migrations.",
	Long: `Tableshape brings a table's column and index set up to a declared target
shape: it adds what is missing, skips what already exists, and reports the
resulting definition. It never removes or narrows existing structure.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
