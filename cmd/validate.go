package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tableshape/tableshape/internal/spec"
)

var validateCmd = &cobra.Command{
	Use:   "validate <descriptor-file>",
	Short: "Validate a descriptor file without touching any database",
	Long: `Validate parses a .toml or .json descriptor and checks its structure:
non-empty names and types, unique index names, indexes that reference at
least one column. JSON descriptors are additionally checked against the
descriptor JSON Schema.`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	descriptor, err := spec.Load(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("%s is valid: table %s, %d column(s), %d index(es)\n",
		args[0], descriptor.Table, len(descriptor.Columns), len(descriptor.Indexes))
}
