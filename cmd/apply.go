package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tableshape/tableshape/internal/executor"
	"github.com/tableshape/tableshape/internal/report"
	"github.com/tableshape/tableshape/internal/runner"
	"github.com/tableshape/tableshape/internal/spec"
	"github.com/tableshape/tableshape/internal/verifier"
)

var applyCmd = &cobra.Command{
	Use:   "apply [descriptor-file]",
	Short: "Apply a descriptor to its table, adding whatever is missing",
	Long: `Apply reads the live table, computes which declared columns and indexes
are missing, and issues only that DDL. Re-running with the same descriptor
is safe: everything already present is reported as skipped.`,
	Example: `  # Apply the configured descriptor to the default environment
  tableshape apply

  # Apply a specific descriptor to a specific database
  tableshape apply descriptor.toml --db postgres://localhost:5432/app

  # Show the DDL without executing it
  tableshape apply descriptor.toml --dry-run`,
	Args: cobra.MaximumNArgs(1),
	Run:  runApply,
}

var (
	applyDB     string
	applyEnv    string
	applyFormat string
	applyDryRun bool
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyDB, "db", "", "Database connection string (overrides environment selection)")
	applyCmd.Flags().StringVarP(&applyEnv, "environment", "e", "", "Named environment from tableshape.toml")
	applyCmd.Flags().StringVar(&applyFormat, "format", "text", "Output format: text or json")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be executed without applying changes")
}

func runApply(cmd *cobra.Command, args []string) {
	descriptorPath, err := resolveDescriptorPath(args, applyEnv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	descriptor, err := spec.Load(descriptorPath)
	if err != nil {
		log.Fatalf("Failed to load descriptor: %v", err)
	}

	connStr, err := resolveDatabaseURL(applyDB, applyEnv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	db, driver, err := executor.Open(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = db.Close() }()

	if applyDryRun {
		if err := printPlan(ctx, db, driver, descriptor, applyFormat); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	result, err := runner.Apply(ctx, db, driver, descriptor)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if applyFormat == "json" {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal result: %v", err)
		}
		fmt.Println(string(jsonBytes))
	} else {
		report.Render(os.Stdout, result)

		// Closing verification: show the resulting table definition
		shape, err := verifier.Describe(ctx, db, driver, descriptor.Table)
		if err != nil {
			log.Fatalf("Post-migration verification failed: %v", err)
		}
		fmt.Println()
		report.RenderShape(os.Stdout, shape)
	}

	if !result.Clean() {
		os.Exit(1)
	}
}
