package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tableshape/tableshape/database"
	"github.com/tableshape/tableshape/internal/ddllint"
	"github.com/tableshape/tableshape/internal/executor"
	"github.com/tableshape/tableshape/internal/planner"
	"github.com/tableshape/tableshape/internal/runner"
	"github.com/tableshape/tableshape/internal/spec"
	"github.com/tableshape/tableshape/internal/verifier"
)

var planCmd = &cobra.Command{
	Use:   "plan [descriptor-file]",
	Short: "Compute the migration plan without executing it",
	Long: `Plan introspects the live table and prints which columns and indexes
would be added, which are already present, and the exact DDL that apply
would run. For PostgreSQL targets each generated statement is also parsed
with the PostgreSQL grammar and syntax problems are reported up front.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlan,
}

var (
	planDB     string
	planEnv    string
	planFormat string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planDB, "db", "", "Database connection string (overrides environment selection)")
	planCmd.Flags().StringVarP(&planEnv, "environment", "e", "", "Named environment from tableshape.toml")
	planCmd.Flags().StringVar(&planFormat, "format", "text", "Output format: text or json")
}

func runPlan(cmd *cobra.Command, args []string) {
	descriptorPath, err := resolveDescriptorPath(args, planEnv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	descriptor, err := spec.Load(descriptorPath)
	if err != nil {
		log.Fatalf("Failed to load descriptor: %v", err)
	}

	connStr, err := resolveDatabaseURL(planDB, planEnv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	db, driver, err := executor.Open(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := printPlan(ctx, db, driver, descriptor, planFormat); err != nil {
		log.Fatalf("%v", err)
	}
}

// planOutput is the JSON shape of the plan command's output.
type planOutput struct {
	Plan       *planner.Plan      `json:"plan"`
	Operations []runner.Operation `json:"operations,omitempty"`
	LintIssues []ddllint.Issue    `json:"lint_issues,omitempty"`
}

func printPlan(ctx context.Context, db *sql.DB, driver database.Driver, descriptor *spec.Descriptor, format string) error {
	shape, err := verifier.Describe(ctx, db, driver, descriptor.Table)
	if err != nil {
		return err
	}

	plan := planner.Build(descriptor, shape)
	ops := runner.Statements(driver, descriptor, plan)

	var issues []ddllint.Issue
	if driver.Name() == "postgres" {
		var statements []string
		for _, op := range ops {
			statements = append(statements, op.SQL)
		}
		issues = ddllint.LintPostgres(statements)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(planOutput{
			Plan:       plan,
			Operations: ops,
			LintIssues: issues,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plan: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("Plan for table %s\n", plan.Table)
	if plan.IsEmpty() {
		fmt.Println("  nothing to do")
	}
	for _, op := range ops {
		fmt.Printf("  + %s\n      %s\n", op.Description, op.SQL)
	}
	for _, skip := range plan.Skipped {
		fmt.Printf("  = %s (%s)\n", skip.Description, skip.Reason)
	}
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "  ! syntax: %s\n      %s\n", issue.Message, issue.SQL)
	}

	return nil
}
