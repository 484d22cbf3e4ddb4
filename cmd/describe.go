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
	"github.com/tableshape/tableshape/internal/verifier"
)

var describeCmd = &cobra.Command{
	Use:   "describe <table>",
	Short: "Print the live shape of a table",
	Long:  `Describe reads and prints a table's columns and indexes. Read-only.`,
	Example: `  tableshape describe raw_reviews

  # JSON output against a specific database
  tableshape describe raw_reviews --db mysql://root@localhost:3306/review_analysis --format json`,
	Args: cobra.ExactArgs(1),
	Run:  runDescribe,
}

var (
	describeDB     string
	describeEnv    string
	describeFormat string
)

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringVar(&describeDB, "db", "", "Database connection string (overrides environment selection)")
	describeCmd.Flags().StringVarP(&describeEnv, "environment", "e", "", "Named environment from tableshape.toml")
	describeCmd.Flags().StringVar(&describeFormat, "format", "text", "Output format: text or json")
}

func runDescribe(cmd *cobra.Command, args []string) {
	tableName := args[0]

	connStr, err := resolveDatabaseURL(describeDB, describeEnv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	db, driver, err := executor.Open(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = db.Close() }()

	shape, err := verifier.Describe(ctx, db, driver, tableName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if describeFormat == "json" {
		jsonBytes, err := json.MarshalIndent(shape, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal shape: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return
	}

	report.RenderShape(os.Stdout, shape)
}
