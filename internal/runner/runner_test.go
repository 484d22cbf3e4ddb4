package runner

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tableshape/tableshape/database"
	"github.com/tableshape/tableshape/database/sqlite"
	"github.com/tableshape/tableshape/internal/planner"
	"github.com/tableshape/tableshape/internal/spec"
	"github.com/tableshape/tableshape/internal/verifier"
)

// openTestDB opens a file-backed SQLite database. In-memory databases are
// per-connection under the database/sql pool, so a file keeps every query
// in the test against the same schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createRawReviews(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`CREATE TABLE raw_reviews (
		id INTEGER PRIMARY KEY,
		product_name TEXT,
		rating INTEGER
	)`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
}

func rawReviewsDescriptor(t *testing.T) *spec.Descriptor {
	t.Helper()

	d, err := spec.New("raw_reviews",
		[]spec.ColumnSpec{{Name: "product_url", Type: "VARCHAR(500)", After: "product_name"}},
		[]spec.IndexSpec{
			{Name: "idx_product_url", Columns: []string{"product_url"}},
			{Name: "idx_product_name", Columns: []string{"product_name"}},
		})
	if err != nil {
		t.Fatalf("Failed to build descriptor: %v", err)
	}
	return d
}

func TestApply_FirstRun(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	driver := sqlite.NewDriver()

	result, err := Apply(ctx, db, driver, rawReviewsDescriptor(t))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !result.Clean() {
		t.Fatalf("Expected a clean result, got failures: %+v", result.Failed)
	}
	if len(result.Applied) != 3 {
		t.Fatalf("Expected 3 applied operations, got %d: %+v", len(result.Applied), result.Applied)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("Expected nothing skipped on first run, got %+v", result.Skipped)
	}

	shape, err := verifier.Describe(ctx, db, driver, "raw_reviews")
	if err != nil {
		t.Fatalf("Describe failed after migration: %v", err)
	}
	if _, ok := shape.Column("product_url"); !ok {
		t.Error("Expected product_url column after migration")
	}
	if _, ok := shape.Index("idx_product_url"); !ok {
		t.Error("Expected idx_product_url index after migration")
	}
	if _, ok := shape.Index("idx_product_name"); !ok {
		t.Error("Expected idx_product_name index after migration")
	}
}

func TestApply_SecondRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	driver := sqlite.NewDriver()
	d := rawReviewsDescriptor(t)

	if _, err := Apply(ctx, db, driver, d); err != nil {
		t.Fatalf("First Apply failed: %v", err)
	}

	result, err := Apply(ctx, db, driver, d)
	if err != nil {
		t.Fatalf("Second Apply failed: %v", err)
	}

	if len(result.Applied) != 0 {
		t.Errorf("Expected no applied operations on second run, got %+v", result.Applied)
	}
	if len(result.Skipped) != 3 {
		t.Errorf("Expected 3 skipped operations on second run, got %d", len(result.Skipped))
	}
	if !result.Clean() {
		t.Errorf("Expected a clean result, got failures: %+v", result.Failed)
	}
}

func TestApply_TableNotFound(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	driver := sqlite.NewDriver()

	result, err := Apply(ctx, db, driver, rawReviewsDescriptor(t))
	if result != nil {
		t.Errorf("Expected no result when the table is missing, got %+v", result)
	}

	var notFound *database.TableNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected TableNotFoundError, got %T: %v", err, err)
	}
	if notFound.Table != "raw_reviews" {
		t.Errorf("Expected table 'raw_reviews' in error, got %q", notFound.Table)
	}
}

func TestApply_PreexistingIndexSkipped(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	if _, err := db.Exec("CREATE INDEX idx_product_name ON raw_reviews (product_name)"); err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	driver := sqlite.NewDriver()

	result, err := Apply(ctx, db, driver, rawReviewsDescriptor(t))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(result.Applied) != 2 {
		t.Errorf("Expected 2 applied operations, got %+v", result.Applied)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("Expected 1 skipped operation, got %+v", result.Skipped)
	}
	skip := result.Skipped[0]
	if skip.Name != "idx_product_name" || skip.Reason != "already present" {
		t.Errorf("Unexpected skip: %+v", skip)
	}
}

func TestApply_TypeMismatchSkippedNotCorrected(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	if _, err := db.Exec("ALTER TABLE raw_reviews ADD COLUMN product_url TEXT"); err != nil {
		t.Fatalf("Failed to add column: %v", err)
	}
	driver := sqlite.NewDriver()

	result, err := Apply(ctx, db, driver, rawReviewsDescriptor(t))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	var mismatch *SkippedOperation
	for i := range result.Skipped {
		if result.Skipped[i].Name == "product_url" {
			mismatch = &result.Skipped[i]
		}
	}
	if mismatch == nil {
		t.Fatalf("Expected product_url in skipped, got %+v", result.Skipped)
	}
	if mismatch.Reason != "type mismatch" {
		t.Errorf("Expected reason 'type mismatch', got %q", mismatch.Reason)
	}

	// The live type must be left alone
	shape, err := verifier.Describe(ctx, db, driver, "raw_reviews")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	col, ok := shape.Column("product_url")
	if !ok {
		t.Fatal("Expected product_url column to still exist")
	}
	if col.Type != "TEXT" {
		t.Errorf("Expected live type TEXT to be untouched, got %q", col.Type)
	}
}

func TestApply_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	driver := sqlite.NewDriver()

	d, err := spec.New("raw_reviews",
		[]spec.ColumnSpec{{Name: "product_url", Type: "VARCHAR(500)"}},
		[]spec.IndexSpec{
			{Name: "idx_bogus", Columns: []string{"no_such_column"}},
			{Name: "idx_product_name", Columns: []string{"product_name"}},
		})
	if err != nil {
		t.Fatalf("Failed to build descriptor: %v", err)
	}

	result, err := Apply(ctx, db, driver, d)
	if err != nil {
		t.Fatalf("Apply should not fail outright on a DDL error: %v", err)
	}

	if result.Clean() {
		t.Fatal("Expected the result to report a failure")
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Expected 1 failed operation, got %+v", result.Failed)
	}
	failed := result.Failed[0]
	if failed.Name != "idx_bogus" {
		t.Errorf("Expected idx_bogus to fail, got %q", failed.Name)
	}
	if failed.ErrorKind != "ddl_execution" {
		t.Errorf("Expected error kind 'ddl_execution', got %q", failed.ErrorKind)
	}

	// The failure must not stop the operations after it
	if len(result.Applied) != 2 {
		t.Errorf("Expected the column and the later index to apply, got %+v", result.Applied)
	}
	shape, err := verifier.Describe(ctx, db, driver, "raw_reviews")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if _, ok := shape.Index("idx_product_name"); !ok {
		t.Error("Expected idx_product_name despite the earlier failure")
	}
}

// staleDriver simulates a run whose introspection went stale: DescribeTable
// reports the shape from before a concurrent run created idx_product_name.
type staleDriver struct {
	database.Driver
	hideIndex string
}

func (s *staleDriver) DescribeTable(ctx context.Context, db *sql.DB, tableName string) (*database.TableShape, error) {
	shape, err := s.Driver.DescribeTable(ctx, db, tableName)
	if err != nil {
		return nil, err
	}
	kept := shape.Indexes[:0]
	for _, idx := range shape.Indexes {
		if idx.Name != s.hideIndex {
			kept = append(kept, idx)
		}
	}
	shape.Indexes = kept
	return shape, nil
}

func TestApply_LostRaceFoldsIntoSkipped(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	if _, err := db.Exec("CREATE INDEX idx_product_name ON raw_reviews (product_name)"); err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	driver := &staleDriver{Driver: sqlite.NewDriver(), hideIndex: "idx_product_name"}

	result, err := Apply(ctx, db, driver, rawReviewsDescriptor(t))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !result.Clean() {
		t.Fatalf("Expected a lost race to stay clean, got failures: %+v", result.Failed)
	}

	var raced *SkippedOperation
	for i := range result.Skipped {
		if result.Skipped[i].Name == "idx_product_name" {
			raced = &result.Skipped[i]
		}
	}
	if raced == nil {
		t.Fatalf("Expected idx_product_name in skipped, got %+v", result.Skipped)
	}
	if raced.Reason != "already exists" {
		t.Errorf("Expected reason 'already exists', got %q", raced.Reason)
	}
}

func TestApply_PreservesExistingSchema(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	if _, err := db.Exec("ALTER TABLE raw_reviews ADD COLUMN reviewer TEXT"); err != nil {
		t.Fatalf("Failed to add column: %v", err)
	}
	if _, err := db.Exec("INSERT INTO raw_reviews (product_name, rating, reviewer) VALUES ('widget', 5, 'pat')"); err != nil {
		t.Fatalf("Failed to insert row: %v", err)
	}
	driver := sqlite.NewDriver()

	if _, err := Apply(ctx, db, driver, rawReviewsDescriptor(t)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Columns outside the descriptor and existing rows survive
	shape, err := verifier.Describe(ctx, db, driver, "raw_reviews")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if _, ok := shape.Column("reviewer"); !ok {
		t.Error("Expected undeclared reviewer column to survive")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM raw_reviews WHERE rating = 5").Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected existing row to survive, got count %d", count)
	}
}

func TestStatements_GeneratesWithoutExecuting(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createRawReviews(t, db)
	driver := sqlite.NewDriver()
	d := rawReviewsDescriptor(t)

	shape, err := verifier.Describe(ctx, db, driver, "raw_reviews")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	ops := Statements(driver, d, planner.Build(d, shape))
	if len(ops) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(ops))
	}
	for _, op := range ops {
		if op.SQL == "" {
			t.Errorf("Expected SQL for %s, got empty string", op.Name)
		}
	}

	// Nothing was executed
	shape, err = verifier.Describe(ctx, db, driver, "raw_reviews")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if _, ok := shape.Column("product_url"); ok {
		t.Error("Expected Statements to leave the table unmodified")
	}
}
