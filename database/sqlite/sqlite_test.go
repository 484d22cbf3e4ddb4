package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tableshape/tableshape/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTableExists(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	introspector := NewIntrospector()

	exists, err := introspector.TableExists(ctx, db, "raw_reviews")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if exists {
		t.Error("Expected table to not exist yet")
	}

	if _, err := db.Exec("CREATE TABLE raw_reviews (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	exists, err = introspector.TableExists(ctx, db, "raw_reviews")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected table to exist")
	}
}

func TestDescribeTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE raw_reviews (
		id INTEGER PRIMARY KEY,
		product_name TEXT,
		product_url VARCHAR(500),
		review_key TEXT UNIQUE
	)`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec("CREATE INDEX idx_product_url ON raw_reviews (product_url)"); err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	if _, err := db.Exec("CREATE UNIQUE INDEX idx_name_url ON raw_reviews (product_name, product_url)"); err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}

	shape, err := NewIntrospector().DescribeTable(ctx, db, "raw_reviews")
	if err != nil {
		t.Fatalf("DescribeTable failed: %v", err)
	}

	if len(shape.Columns) != 4 {
		t.Errorf("Expected 4 columns, got %d: %+v", len(shape.Columns), shape.Columns)
	}
	col, ok := shape.Column("product_url")
	if !ok {
		t.Fatal("Expected product_url column")
	}
	if col.Type != "VARCHAR(500)" {
		t.Errorf("Expected declared type VARCHAR(500), got %q", col.Type)
	}

	// Only CREATE INDEX indexes; the UNIQUE constraint autoindex is skipped
	if len(shape.Indexes) != 2 {
		t.Fatalf("Expected 2 indexes, got %+v", shape.Indexes)
	}
	idx, ok := shape.Index("idx_name_url")
	if !ok {
		t.Fatal("Expected idx_name_url index")
	}
	if !idx.Unique {
		t.Error("Expected idx_name_url to be unique")
	}
	if len(idx.Columns) != 2 || idx.Columns[0] != "product_name" || idx.Columns[1] != "product_url" {
		t.Errorf("Unexpected index columns: %v", idx.Columns)
	}
}

func TestAddColumn(t *testing.T) {
	g := NewGenerator()

	sqlStr, description := g.AddColumn("raw_reviews", database.Column{
		Name: "product_url",
		Type: "VARCHAR(500)",
	}, "product_name")

	// SQLite always appends; the after hint has no SQL form
	if sqlStr != "ALTER TABLE raw_reviews ADD COLUMN product_url VARCHAR(500)" {
		t.Errorf("Unexpected SQL: %q", sqlStr)
	}
	if description != "Add column product_url to table raw_reviews" {
		t.Errorf("Unexpected description: %q", description)
	}
}

func TestCreateIndex(t *testing.T) {
	g := NewGenerator()

	sqlStr, _ := g.CreateIndex("raw_reviews", database.Index{
		Name:    "idx_product_url",
		Columns: []string{"product_url"},
	})
	if sqlStr != "CREATE INDEX idx_product_url ON raw_reviews (product_url)" {
		t.Errorf("Unexpected SQL: %q", sqlStr)
	}

	sqlStr, _ = g.CreateIndex("raw_reviews", database.Index{
		Name:    "idx_review_key",
		Columns: []string{"product_url", "product_name"},
		Unique:  true,
	})
	if sqlStr != "CREATE UNIQUE INDEX idx_review_key ON raw_reviews (product_url, product_name)" {
		t.Errorf("Unexpected SQL: %q", sqlStr)
	}
}

func TestClassifyError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	driver := NewDriver()

	if _, err := db.Exec("CREATE TABLE raw_reviews (id INTEGER PRIMARY KEY, product_url TEXT)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec("CREATE INDEX idx_product_url ON raw_reviews (product_url)"); err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}

	// Duplicate column
	_, err := db.ExecContext(ctx, "ALTER TABLE raw_reviews ADD COLUMN product_url TEXT")
	if err == nil {
		t.Fatal("Expected duplicate column DDL to fail")
	}
	if kind := driver.ClassifyError(err); kind != database.KindAlreadyExists {
		t.Errorf("Expected duplicate column to classify as already_exists, got %s", kind)
	}

	// Duplicate index
	_, err = db.ExecContext(ctx, "CREATE INDEX idx_product_url ON raw_reviews (product_url)")
	if err == nil {
		t.Fatal("Expected duplicate index DDL to fail")
	}
	if kind := driver.ClassifyError(err); kind != database.KindAlreadyExists {
		t.Errorf("Expected duplicate index to classify as already_exists, got %s", kind)
	}

	// Missing table
	_, err = db.ExecContext(ctx, "CREATE INDEX idx_x ON no_such_table (x)")
	if err == nil {
		t.Fatal("Expected DDL on a missing table to fail")
	}
	if kind := driver.ClassifyError(err); kind != database.KindTableNotFound {
		t.Errorf("Expected missing table to classify as table_not_found, got %s", kind)
	}

	// Anything else is a plain DDL failure
	_, err = db.ExecContext(ctx, "CREATE INDEX idx_y ON raw_reviews (no_such_column)")
	if err == nil {
		t.Fatal("Expected DDL on a missing column to fail")
	}
	if kind := driver.ClassifyError(err); kind != database.KindDDL {
		t.Errorf("Expected missing column to classify as ddl_execution, got %s", kind)
	}
}

func TestSupportsFeature(t *testing.T) {
	driver := NewDriver()
	if driver.SupportsFeature(database.FeatureColumnPosition) {
		t.Error("SQLite must not report column position support")
	}
}
