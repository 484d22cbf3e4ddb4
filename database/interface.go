package database

import (
	"context"
	"database/sql"
	"strings"
)

// Column is a single column of a table: its name and the engine's type
// expression for it.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Index is a named index over an ordered list of columns.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

// TableShape is the introspected, live description of a table's columns and
// indexes at a point in time. It is produced only by reading the database,
// never hand-constructed.
type TableShape struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Indexes []Index  `json:"indexes"`
}

// Column looks up a column by name. Matching is case-insensitive, following
// typical storage-engine identifier folding.
func (s *TableShape) Column(name string) (*Column, bool) {
	for i := range s.Columns {
		if strings.EqualFold(s.Columns[i].Name, name) {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

// Index looks up an index by name, case-insensitively.
func (s *TableShape) Index(name string) (*Index, bool) {
	for i := range s.Indexes {
		if strings.EqualFold(s.Indexes[i].Name, name) {
			return &s.Indexes[i], true
		}
	}
	return nil, false
}

// Introspector defines the interface for reading live table metadata
type Introspector interface {
	// TableExists reports whether the named table exists
	TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error)

	// DescribeTable reads the live shape of a table: its ordered columns
	// and its indexes
	DescribeTable(ctx context.Context, db *sql.DB, tableName string) (*TableShape, error)
}

// SQLGenerator defines the interface for generating database-specific DDL
type SQLGenerator interface {
	// AddColumn generates SQL to add a column to a table. The after hint
	// names an existing column to place the new one behind; generators for
	// engines without ordered-column semantics ignore it.
	AddColumn(tableName string, col Column, after string) (sql string, description string)

	// CreateIndex generates SQL to create an index on a table
	CreateIndex(tableName string, idx Index) (sql string, description string)
}

// FeatureColumnPosition marks engines that honor an AFTER placement hint on
// ALTER TABLE ... ADD COLUMN.
const FeatureColumnPosition = "column_position"

// Driver represents a database driver with introspection, SQL generation,
// and engine-error classification
type Driver interface {
	Introspector
	SQLGenerator

	// Name returns the database driver name (e.g., "postgres", "sqlite")
	Name() string

	// SupportsFeature checks if the database supports a specific feature
	SupportsFeature(feature string) bool

	// ClassifyError maps an engine error from a failed DDL statement onto
	// the migration error taxonomy
	ClassifyError(err error) ErrorKind
}
