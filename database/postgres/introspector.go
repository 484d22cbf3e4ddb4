package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/database"
)

// Introspector implements database.Introspector for PostgreSQL
type Introspector struct{}

// NewIntrospector creates a new PostgreSQL introspector
func NewIntrospector() *Introspector {
	return &Introspector{}
}

// TableExists reports whether the named table exists in the current schema
func (i *Introspector) TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = current_schema()
			  AND table_type = 'BASE TABLE'
			  AND table_name = $1
		)
	`

	var exists bool
	if err := db.QueryRowContext(ctx, query, tableName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return exists, nil
}

// DescribeTable reads the live shape of a PostgreSQL table
func (i *Introspector) DescribeTable(ctx context.Context, db *sql.DB, tableName string) (*database.TableShape, error) {
	shape := &database.TableShape{Name: tableName}

	columns, err := i.getColumns(ctx, db, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	shape.Columns = columns

	indexes, err := i.getIndexes(ctx, db, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get indexes for table %s: %w", tableName, err)
	}
	shape.Indexes = indexes

	return shape, nil
}

// getColumns returns all columns for a given PostgreSQL table, in ordinal
// position order. The type expression includes the length modifier so that
// declarations like VARCHAR(500) round-trip.
func (i *Introspector) getColumns(ctx context.Context, db *sql.DB, tableName string) ([]database.Column, error) {
	query := `
		SELECT
			a.attname,
			pg_catalog.format_type(a.atttypid, a.atttypmod)
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = current_schema()
		  AND c.relname = $1
		  AND a.attnum > 0
		  AND NOT a.attisdropped
		ORDER BY a.attnum
	`

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []database.Column
	for rows.Next() {
		var col database.Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, err
		}
		col.Type = strings.TrimSpace(col.Type)
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// getIndexes returns all indexes for a given PostgreSQL table, with their
// key columns in index order. Excludes the primary key index and indexes
// backing PRIMARY KEY or UNIQUE constraints.
func (i *Introspector) getIndexes(ctx context.Context, db *sql.DB, tableName string) ([]database.Index, error) {
	query := `
		SELECT
			ic.relname,
			ix.indisunique,
			a.attname
		FROM pg_catalog.pg_index ix
		JOIN pg_catalog.pg_class t ON t.oid = ix.indrelid
		JOIN pg_catalog.pg_class ic ON ic.oid = ix.indexrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
		CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = current_schema()
		  AND t.relname = $1
		  AND NOT ix.indisprimary
		  AND NOT EXISTS (
			SELECT 1
			FROM pg_catalog.pg_constraint con
			WHERE con.conindid = ix.indexrelid
			  AND con.contype IN ('p', 'u')
		  )
		ORDER BY ic.relname, k.ord
	`

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("index query failed for table %q: %w", tableName, err)
	}
	defer func() { _ = rows.Close() }()

	// Group rows by index name while preserving first-seen order
	idxMap := make(map[string]*database.Index)
	var idxNames []string

	for rows.Next() {
		var name, column string
		var unique bool

		if err := rows.Scan(&name, &unique, &column); err != nil {
			return nil, err
		}

		if _, exists := idxMap[name]; !exists {
			idxMap[name] = &database.Index{Name: name, Unique: unique}
			idxNames = append(idxNames, name)
		}
		idxMap[name].Columns = append(idxMap[name].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var indexes []database.Index
	for _, name := range idxNames {
		indexes = append(indexes, *idxMap[name])
	}

	return indexes, nil
}
