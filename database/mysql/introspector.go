package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/database"
)

// Introspector implements database.Introspector for MySQL
type Introspector struct{}

// NewIntrospector creates a new MySQL introspector
func NewIntrospector() *Introspector {
	return &Introspector{}
}

// TableExists reports whether the named table exists in the current database
func (i *Introspector) TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE()
		  AND TABLE_NAME = ?
	`, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return count > 0, nil
}

// DescribeTable reads the live shape of a MySQL table
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

// getColumns returns all columns for a given MySQL table in ordinal
// position order. COLUMN_TYPE keeps the length modifier, so VARCHAR(500)
// round-trips.
func (i *Introspector) getColumns(ctx context.Context, db *sql.DB, tableName string) ([]database.Column, error) {
	query := `
		SELECT COLUMN_NAME, COLUMN_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		  AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
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

// getIndexes returns all indexes for a given MySQL table with their key
// columns in index order. The PRIMARY index is excluded.
func (i *Introspector) getIndexes(ctx context.Context, db *sql.DB, tableName string) ([]database.Index, error) {
	query := `
		SELECT INDEX_NAME, NON_UNIQUE, COLUMN_NAME
		FROM INFORMATION_SCHEMA.STATISTICS
		WHERE TABLE_SCHEMA = DATABASE()
		  AND TABLE_NAME = ?
		  AND INDEX_NAME <> 'PRIMARY'
		ORDER BY INDEX_NAME, SEQ_IN_INDEX
	`

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	// Group rows by index name while preserving first-seen order
	idxMap := make(map[string]*database.Index)
	var idxNames []string

	for rows.Next() {
		var name, column string
		var nonUnique int

		if err := rows.Scan(&name, &nonUnique, &column); err != nil {
			return nil, err
		}

		if _, exists := idxMap[name]; !exists {
			idxMap[name] = &database.Index{Name: name, Unique: nonUnique == 0}
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
