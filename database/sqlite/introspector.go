package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/database"
)

// Introspector implements database.Introspector for SQLite. It also serves
// libSQL connections, which speak the same PRAGMA surface.
type Introspector struct{}

// NewIntrospector creates a new SQLite introspector
func NewIntrospector() *Introspector {
	return &Introspector{}
}

// TableExists reports whether the named table exists
func (i *Introspector) TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM sqlite_master
		WHERE type = 'table'
		AND name = ?
	`, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return count > 0, nil
}

// DescribeTable reads the live shape of a SQLite table
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

// getColumns returns all columns for a given SQLite table
func (i *Introspector) getColumns(ctx context.Context, db *sql.DB, tableName string) ([]database.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", tableName)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []database.Column
	for rows.Next() {
		var cid int
		var col database.Column
		var notNull int
		var defaultVal sql.NullString
		var pk int

		// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// getIndexes returns all indexes for a given SQLite table. Auto-created
// indexes (primary key, unique constraints) are skipped.
func (i *Introspector) getIndexes(ctx context.Context, db *sql.DB, tableName string) ([]database.Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", tableName)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var indexes []database.Index
	for rows.Next() {
		var seq int
		var idx database.Index
		var origin string
		var partial int
		var unique int

		// PRAGMA index_list returns: seq, name, unique, origin, partial
		if err := rows.Scan(&seq, &idx.Name, &unique, &origin, &partial); err != nil {
			return nil, err
		}

		idx.Unique = unique == 1

		// Only keep indexes created with CREATE INDEX
		if origin != "c" || strings.HasPrefix(idx.Name, "sqlite_autoindex") {
			continue
		}

		columns, err := i.getIndexColumns(ctx, db, idx.Name)
		if err != nil {
			return nil, err
		}
		idx.Columns = columns

		indexes = append(indexes, idx)
	}

	return indexes, rows.Err()
}

// getIndexColumns returns the key columns of an index in index order
func (i *Introspector) getIndexColumns(ctx context.Context, db *sql.DB, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", indexName)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString

		// PRAGMA index_info returns: seqno, cid, name
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}

		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	return columns, rows.Err()
}
