package mysql

import (
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/database"
)

// Generator implements database.SQLGenerator for MySQL
type Generator struct{}

// NewGenerator creates a new MySQL SQL generator
func NewGenerator() *Generator {
	return &Generator{}
}

// AddColumn generates MySQL SQL to add a column. MySQL has ordered-column
// semantics, so a non-empty after hint becomes an AFTER clause.
func (g *Generator) AddColumn(tableName string, col database.Column, after string) (string, string) {
	sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableName, col.Name, col.Type)
	if after != "" {
		sql += fmt.Sprintf(" AFTER %s", after)
	}
	description := fmt.Sprintf("Add column %s to table %s", col.Name, tableName)
	return sql, description
}

// CreateIndex generates MySQL SQL to create an index
func (g *Generator) CreateIndex(tableName string, idx database.Index) (string, string) {
	uniqueStr := ""
	if idx.Unique {
		uniqueStr = "UNIQUE "
	}

	sql := fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		uniqueStr, idx.Name, tableName, strings.Join(idx.Columns, ", "))

	description := fmt.Sprintf("Create index %s on table %s", idx.Name, tableName)
	return sql, description
}
