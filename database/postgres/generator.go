package postgres

import (
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/database"
)

// Generator implements database.SQLGenerator for PostgreSQL
type Generator struct{}

// NewGenerator creates a new PostgreSQL SQL generator
func NewGenerator() *Generator {
	return &Generator{}
}

// AddColumn generates PostgreSQL SQL to add a column. PostgreSQL has no
// ordered-column semantics, so the after hint is ignored.
func (g *Generator) AddColumn(tableName string, col database.Column, after string) (string, string) {
	sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableName, col.Name, col.Type)
	description := fmt.Sprintf("Add column %s to table %s", col.Name, tableName)
	return sql, description
}

// CreateIndex generates PostgreSQL SQL to create an index
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
