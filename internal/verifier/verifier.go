// Package verifier reads live table metadata. It is both the post-migration
// confirmation step and the introspection primitive the runner starts from.
package verifier

import (
	"context"
	"database/sql"

	"github.com/tableshape/tableshape/database"
)

// Describe returns the live shape of a table. Pure read, no mutation.
// Returns *database.TableNotFoundError when the table does not exist.
func Describe(ctx context.Context, db *sql.DB, driver database.Driver, tableName string) (*database.TableShape, error) {
	exists, err := driver.TableExists(ctx, db, tableName)
	if err != nil {
		if driver.ClassifyError(err) == database.KindConnection {
			return nil, &database.ConnectionError{Err: err}
		}
		return nil, err
	}
	if !exists {
		return nil, &database.TableNotFoundError{Table: tableName}
	}

	return driver.DescribeTable(ctx, db, tableName)
}
