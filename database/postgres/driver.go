package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/tableshape/tableshape/database"
)

// Driver implements database.Driver for PostgreSQL
type Driver struct {
	*Introspector
	*Generator
}

// NewDriver creates a new PostgreSQL driver
func NewDriver() *Driver {
	return &Driver{
		Introspector: NewIntrospector(),
		Generator:    NewGenerator(),
	}
}

// Name returns the database driver name
func (d *Driver) Name() string {
	return "postgres"
}

// SupportsFeature checks if PostgreSQL supports a specific feature
func (d *Driver) SupportsFeature(feature string) bool {
	switch feature {
	case database.FeatureColumnPosition:
		// PostgreSQL appends new columns; there is no AFTER clause
		return false
	default:
		return false
	}
}

// ClassifyError maps a PostgreSQL error onto the migration error taxonomy
// using SQLSTATE codes.
func (d *Driver) ClassifyError(err error) database.ErrorKind {
	if database.IsConnectionError(err) {
		return database.KindConnection
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42701": // duplicate_column
			return database.KindAlreadyExists
		case "42P07", "42710": // duplicate_table (also indexes), duplicate_object
			return database.KindAlreadyExists
		case "42P01": // undefined_table
			return database.KindTableNotFound
		}
		// Class 08 covers connection exceptions surfaced as server errors
		if pqErr.Code.Class() == "08" {
			return database.KindConnection
		}
	}

	return database.KindDDL
}

// Ensure Driver implements database.Driver
var _ database.Driver = (*Driver)(nil)
