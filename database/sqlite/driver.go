package sqlite

import (
	"strings"

	"github.com/tableshape/tableshape/database"
)

// Driver implements database.Driver for SQLite and libSQL
type Driver struct {
	*Introspector
	*Generator
}

// NewDriver creates a new SQLite driver
func NewDriver() *Driver {
	return &Driver{
		Introspector: NewIntrospector(),
		Generator:    NewGenerator(),
	}
}

// Name returns the database driver name
func (d *Driver) Name() string {
	return "sqlite"
}

// SupportsFeature checks if SQLite supports a specific feature
func (d *Driver) SupportsFeature(feature string) bool {
	switch feature {
	case database.FeatureColumnPosition:
		// ALTER TABLE ADD COLUMN always appends
		return false
	default:
		return false
	}
}

// ClassifyError maps a SQLite error onto the migration error taxonomy.
// SQLite reports schema conflicts through the message text rather than
// structured codes, so classification matches on the message.
func (d *Driver) ClassifyError(err error) database.ErrorKind {
	if database.IsConnectionError(err) {
		return database.KindConnection
	}
	if err == nil {
		return database.KindDDL
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate column name"):
		return database.KindAlreadyExists
	case strings.Contains(msg, "already exists"):
		return database.KindAlreadyExists
	case strings.Contains(msg, "no such table"):
		return database.KindTableNotFound
	default:
		return database.KindDDL
	}
}

// Ensure Driver implements database.Driver
var _ database.Driver = (*Driver)(nil)
