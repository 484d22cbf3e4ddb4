package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/tableshape/tableshape/database"
)

// MySQL server error numbers relevant to additive DDL.
const (
	errDupFieldName = 1060 // ER_DUP_FIELDNAME: duplicate column name
	errDupKeyName   = 1061 // ER_DUP_KEYNAME: duplicate index name
	errNoSuchTable  = 1146 // ER_NO_SUCH_TABLE
)

// Driver implements database.Driver for MySQL
type Driver struct {
	*Introspector
	*Generator
}

// NewDriver creates a new MySQL driver
func NewDriver() *Driver {
	return &Driver{
		Introspector: NewIntrospector(),
		Generator:    NewGenerator(),
	}
}

// Name returns the database driver name
func (d *Driver) Name() string {
	return "mysql"
}

// SupportsFeature checks if MySQL supports a specific feature
func (d *Driver) SupportsFeature(feature string) bool {
	switch feature {
	case database.FeatureColumnPosition:
		return true
	default:
		return false
	}
}

// ClassifyError maps a MySQL error onto the migration error taxonomy using
// server error numbers.
func (d *Driver) ClassifyError(err error) database.ErrorKind {
	if errors.Is(err, mysql.ErrInvalidConn) || database.IsConnectionError(err) {
		return database.KindConnection
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDupFieldName, errDupKeyName:
			return database.KindAlreadyExists
		case errNoSuchTable:
			return database.KindTableNotFound
		}
	}

	return database.KindDDL
}

// Ensure Driver implements database.Driver
var _ database.Driver = (*Driver)(nil)
