package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies engine errors from failed statements.
type ErrorKind int

const (
	// KindDDL is any DDL failure not covered by a more specific kind
	// (permissions, syntax, type incompatibility). Recorded per operation,
	// never fatal on its own.
	KindDDL ErrorKind = iota

	// KindAlreadyExists means the target column or index already exists.
	// This happens when a concurrent run wins the check-then-act race; the
	// failure is benign and folded into the skipped set.
	KindAlreadyExists

	// KindTableNotFound means the statement referenced a missing table.
	KindTableNotFound

	// KindConnection is a transport-level failure. Fatal: no further
	// operations are attempted.
	KindConnection
)

func (k ErrorKind) String() string {
	switch k {
	case KindAlreadyExists:
		return "already_exists"
	case KindTableNotFound:
		return "table_not_found"
	case KindConnection:
		return "connection"
	default:
		return "ddl_execution"
	}
}

// TableNotFoundError reports that the base table a migration targets does
// not exist. Additive migrations assume the base table pre-exists, so this
// is fatal and no DDL is attempted.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q does not exist", e.Table)
}

// ConnectionError reports a transport-level failure talking to the
// database. Fatal: surfaced immediately, no further operations attempted.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err looks like a transport failure
// rather than a statement the server rejected. Used by drivers as the
// engine-independent part of ClassifyError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
