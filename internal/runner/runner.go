// Package runner applies a descriptor to a live table: introspect, compute
// the delta, issue only the missing DDL, and report per-operation outcomes.
//
// The contract is idempotence: re-running Apply with an unchanged
// descriptor against an already-migrated table produces an empty applied
// set with every operation in skipped.
package runner

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tableshape/tableshape/database"
	"github.com/tableshape/tableshape/internal/planner"
	"github.com/tableshape/tableshape/internal/spec"
	"github.com/tableshape/tableshape/internal/verifier"
)

// Operation identifies one DDL operation by kind, target name, and the
// statement that was (or would be) issued.
type Operation struct {
	Kind        planner.OpKind `json:"kind"`
	Name        string         `json:"name"`
	SQL         string         `json:"sql,omitempty"`
	Description string         `json:"description"`
}

// SkippedOperation is an operation that needed no DDL, with the reason.
type SkippedOperation struct {
	Operation
	Reason string `json:"reason"`
}

// FailedOperation is an operation whose DDL the engine rejected.
type FailedOperation struct {
	Operation
	ErrorKind string `json:"error_kind"`
	Error     string `json:"error"`
}

// Result aggregates the outcome of one Apply invocation. It does not
// outlive the call; the sole durable side effect is the mutated table.
type Result struct {
	Table   string             `json:"table"`
	Applied []Operation        `json:"applied"`
	Skipped []SkippedOperation `json:"skipped"`
	Failed  []FailedOperation  `json:"failed"`
}

// Clean reports whether every operation either applied or was skipped.
func (r *Result) Clean() bool {
	return len(r.Failed) == 0
}

// Apply brings the descriptor's table up to the target shape. Column
// additions execute first, in descriptor order, so a later column's After
// hint can reference an earlier one added in the same run; index creations
// follow, also in descriptor order.
//
// Each operation is wrapped individually: a DDL failure is recorded and
// execution continues. Only structural conditions are fatal — a missing
// base table (*database.TableNotFoundError, no DDL issued) or a transport
// failure (*database.ConnectionError, remaining operations abandoned).
func Apply(ctx context.Context, db *sql.DB, driver database.Driver, d *spec.Descriptor) (*Result, error) {
	shape, err := verifier.Describe(ctx, db, driver, d.Table)
	if err != nil {
		return nil, err
	}

	plan := planner.Build(d, shape)

	result := &Result{Table: d.Table}
	for _, skip := range plan.Skipped {
		result.Skipped = append(result.Skipped, SkippedOperation{
			Operation: Operation{
				Kind:        skip.Kind,
				Name:        skip.Name,
				Description: skip.Description,
			},
			Reason: string(skip.Reason),
		})
	}

	for _, col := range plan.AddColumns {
		op := columnOperation(driver, d.Table, col)
		if err := execute(ctx, db, driver, op, result); err != nil {
			return result, err
		}
	}

	for _, idx := range plan.AddIndexes {
		op := indexOperation(driver, d.Table, idx)
		if err := execute(ctx, db, driver, op, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// execute runs one DDL statement and files the outcome. A benign
// already-exists failure — another run won the check-then-act race between
// introspection and execution — is folded into skipped, preserving the
// idempotence contract under concurrent use. Connection loss aborts.
func execute(ctx context.Context, db *sql.DB, driver database.Driver, op Operation, result *Result) error {
	_, err := db.ExecContext(ctx, op.SQL)
	if err == nil {
		result.Applied = append(result.Applied, op)
		return nil
	}

	switch kind := driver.ClassifyError(err); kind {
	case database.KindAlreadyExists:
		result.Skipped = append(result.Skipped, SkippedOperation{
			Operation: op,
			Reason:    "already exists",
		})
		return nil
	case database.KindConnection:
		return &database.ConnectionError{Err: fmt.Errorf("%s: %w", op.Description, err)}
	default:
		result.Failed = append(result.Failed, FailedOperation{
			Operation: op,
			ErrorKind: kind.String(),
			Error:     err.Error(),
		})
		return nil
	}
}

func columnOperation(driver database.Driver, table string, col spec.ColumnSpec) Operation {
	after := col.After
	if !driver.SupportsFeature(database.FeatureColumnPosition) {
		after = ""
	}

	sqlStr, description := driver.AddColumn(table, database.Column{
		Name: col.Name,
		Type: col.Type,
	}, after)

	return Operation{
		Kind:        planner.OpAddColumn,
		Name:        col.Name,
		SQL:         sqlStr,
		Description: description,
	}
}

func indexOperation(driver database.Driver, table string, idx spec.IndexSpec) Operation {
	sqlStr, description := driver.CreateIndex(table, database.Index{
		Name:    idx.Name,
		Columns: idx.Columns,
		Unique:  idx.Unique,
	})

	return Operation{
		Kind:        planner.OpCreateIndex,
		Name:        idx.Name,
		SQL:         sqlStr,
		Description: description,
	}
}

// Statements generates the DDL a plan would execute, without touching the
// database. Used by the plan command and dry runs.
func Statements(driver database.Driver, d *spec.Descriptor, plan *planner.Plan) []Operation {
	var ops []Operation
	for _, col := range plan.AddColumns {
		ops = append(ops, columnOperation(driver, d.Table, col))
	}
	for _, idx := range plan.AddIndexes {
		ops = append(ops, indexOperation(driver, d.Table, idx))
	}
	return ops
}
