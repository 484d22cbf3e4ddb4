// Package planner computes the delta between a descriptor and the live
// shape of its table. The resulting plan is created fresh on every run and
// discarded after execution; it is never persisted.
package planner

import (
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/database"
	"github.com/tableshape/tableshape/internal/spec"
)

// OpKind identifies the type of a migration operation.
type OpKind string

const (
	OpAddColumn   OpKind = "add_column"
	OpCreateIndex OpKind = "create_index"
)

// SkipReason explains why a planned operation needs no DDL.
type SkipReason string

const (
	// SkipPresent: the column or index already exists under that name.
	SkipPresent SkipReason = "already present"

	// SkipTypeMismatch: the column exists but its live type differs from
	// the descriptor's. Additive migration never corrects types; the
	// mismatch is reported, not fixed.
	SkipTypeMismatch SkipReason = "type mismatch"
)

// Skip records one operation the plan determined to be redundant.
type Skip struct {
	Kind        OpKind     `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Reason      SkipReason `json:"reason"`
}

// Plan is the computed delta for one table: what to add, what to leave
// alone. Column additions run before index creations so an index can cover
// a column added in the same run.
type Plan struct {
	Table      string            `json:"table"`
	AddColumns []spec.ColumnSpec `json:"add_columns,omitempty"`
	AddIndexes []spec.IndexSpec  `json:"add_indexes,omitempty"`
	Skipped    []Skip            `json:"skipped,omitempty"`
}

// IsEmpty reports whether the plan contains no DDL to execute.
func (p *Plan) IsEmpty() bool {
	return len(p.AddColumns) == 0 && len(p.AddIndexes) == 0
}

// Build diffs a descriptor against the live table shape. Membership checks
// are by name only, case-insensitive: name is the sole identity key for
// both columns and indexes, matching engine-level name uniqueness.
func Build(d *spec.Descriptor, shape *database.TableShape) *Plan {
	plan := &Plan{Table: d.Table}

	for _, col := range d.Columns {
		live, exists := shape.Column(col.Name)
		if !exists {
			plan.AddColumns = append(plan.AddColumns, col)
			continue
		}

		reason := SkipPresent
		if !typesEqual(live.Type, col.Type) {
			reason = SkipTypeMismatch
		}
		plan.Skipped = append(plan.Skipped, Skip{
			Kind:        OpAddColumn,
			Name:        col.Name,
			Description: fmt.Sprintf("Add column %s to table %s", col.Name, d.Table),
			Reason:      reason,
		})
	}

	for _, idx := range d.Indexes {
		if _, exists := shape.Index(idx.Name); exists {
			// No check on whether the existing index covers the same
			// columns; the name decides.
			plan.Skipped = append(plan.Skipped, Skip{
				Kind:        OpCreateIndex,
				Name:        idx.Name,
				Description: fmt.Sprintf("Create index %s on table %s", idx.Name, d.Table),
				Reason:      SkipPresent,
			})
			continue
		}
		plan.AddIndexes = append(plan.AddIndexes, idx)
	}

	return plan
}

// typesEqual compares type expressions loosely: case-insensitive with
// whitespace trimmed. Engines report types in their own spelling, so this
// only catches declarations that plainly disagree.
func typesEqual(live, declared string) bool {
	return strings.EqualFold(strings.TrimSpace(live), strings.TrimSpace(declared))
}
