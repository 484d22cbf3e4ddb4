// Package spec defines the schema descriptor: a declarative statement of
// the columns and indexes one table should contain. Descriptors are pure
// data; the runner computes and applies the delta against the live table.
package spec

import (
	"fmt"
	"strings"
)

// ColumnSpec describes one target column.
type ColumnSpec struct {
	Name string `toml:"name" json:"name"`
	Type string `toml:"type" json:"type"`
	// After names an existing column to place this one behind. It is a
	// best-effort hint; engines without ordered-column semantics ignore it.
	After string `toml:"after,omitempty" json:"after,omitempty"`
}

// IndexSpec describes one target index.
type IndexSpec struct {
	Name    string   `toml:"name" json:"name"`
	Columns []string `toml:"columns" json:"columns"`
	Unique  bool     `toml:"unique,omitempty" json:"unique,omitempty"`
}

// Descriptor enumerates the target columns and indexes for exactly one
// table. Construct with New, which validates; treat as immutable afterward.
type Descriptor struct {
	Table   string       `toml:"table" json:"table"`
	Columns []ColumnSpec `toml:"columns,omitempty" json:"columns,omitempty"`
	Indexes []IndexSpec  `toml:"indexes,omitempty" json:"indexes,omitempty"`
}

// InvalidSpecError reports a malformed descriptor. Raised at construction
// time so a bad descriptor never reaches the runner.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid descriptor: %s", e.Reason)
}

// New builds a validated Descriptor.
func New(table string, columns []ColumnSpec, indexes []IndexSpec) (*Descriptor, error) {
	d := &Descriptor{
		Table:   table,
		Columns: columns,
		Indexes: indexes,
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Descriptor) validate() error {
	if strings.TrimSpace(d.Table) == "" {
		return &InvalidSpecError{Reason: "table name is empty"}
	}

	seenCols := make(map[string]bool)
	for i, col := range d.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return &InvalidSpecError{Reason: fmt.Sprintf("column %d has an empty name", i)}
		}
		if strings.TrimSpace(col.Type) == "" {
			return &InvalidSpecError{Reason: fmt.Sprintf("column %s has an empty type", col.Name)}
		}
		key := strings.ToLower(col.Name)
		if seenCols[key] {
			return &InvalidSpecError{Reason: fmt.Sprintf("column %s is declared twice", col.Name)}
		}
		seenCols[key] = true
	}

	seenIdxs := make(map[string]bool)
	for i, idx := range d.Indexes {
		if strings.TrimSpace(idx.Name) == "" {
			return &InvalidSpecError{Reason: fmt.Sprintf("index %d has an empty name", i)}
		}
		key := strings.ToLower(idx.Name)
		if seenIdxs[key] {
			return &InvalidSpecError{Reason: fmt.Sprintf("index %s is declared twice", idx.Name)}
		}
		seenIdxs[key] = true

		if len(idx.Columns) == 0 {
			return &InvalidSpecError{Reason: fmt.Sprintf("index %s references no columns", idx.Name)}
		}
		for _, col := range idx.Columns {
			if strings.TrimSpace(col) == "" {
				return &InvalidSpecError{Reason: fmt.Sprintf("index %s references an empty column name", idx.Name)}
			}
		}
	}

	return nil
}
