// Package report renders migration results and table shapes for humans.
// The structured values stay caller-side; this is presentation only.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tableshape/tableshape/database"
	"github.com/tableshape/tableshape/internal/runner"
)

// Render writes a human-readable summary of a migration result: applied,
// skipped, and failed operations with their error kinds.
func Render(w io.Writer, res *runner.Result) {
	fmt.Fprintf(w, "Migration of table %s\n", res.Table)

	if len(res.Applied) == 0 && len(res.Skipped) == 0 && len(res.Failed) == 0 {
		fmt.Fprintln(w, "  nothing to do")
		return
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "\nApplied (%d):\n", len(res.Applied))
		for _, op := range res.Applied {
			fmt.Fprintf(w, "  + %s\n", op.Description)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d):\n", len(res.Skipped))
		for _, op := range res.Skipped {
			fmt.Fprintf(w, "  = %s (%s)\n", op.Description, op.Reason)
		}
	}

	if len(res.Failed) > 0 {
		fmt.Fprintf(w, "\nFailed (%d):\n", len(res.Failed))
		for _, op := range res.Failed {
			fmt.Fprintf(w, "  ! %s [%s]: %s\n", op.Description, op.ErrorKind, op.Error)
		}
	}
}

// RenderShape writes a table definition: ordered columns, then indexes.
func RenderShape(w io.Writer, shape *database.TableShape) {
	fmt.Fprintf(w, "Table %s\n", shape.Name)

	fmt.Fprintf(w, "\nColumns (%d):\n", len(shape.Columns))
	nameWidth := 0
	for _, col := range shape.Columns {
		if len(col.Name) > nameWidth {
			nameWidth = len(col.Name)
		}
	}
	for _, col := range shape.Columns {
		fmt.Fprintf(w, "  %-*s  %s\n", nameWidth, col.Name, col.Type)
	}

	if len(shape.Indexes) == 0 {
		return
	}
	fmt.Fprintf(w, "\nIndexes (%d):\n", len(shape.Indexes))
	for _, idx := range shape.Indexes {
		unique := ""
		if idx.Unique {
			unique = " unique"
		}
		fmt.Fprintf(w, "  %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
	}
}
