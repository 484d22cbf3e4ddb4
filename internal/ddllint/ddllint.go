// Package ddllint parses generated PostgreSQL DDL before it is sent to the
// server, so plan and dry-run output can flag a malformed statement instead
// of leaving it to fail mid-migration.
package ddllint

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Issue is one statement the PostgreSQL grammar rejected.
type Issue struct {
	SQL     string `json:"sql"`
	Message string `json:"message"`
}

// LintPostgres parses each statement with the PostgreSQL grammar and
// returns the ones that fail. Only meaningful for DDL destined for a
// postgres target; other dialects are not linted.
func LintPostgres(statements []string) []Issue {
	var issues []Issue
	for _, stmt := range statements {
		if _, err := pg_query.Parse(stmt); err != nil {
			issues = append(issues, Issue{
				SQL:     stmt,
				Message: err.Error(),
			})
		}
	}
	return issues
}
