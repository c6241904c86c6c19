// Package db defines the capability interface shared by scenario database connection
// variants, along with their common error kinds and post-processing.
package db

import (
	"context"

	"hermannm.dev/gcamquery/query"
	"hermannm.dev/gcamquery/table"
)

// ScenarioDB is a connection to a GCAM scenario database, local or remote. The variant
// is chosen at construction time; callers only see this interface.
//
// A connection's configuration is read-only after construction, but a single connection
// instance is not safe for concurrent RunQuery calls: the underlying engine's process
// model is not documented as reentrant. Callers wanting concurrency should give each
// worker its own connection.
type ScenarioDB interface {
	// RunQuery executes a parsed query against the database and returns its normalized
	// result table. A successful run with no output returns a nil table and no error;
	// engine failures are never converted to empty results.
	RunQuery(ctx context.Context, def query.Definition, opts QueryOptions) (*table.Table, error)

	// ListScenarios returns the name, date and model version of every scenario in the
	// database, with a derived fullyQualifiedName column ("name date") appended to
	// disambiguate same-named scenarios.
	ListScenarios(ctx context.Context) (*table.Table, error)
}

type QueryOptions struct {
	// Scenario names to include in query results. Empty means the engine default (the
	// last scenario in the database).
	Scenarios []string

	// Regions to filter query results to. Nil falls back to the query's built-in region
	// filter; an explicit empty (non-nil) list removes region filtering entirely.
	Regions []string

	// Log a diagnostic when the query returns an empty result.
	WarnOnEmpty bool
}

func (opts QueryOptions) Filters() query.Filters {
	return query.Filters{Scenarios: opts.Scenarios, Regions: opts.Regions}
}
