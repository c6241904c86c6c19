package db

import (
	"context"

	"hermannm.dev/gcamquery/query"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

// RunCatalog runs every query in a catalog sequentially on the given connection,
// returning results keyed by query title. Queries with empty results map to a nil
// table; the first failing query aborts the run.
func RunCatalog(
	ctx context.Context,
	conn ScenarioDB,
	queries []query.Definition,
	opts QueryOptions,
) (map[string]*table.Table, error) {
	results := make(map[string]*table.Table, len(queries))

	for _, def := range queries {
		result, err := conn.RunQuery(ctx, def, opts)
		if err != nil {
			return nil, wrap.Errorf(err, "query '%s' failed", def.Title)
		}
		results[def.Title] = result
	}

	return results, nil
}
