package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/gcamquery/db"
	"hermannm.dev/gcamquery/query"
	"hermannm.dev/gcamquery/table"
)

type catalogConnection struct {
	resultsByTitle map[string]*table.Table
	err            error
}

func (conn catalogConnection) RunQuery(
	ctx context.Context,
	def query.Definition,
	opts db.QueryOptions,
) (*table.Table, error) {
	if conn.err != nil {
		return nil, conn.err
	}
	return conn.resultsByTitle[def.Title], nil
}

func (conn catalogConnection) ListScenarios(ctx context.Context) (*table.Table, error) {
	return nil, errors.New("not implemented")
}

func TestRunCatalog(t *testing.T) {
	queries := []query.Definition{
		{Title: "first", Body: `<q title="first"/>`},
		{Title: "second", Body: `<q title="second"/>`},
	}
	firstResult := &table.Table{Columns: []string{"value"}, Rows: [][]string{{"1"}}}

	conn := catalogConnection{resultsByTitle: map[string]*table.Table{"first": firstResult}}

	results, err := db.RunCatalog(context.Background(), conn, queries, db.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, firstResult, results["first"])
	assert.Nil(t, results["second"], "empty results should be kept in the map as nil")
}

func TestRunCatalogAbortsOnFailure(t *testing.T) {
	conn := catalogConnection{err: errors.New("engine exploded")}

	_, err := db.RunCatalog(
		context.Background(),
		conn,
		[]query.Definition{{Title: "doomed", Body: `<q title="doomed"/>`}},
		db.QueryOptions{},
	)
	require.Error(t, err)
	assert.ErrorContains(t, err, "doomed")
}
