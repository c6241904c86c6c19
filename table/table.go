// Package table holds the canonical tabular form of query engine results, and the
// normalization from raw engine CSV into it.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"hermannm.dev/wrap"
)

// Table is a query result: an ordered set of named columns and zero or more rows.
// Column names are exactly as emitted by the query engine.
//
// An absent result (a query that succeeded but produced no output) is represented as a
// nil *Table, which is distinct from a table with zero rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (table *Table) ColumnIndex(name string) (index int, found bool) {
	index = slices.Index(table.Columns, name)
	return index, index != -1
}

// Column returns all values of the named column, in row order.
func (table *Table) Column(name string) ([]string, bool) {
	index, found := table.ColumnIndex(name)
	if !found {
		return nil, false
	}

	values := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		values = append(values, row[index])
	}
	return values, true
}

// AppendColumn adds a derived column to the right of the table's existing columns.
func (table *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(table.Rows) {
		return fmt.Errorf(
			"cannot append column '%s' with %d values to table with %d rows",
			name,
			len(values),
			len(table.Rows),
		)
	}

	table.Columns = append(table.Columns, name)
	for i := range table.Rows {
		table.Rows[i] = append(table.Rows[i], values[i])
	}
	return nil
}

// WriteCSV writes the table as delimited text with a header row.
func (table *Table) WriteCSV(writer io.Writer, format OutputFormat) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = format.Delimiter()

	if err := csvWriter.Write(table.Columns); err != nil {
		return wrap.Error(err, "failed to write CSV header row")
	}
	for i, row := range table.Rows {
		if err := csvWriter.Write(row); err != nil {
			return wrap.Errorf(err, "failed to write CSV row %d", i+1)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
