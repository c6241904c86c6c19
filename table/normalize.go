package table

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"
)

// The query engine may return the same logical record duplicated across internal
// database partitions. Rows in a column with this name are summed across such
// duplicates during normalization.
const valueColumnName = "value"

type NormalizeOptions struct {
	// Emit a diagnostic log line when the engine returned no parseable result. Advisory
	// only, never an error.
	WarnOnEmpty bool

	// Query title included in the empty-result diagnostic.
	QueryTitle string

	// Engine stderr output included in the empty-result diagnostic.
	EngineStderr string
}

// Normalize parses raw CSV text from the query engine into a Table, then aggregates
// duplicated records (see AggregateValues). Tables without a value column, such as
// scenario listings, are returned as parsed.
//
// Empty engine output returns a nil table and no error: a successful run with no
// parseable rows is an empty result, not a failure.
func Normalize(csvText string, opts NormalizeOptions) (*Table, error) {
	table, err := parseCSV(csvText)
	if err != nil {
		return nil, wrap.Error(err, "failed to parse query engine output as CSV")
	}
	if table == nil {
		if opts.WarnOnEmpty {
			log.Warn(
				"query engine returned an empty result",
				slog.String("query", opts.QueryTitle),
				slog.String("engineStderr", strings.TrimSpace(opts.EngineStderr)),
			)
		}
		return nil, nil
	}

	if _, hasValueColumn := table.ColumnIndex(valueColumnName); hasValueColumn {
		return table.AggregateValues()
	}
	return table, nil
}

func parseCSV(csvText string) (*Table, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(csvText))

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, wrap.Error(err, "failed to read CSV header row")
	}

	table := &Table{Columns: header}
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return table, nil
			}
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
}

// AggregateValues groups rows by every column except the value column, and sums the
// value within each group. Groups are output in order of first appearance in the input,
// so aggregation is deterministic. Column order is preserved.
func (table *Table) AggregateValues() (*Table, error) {
	valueIndex, found := table.ColumnIndex(valueColumnName)
	if !found {
		return table, nil
	}

	aggregated := &Table{Columns: table.Columns}
	sums := make([]float64, 0, len(table.Rows))
	groupIndices := make(map[string]int, len(table.Rows))

	for i, row := range table.Rows {
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueIndex]), 64)
		if err != nil {
			return nil, wrap.Errorf(
				err, "non-numeric value '%s' in row %d of query result", row[valueIndex], i+1,
			)
		}

		key := groupKey(row, valueIndex)
		if index, seen := groupIndices[key]; seen {
			sums[index] += value
		} else {
			groupIndices[key] = len(sums)
			sums = append(sums, value)
			aggregated.Rows = append(aggregated.Rows, slices.Clone(row))
		}
	}

	for i, row := range aggregated.Rows {
		row[valueIndex] = strconv.FormatFloat(sums[i], 'f', -1, 64)
	}
	return aggregated, nil
}

// groupKey joins all fields except the value column with an ASCII unit separator, which
// cannot occur in engine CSV output.
func groupKey(row []string, valueIndex int) string {
	var key strings.Builder
	for i, field := range row {
		if i == valueIndex {
			continue
		}
		key.WriteString(field)
		key.WriteByte('\x1f')
	}
	return key.String()
}
