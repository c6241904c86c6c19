// Package sink stores extracted result tables in ClickHouse, so query outputs can be
// analyzed with SQL instead of being limited to CSV files on disk.
package sink

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"hermannm.dev/gcamquery/config"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

type ClickHouseSink struct {
	conn driver.Conn
}

func NewClickHouseSink(conf config.ClickHouse) (ClickHouseSink, error) {
	// Options docs: https://clickhouse.com/docs/en/integrations/go#connection-settings
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{conf.Address},
		Auth: clickhouse.Auth{
			Database: conf.DatabaseName,
			Username: conf.Username,
			Password: conf.Password,
		},
		Debug: conf.Debug,
		Debugf: func(format string, v ...any) {
			fmt.Printf(format+"\n", v...)
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return ClickHouseSink{}, wrap.Error(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(context.Background()); err != nil {
		return ClickHouseSink{}, wrap.Error(err, "failed to ping ClickHouse connection")
	}

	return ClickHouseSink{conn: conn}, nil
}

// StoreTable creates a ClickHouse table matching the result table's columns (if it does
// not exist already) and inserts all its rows. The value column becomes Float64, every
// other column String, mirroring how the query engine emits results.
func (sink ClickHouseSink) StoreTable(
	ctx context.Context,
	tableName string,
	result *table.Table,
) error {
	if err := sink.createTable(ctx, tableName, result); err != nil {
		return wrap.Errorf(err, "failed to create ClickHouse table '%s'", tableName)
	}
	if err := sink.insertRows(ctx, tableName, result); err != nil {
		return wrap.Errorf(err, "failed to insert rows into ClickHouse table '%s'", tableName)
	}
	return nil
}

func (sink ClickHouseSink) createTable(
	ctx context.Context,
	tableName string,
	result *table.Table,
) error {
	var query strings.Builder

	query.WriteString("CREATE TABLE IF NOT EXISTS ")
	if err := writeIdentifier(&query, tableName); err != nil {
		return wrap.Error(err, "invalid table name")
	}
	query.WriteString(" (`id` UUID, ")

	for i, column := range result.Columns {
		if err := writeIdentifier(&query, column); err != nil {
			return wrap.Error(err, "invalid column name")
		}
		if column == "value" {
			query.WriteString(" Float64")
		} else {
			query.WriteString(" String")
		}

		if i != len(result.Columns)-1 {
			query.WriteString(", ")
		}
	}
	query.WriteRune(')')
	query.WriteString(" ENGINE = MergeTree()")
	query.WriteString(" PRIMARY KEY (id)")

	if err := sink.conn.Exec(ctx, query.String()); err != nil {
		return wrap.Error(err, "create table query failed")
	}

	return nil
}

// ClickHouse recommends keeping batch inserts between 10,000 and 100,000 rows:
// https://clickhouse.com/docs/en/cloud/bestpractices/bulk-inserts
const batchInsertSize = 10000

func (sink ClickHouseSink) insertRows(
	ctx context.Context,
	tableName string,
	result *table.Table,
) error {
	var query strings.Builder
	query.WriteString("INSERT INTO ")
	if err := writeIdentifier(&query, tableName); err != nil {
		return wrap.Error(err, "invalid table name")
	}
	queryString := query.String()

	valueIndex, _ := result.ColumnIndex("value")

	for start := 0; start < len(result.Rows); start += batchInsertSize {
		batch, err := sink.conn.PrepareBatch(ctx, queryString)
		if err != nil {
			return wrap.Error(err, "failed to prepare batch insert")
		}

		end := min(start+batchInsertSize, len(result.Rows))
		for rowNumber := start; rowNumber < end; rowNumber++ {
			convertedRow, err := convertRow(result.Rows[rowNumber], valueIndex)
			if err != nil {
				return wrap.Errorf(err, "failed to convert row %d for insertion", rowNumber+1)
			}
			if err := batch.Append(convertedRow...); err != nil {
				return wrap.Errorf(err, "failed to add row %d to batch insert", rowNumber+1)
			}
		}

		if err := batch.Send(); err != nil {
			return wrap.Error(err, "failed to send batch insert")
		}
	}

	return nil
}

func convertRow(row []string, valueIndex int) ([]any, error) {
	converted := make([]any, 0, len(row)+1)

	id, err := uuid.NewUUID()
	if err != nil {
		return nil, wrap.Error(err, "failed to generate unique row ID")
	}
	converted = append(converted, id.String())

	for i, field := range row {
		if i == valueIndex {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, wrap.Errorf(err, "non-numeric value '%s'", field)
			}
			converted = append(converted, value)
		} else {
			converted = append(converted, field)
		}
	}

	return converted, nil
}

func writeIdentifier(query *strings.Builder, identifier string) error {
	if strings.ContainsRune(identifier, '`') {
		return fmt.Errorf("'%s' contains `, which is incompatible with database", identifier)
	}

	query.WriteRune('`')
	query.WriteString(identifier)
	query.WriteRune('`')
	return nil
}
