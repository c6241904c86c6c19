package db

import (
	"context"
	"errors"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/gcamquery/table"
)

// Column added to scenario listings: name + " " + date, so scenarios sharing a name but
// stored with different dates can be told apart in query filters.
const FullyQualifiedNameColumn = "fullyQualifiedName"

// AppendFullyQualifiedNames derives the fullyQualifiedName column on a scenario listing
// from its name and date columns. Nil listings pass through untouched.
func AppendFullyQualifiedNames(scenarios *table.Table) error {
	if scenarios == nil {
		return nil
	}

	names, ok := scenarios.Column("name")
	if !ok {
		return errors.New("scenario listing is missing a 'name' column")
	}
	dates, ok := scenarios.Column("date")
	if !ok {
		return errors.New("scenario listing is missing a 'date' column")
	}

	fqNames := make([]string, len(names))
	for i := range names {
		fqNames[i] = names[i] + " " + dates[i]
	}
	return scenarios.AppendColumn(FullyQualifiedNameColumn, fqNames)
}

// ValidateConnection checks that a freshly constructed connection can reach its database
// by listing its scenarios, failing fast with a DatabaseValidationError otherwise. On
// success, the discovered scenario names are logged.
func ValidateConnection(ctx context.Context, conn ScenarioDB, database string) error {
	scenarios, err := conn.ListScenarios(ctx)
	if err != nil {
		return DatabaseValidationError{Database: database, Err: err}
	}
	if scenarios == nil {
		return DatabaseValidationError{Database: database}
	}

	names, _ := scenarios.Column("name")
	log.Infof("Database scenarios: %s", strings.Join(names, ", "))
	return nil
}
