package db

import (
	"fmt"
	"strings"
)

// EngineExecutionError is returned when the local query engine process exits with a
// non-zero status. It carries enough context to diagnose the failure offline.
type EngineExecutionError struct {
	// The full command line the engine was launched with.
	Command []string

	// The body of the query that was being run.
	Query string

	// Everything the engine wrote to its standard error stream.
	Stderr string

	// The underlying process error.
	Err error
}

func (err EngineExecutionError) Error() string {
	return fmt.Sprintf(
		"query engine run failed (%v): %s",
		err.Err,
		strings.TrimSpace(err.Stderr),
	)
}

func (err EngineExecutionError) Unwrap() error {
	return err.Err
}

// RemoteQueryError is returned when the remote query engine responds with a non-2xx
// status.
type RemoteQueryError struct {
	URL        string
	StatusCode int
	Status     string

	// The response body, typically a server-side diagnostic.
	Body string
}

func (err RemoteQueryError) Error() string {
	return fmt.Sprintf(
		"remote query to %s failed with status %s: %s",
		err.URL,
		err.Status,
		strings.TrimSpace(err.Body),
	)
}

// DatabaseValidationError is returned when a connection fails its construction-time
// check that the database is reachable and contains scenarios. The connection must not
// be used.
type DatabaseValidationError struct {
	// Identifies the database that failed validation, e.g. its path or URL.
	Database string
	Err      error
}

func (err DatabaseValidationError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("failed to validate database %s: no scenarios found", err.Database)
	}
	return fmt.Sprintf("failed to validate database %s: %v", err.Database, err.Err)
}

func (err DatabaseValidationError) Unwrap() error {
	return err.Err
}
