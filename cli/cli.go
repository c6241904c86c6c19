// Package cli implements the gcamquery command line: batch-running query catalogs
// against local or remote scenario databases, and loading extracted results into
// ClickHouse.
package cli

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gcamquery",
		Short: "Run query catalogs against GCAM scenario databases",
		Long: `gcamquery batch-runs a catalog of predefined queries against a GCAM scenario
database, normalizes the query engine's CSV output, and writes one result file per
query.

Databases can be queried locally (driving the bundled ModelInterface engine as a java
subprocess) or remotely (through a BaseX REST server hosting the database).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newLocalCommand())
	rootCmd.AddCommand(newRemoteCommand())
	rootCmd.AddCommand(newIngestCommand())
	return rootCmd
}

// Execute runs the gcamquery command line, returning an error if the invoked command
// failed.
func Execute() error {
	return newRootCommand().Execute()
}
