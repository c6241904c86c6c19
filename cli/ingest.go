package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"hermannm.dev/devlog/log"
	"hermannm.dev/gcamquery/config"
	"hermannm.dev/gcamquery/sink"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

type ingestCommand struct {
	inputDir string
}

func newIngestCommand() *cobra.Command {
	var ingest ingestCommand

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load extracted result files into ClickHouse",
		Long: `Loads every .csv file in the given directory into ClickHouse, one table per file,
named after the file. Connection settings are read from the CLICKHOUSE_* environment
variables. Field delimiters are deduced per file, so results extracted with any
--output-format can be ingested.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ingest.run(cmd)
		},
	}

	cmd.Flags().StringVarP(
		&ingest.inputDir, "input-path", "i", ".",
		"directory containing extracted .csv result files",
	)

	return cmd
}

func (ingest *ingestCommand) run(cmd *cobra.Command) error {
	conf, err := config.ReadFromEnv()
	if err != nil {
		return wrap.Error(err, "failed to read config from env")
	}

	files, err := filepath.Glob(filepath.Join(ingest.inputDir, "*.csv"))
	if err != nil {
		return wrap.Error(err, "failed to list input directory")
	}
	if len(files) == 0 {
		return fmt.Errorf("no .csv files found in '%s'", ingest.inputDir)
	}

	clickhouse, err := sink.NewClickHouseSink(conf.ClickHouse)
	if err != nil {
		return wrap.Error(err, "failed to initialize ClickHouse sink")
	}

	for _, file := range files {
		tableName := strings.TrimSuffix(filepath.Base(file), ".csv")

		result, err := table.ReadFile(file)
		if err != nil {
			log.ErrorCause(err, "failed to read result file, skipping: "+file)
			continue
		}

		if err := clickhouse.StoreTable(cmd.Context(), tableName, result); err != nil {
			log.ErrorCause(err, "failed to store table, skipping: "+tableName)
			continue
		}
		log.Infof("Stored %d rows in table '%s'", len(result.Rows), tableName)
	}

	return nil
}
