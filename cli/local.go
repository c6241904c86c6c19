package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"hermannm.dev/gcamquery/config"
	"hermannm.dev/gcamquery/db"
	"hermannm.dev/gcamquery/db/local"
	"hermannm.dev/wrap"
)

type localCommand struct {
	databasePath string
	batchFlags
}

func newLocalCommand() *cobra.Command {
	var localCmd localCommand

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Query a scenario database on the local filesystem",
		Long: `Runs every query in the given catalog against a local scenario database, driving the
ModelInterface query engine as a java subprocess. Engine settings (java path,
ModelInterface location, memory ceiling) are read from the environment; see the
GCAMQUERY_* variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return localCmd.run(cmd)
		},
	}

	cmd.Flags().StringVarP(
		&localCmd.databasePath, "database-path", "d", "",
		"path to the scenario database directory (the parent of the *.basex files)",
	)
	cmd.MarkFlagRequired("database-path")
	addBatchFlags(cmd, &localCmd.batchFlags)

	return cmd
}

func (localCmd *localCommand) run(cmd *cobra.Command) error {
	conf, err := config.ReadFromEnv()
	if err != nil {
		return wrap.Error(err, "failed to read config from env")
	}

	databasePath, err := filepath.Abs(localCmd.databasePath)
	if err != nil {
		return wrap.Error(err, "failed to resolve database path")
	}
	if matches, err := filepath.Glob(filepath.Join(databasePath, "*.basex")); err != nil || len(matches) == 0 {
		return fmt.Errorf("no *.basex files found in '%s': not a scenario database", databasePath)
	}

	connConfig := local.Config{
		DBDir:  filepath.Dir(databasePath),
		DBFile: filepath.Base(databasePath),
		Engine: conf.Engine,
	}

	// Validate once up front, so a broken database fails the whole batch fast instead of
	// failing once per worker.
	connConfig.Validate = true
	if _, err := local.Connect(cmd.Context(), connConfig); err != nil {
		return err
	}
	connConfig.Validate = false

	opts, err := localCmd.batchFlags.toOptions(cmd)
	if err != nil {
		return err
	}

	return runBatch(cmd.Context(), opts, func(ctx context.Context) (db.ScenarioDB, error) {
		return local.Connect(ctx, connConfig)
	})
}
