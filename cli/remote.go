package cli

import (
	"context"

	"github.com/spf13/cobra"
	"hermannm.dev/gcamquery/config"
	"hermannm.dev/gcamquery/db"
	"hermannm.dev/gcamquery/db/remote"
	"hermannm.dev/wrap"
)

type remoteCommand struct {
	hostname     string
	port         int
	databaseName string
	username     string
	password     string
	batchFlags
}

func newRemoteCommand() *cobra.Command {
	var remoteCmd remoteCommand

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Query a scenario database hosted on a BaseX server",
		Long: `Runs every query in the given catalog against a scenario database hosted on a remote
BaseX server, through its REST API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return remoteCmd.run(cmd)
		},
	}

	cmd.Flags().StringVarP(
		&remoteCmd.hostname, "hostname", "n", "localhost", "hostname of the remote server",
	)
	cmd.Flags().IntVarP(&remoteCmd.port, "port", "p", 8984, "port on the remote server")
	cmd.Flags().StringVarP(
		&remoteCmd.databaseName, "database-name", "d", "", "name of the database to query",
	)
	cmd.MarkFlagRequired("database-name")
	cmd.Flags().StringVarP(
		&remoteCmd.username, "username", "u", "", "username for server authentication",
	)
	cmd.MarkFlagRequired("username")
	cmd.Flags().StringVarP(
		&remoteCmd.password, "password", "w", "", "password for server authentication",
	)
	cmd.MarkFlagRequired("password")
	addBatchFlags(cmd, &remoteCmd.batchFlags)

	return cmd
}

func (remoteCmd *remoteCommand) run(cmd *cobra.Command) error {
	conf, err := config.ReadFromEnv()
	if err != nil {
		return wrap.Error(err, "failed to read config from env")
	}

	connConfig := remote.Config{
		Address:      remoteCmd.hostname,
		Port:         remoteCmd.port,
		DBFile:       remoteCmd.databaseName,
		Username:     remoteCmd.username,
		Password:     remoteCmd.password,
		QueryTimeout: conf.Engine.QueryTimeout,
	}

	// Validate once up front, so a broken database fails the whole batch fast instead of
	// failing once per worker.
	connConfig.Validate = true
	if _, err := remote.Connect(cmd.Context(), connConfig); err != nil {
		return err
	}
	connConfig.Validate = false

	opts, err := remoteCmd.batchFlags.toOptions(cmd)
	if err != nil {
		return err
	}

	return runBatch(cmd.Context(), opts, func(ctx context.Context) (db.ScenarioDB, error) {
		return remote.Connect(ctx, connConfig)
	})
}
