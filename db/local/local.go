// Package local runs scenario database queries by launching the ModelInterface query
// engine as a java subprocess against a database directory on this machine.
package local

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/gcamquery/config"
	"hermannm.dev/gcamquery/db"
	"hermannm.dev/gcamquery/query"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

var _ db.ScenarioDB = LocalDB{}

// Implements db.ScenarioDB for databases on the local filesystem.
type LocalDB struct {
	dbDir     string
	dbFile    string
	classPath string
	engine    config.Engine
}

type Config struct {
	// Directory containing the scenario database.
	DBDir string

	// Name of the scenario database inside DBDir.
	DBFile string

	Engine config.Engine

	// Check at construction time that the database is reachable and has scenarios,
	// failing with a db.DatabaseValidationError otherwise.
	Validate bool
}

func Connect(ctx context.Context, conf Config) (LocalDB, error) {
	dbDir, err := filepath.Abs(conf.DBDir)
	if err != nil {
		return LocalDB{}, wrap.Errorf(err, "failed to resolve database directory '%s'", conf.DBDir)
	}

	classPath, err := conf.Engine.ResolveClassPath()
	if err != nil {
		return LocalDB{}, wrap.Error(err, "failed to resolve ModelInterface classpath")
	}

	localDB := LocalDB{
		dbDir:     dbDir,
		dbFile:    conf.DBFile,
		classPath: classPath,
		engine:    conf.Engine,
	}

	if conf.Validate {
		database := filepath.Join(dbDir, conf.DBFile)
		if err := db.ValidateConnection(ctx, localDB, database); err != nil {
			return LocalDB{}, err
		}
	}

	return localDB, nil
}

func (localDB LocalDB) RunQuery(
	ctx context.Context,
	def query.Definition,
	opts db.QueryOptions,
) (*table.Table, error) {
	invocation := query.BuildInvocation(def, opts.Filters())

	// The script is passed through a file rather than inline, to work around size limits
	// on command-line arguments on some platforms.
	scriptPath, removeScript, err := writeScriptFile(invocation.Script)
	if err != nil {
		return nil, wrap.Error(err, "failed to write query script to temporary file")
	}
	defer removeScript()

	args := []string{
		"-cp", localDB.classPath,
		"-Xmx" + localDB.engine.MaxMemory,
		"-Dorg.basex.DBPATH=" + localDB.dbDir,
		"-DModelInterface.SUPPRESS_OUTPUT=" + strconv.FormatBool(localDB.engine.SuppressEngineOutput),
		"org.basex.BaseX",
		"-smethod=csv",
		"-scsv=header=yes,format=xquery",
		"-i", localDB.dbFile,
		"RUN", scriptPath,
	}

	stdout, stderr, err := localDB.runEngine(ctx, args, def.Body)
	if err != nil {
		return nil, err
	}

	return table.Normalize(stdout, table.NormalizeOptions{
		WarnOnEmpty:  opts.WarnOnEmpty,
		QueryTitle:   def.Title,
		EngineStderr: stderr,
	})
}

func (localDB LocalDB) ListScenarios(ctx context.Context) (*table.Table, error) {
	args := []string{
		"-cp", localDB.classPath,
		"-Xmx" + localDB.engine.MaxMemory,
		"-Dorg.basex.DBPATH=" + localDB.dbDir,
		"org.basex.BaseX",
		"-smethod=csv",
		"-scsv=header=yes",
		"-i", localDB.dbFile,
		query.ScenarioListScript,
	}

	stdout, stderr, err := localDB.runEngine(ctx, args, query.ScenarioListScript)
	if err != nil {
		return nil, err
	}

	scenarios, err := table.Normalize(stdout, table.NormalizeOptions{
		QueryTitle:   "List Scenarios",
		EngineStderr: stderr,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AppendFullyQualifiedNames(scenarios); err != nil {
		return nil, wrap.Error(err, "failed to post-process scenario listing")
	}
	return scenarios, nil
}

// runEngine launches the query engine and blocks until it exits, buffering its full
// stdout and stderr. A non-zero exit becomes a db.EngineExecutionError, logged here with
// the command line, query and stderr so failures can be diagnosed offline.
func (localDB LocalDB) runEngine(
	ctx context.Context,
	args []string,
	queryBody string,
) (stdout string, stderr string, err error) {
	if timeout := localDB.engine.QueryTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, localDB.engine.JavaPath, args...)

	var stdoutBuffer, stderrBuffer bytes.Buffer
	cmd.Stdout = &stdoutBuffer
	cmd.Stderr = &stderrBuffer

	if err := cmd.Run(); err != nil {
		executionErr := db.EngineExecutionError{
			Command: cmd.Args,
			Query:   queryBody,
			Stderr:  stderrBuffer.String(),
			Err:     err,
		}
		log.ErrorCause(
			err,
			"query engine run failed",
			slog.String("command", strings.Join(cmd.Args, " ")),
			slog.String("query", queryBody),
			slog.String("engineStderr", strings.TrimSpace(stderrBuffer.String())),
		)
		return "", "", executionErr
	}

	return stdoutBuffer.String(), stderrBuffer.String(), nil
}

// writeScriptFile writes a query script to a uniquely named temporary file, returning
// its path and a remove function. Callers must defer the remove function, so the file is
// cleaned up on every exit path.
func writeScriptFile(script string) (path string, remove func(), err error) {
	file, err := os.CreateTemp("", "gcamquery-*.xq")
	if err != nil {
		return "", nil, err
	}
	path = file.Name()

	if _, err := file.WriteString(script); err != nil {
		file.Close()
		os.Remove(path)
		return "", nil, err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", nil, err
	}

	return path, func() {
		if err := os.Remove(path); err != nil {
			log.ErrorCause(err, "failed to remove temporary query script file")
		}
	}, nil
}
