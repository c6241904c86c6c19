package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"hermannm.dev/devlog/log"
	"hermannm.dev/gcamquery/db"
	"hermannm.dev/gcamquery/query"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

// batchOptions is the part of a batch run shared between the local and remote
// subcommands.
type batchOptions struct {
	catalogPath string
	outputDir   string
	force       bool
	format      table.OutputFormat
	workers     int
	scenarios   []string

	// Nil when no region flag was given (fall back to each query's built-in filter);
	// empty non-nil when filtering was explicitly disabled.
	regions []string
}

// runBatch parses the query catalog and fans the queries out over a bounded worker
// pool. Every worker gets its own connection, since connections are not safe for
// concurrent queries on one instance.
//
// A failed or empty query is logged and skipped; the rest of the batch continues.
func runBatch(
	ctx context.Context,
	opts batchOptions,
	connect func(ctx context.Context) (db.ScenarioDB, error),
) error {
	log.Infof("Parsing query catalog %s...", opts.catalogPath)
	queries, err := query.ParseCatalogFile(opts.catalogPath)
	if err != nil {
		return err
	}
	log.Infof("Found %d queries in catalog", len(queries))

	workers := opts.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	jobs := make(chan query.Definition)
	var waitGroup sync.WaitGroup

	for i := 0; i < workers; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()

			conn, err := connect(ctx)
			if err != nil {
				log.ErrorCause(err, "worker failed to connect to database")
				for range jobs {
					// Drain remaining jobs so other workers' sends don't block forever.
				}
				return
			}

			for def := range jobs {
				saveQueryResult(ctx, conn, def, opts)
			}
		}()
	}

	for _, def := range queries {
		jobs <- def
	}
	close(jobs)
	waitGroup.Wait()

	log.Info("Extract complete")
	return nil
}

func saveQueryResult(
	ctx context.Context,
	conn db.ScenarioDB,
	def query.Definition,
	opts batchOptions,
) {
	outputPath := filepath.Join(opts.outputDir, outputFileName(def.Title))

	if _, err := os.Stat(outputPath); err == nil {
		if !opts.force {
			log.Infof("Skipping '%s': output file already exists", def.Title)
			return
		}
		log.Infof("Overwriting existing output file for '%s'", def.Title)
	}

	log.Infof("Running query '%s'...", def.Title)
	result, err := conn.RunQuery(ctx, def, db.QueryOptions{
		Scenarios:   opts.scenarios,
		Regions:     opts.regions,
		WarnOnEmpty: true,
	})
	if err != nil {
		log.ErrorCause(err, "query failed: "+def.Title)
		return
	}
	if result == nil {
		log.Warnf("Query '%s' returned an empty result, no output written", def.Title)
		return
	}

	if err := writeResultFile(outputPath, result, opts.format); err != nil {
		log.ErrorCause(err, "failed to write result file for query: "+def.Title)
		return
	}
	log.Infof("Saved %s", outputPath)
}

func writeResultFile(path string, result *table.Table, format table.OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return wrap.Error(err, "failed to create output file")
	}

	if err := result.WriteCSV(file, format); err != nil {
		file.Close()
		return wrap.Error(err, "failed to write result table")
	}
	return file.Close()
}

// outputFileName turns a query title into a filesystem-safe file name: lowercased, with
// spaces and path separators replaced by underscores.
func outputFileName(title string) string {
	name := strings.ToLower(title)
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	return name + ".csv"
}
