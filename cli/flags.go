package cli

import (
	"runtime"

	"github.com/spf13/cobra"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

// batchFlags holds the flags shared by the local and remote subcommands.
type batchFlags struct {
	catalogPath    string
	outputDir      string
	force          bool
	outputFormat   string
	workers        int
	scenarios      []string
	regions        []string
	noRegionFilter bool
}

func addBatchFlags(cmd *cobra.Command, flags *batchFlags) {
	cmd.Flags().StringVarP(
		&flags.catalogPath, "query-path", "q", "",
		"path to the XML catalog of queries to run (e.g. Main_queries.xml)",
	)
	cmd.MarkFlagRequired("query-path")

	cmd.Flags().StringVarP(
		&flags.outputDir, "output-path", "o", ".",
		"directory where result .csv files are written",
	)
	cmd.Flags().BoolVarP(
		&flags.force, "force", "f", false,
		"overwrite existing .csv files in the output directory",
	)
	cmd.Flags().StringVar(
		&flags.outputFormat, "output-format", "pipe",
		"field delimiter for result files: pipe, comma, tab or semicolon",
	)
	cmd.Flags().IntVar(
		&flags.workers, "workers", runtime.NumCPU(),
		"number of queries to run concurrently",
	)
	cmd.Flags().StringSliceVar(
		&flags.scenarios, "scenario", nil,
		"scenario to include in query results (repeatable); defaults to the last scenario in the database",
	)
	cmd.Flags().StringSliceVar(
		&flags.regions, "region", nil,
		"region to filter query results to (repeatable); defaults to each query's built-in region filter",
	)
	cmd.Flags().BoolVar(
		&flags.noRegionFilter, "no-region-filter", false,
		"remove region filtering entirely, including queries' built-in region filters",
	)
}

func (flags *batchFlags) toOptions(cmd *cobra.Command) (batchOptions, error) {
	format, err := table.ParseOutputFormat(flags.outputFormat)
	if err != nil {
		return batchOptions{}, wrap.Error(err, "invalid --output-format flag")
	}

	// A nil region list falls back to each query's built-in filter, while an explicit
	// empty list removes filtering. The flags keep that distinction intact.
	regions := flags.regions
	if flags.noRegionFilter {
		regions = []string{}
	}

	return batchOptions{
		catalogPath: flags.catalogPath,
		outputDir:   flags.outputDir,
		force:       flags.force,
		format:      format,
		workers:     flags.workers,
		scenarios:   flags.scenarios,
		regions:     regions,
	}, nil
}
