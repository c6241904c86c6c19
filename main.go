package main

import (
	"log/slog"
	"os"

	"hermannm.dev/devlog"
	"hermannm.dev/devlog/log"
	"hermannm.dev/gcamquery/cli"
)

func main() {
	// Logs go to stderr, keeping stdout free for tooling that consumes our output.
	logHandler := devlog.NewHandler(os.Stderr, &devlog.Options{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(logHandler))

	if err := cli.Execute(); err != nil {
		log.ErrorCause(err, "gcamquery failed")
		os.Exit(1)
	}
}
