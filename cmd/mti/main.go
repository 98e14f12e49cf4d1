package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
)

var verbose = flag.Bool("v", false, "log pipeline stage transitions to stderr")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&inspectCmd{}, "")
	subcommands.Register(&decodeCmd{}, "")
	subcommands.Register(&encodeCmd{}, "")

	flag.Parse()
	status := subcommands.Execute(context.Background())
	if status != subcommands.ExitSuccess {
		status = subcommands.ExitFailure
	}
	os.Exit(int(status))
}

// pipelineLogger returns a text-handler logger on stderr when -v is set,
// and a discarding logger otherwise (mti.EncodeTile/DecodeTile/InspectTile
// default to discarding already, but being explicit here keeps the CLI's
// intent visible).
func pipelineLogger() *slog.Logger {
	if !*verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
