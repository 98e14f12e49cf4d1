package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/eak1mov/meshtile/mti"
	"github.com/google/subcommands"
)

// reportError prints "error: <CODE>: <message>" to stderr, drawing the code
// from a *mti.TileError if err wraps one, or INTERNAL_FAILURE otherwise, and
// returns the exit status the subcommand should return.
func reportError(err error) subcommands.ExitStatus {
	var tileErr *mti.TileError
	if errors.As(err, &tileErr) {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", tileErr.Code, tileErr.Message)
	} else {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", mti.InternalFailure, err)
	}
	return subcommands.ExitFailure
}
