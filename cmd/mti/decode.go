package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/eak1mov/meshtile/mti"
	"github.com/eak1mov/meshtile/mticsv"
	"github.com/google/subcommands"
)

type decodeCmd struct {
	outputPath string
}

func (c *decodeCmd) Name() string     { return "decode" }
func (c *decodeCmd) Synopsis() string { return "decode a tile's samples and write them as CSV" }
func (c *decodeCmd) Usage() string    { return "mti decode <file> [--output <path>]\n" }
func (c *decodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputPath, "output", "", "write CSV to this path instead of stdout")
}

func (c *decodeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return reportError(err)
	}

	decoded, err := mti.DecodeTile(data, mti.WithLogger(pipelineLogger()))
	if err != nil {
		return reportError(err)
	}

	out, closeOut, err := c.openOutput()
	if err != nil {
		return reportError(err)
	}
	defer closeOut()

	writer := bufio.NewWriter(out)
	dims := decoded.Header.Dimensions
	if err := mticsv.WriteCSV(writer, dims.Rows, dims.Cols, dims.Bands, decoded.DecodedValues); err != nil {
		return reportError(err)
	}
	if err := writer.Flush(); err != nil {
		return reportError(err)
	}

	return subcommands.ExitSuccess
}

func (c *decodeCmd) openOutput() (*os.File, func(), error) {
	if c.outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(c.outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}
