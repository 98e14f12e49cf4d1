package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/eak1mov/meshtile/mti"
	"github.com/google/subcommands"
)

type inspectCmd struct{}

func (c *inspectCmd) Name() string     { return "inspect" }
func (c *inspectCmd) Synopsis() string { return "print a tile's header fields without decoding samples" }
func (c *inspectCmd) Usage() string    { return "mti inspect <file>\n" }
func (c *inspectCmd) SetFlags(*flag.FlagSet) {}

func (c *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return reportError(err)
	}

	inspected, err := mti.InspectTile(data, mti.WithLogger(pipelineLogger()))
	if err != nil {
		return reportError(err)
	}

	printInspected(os.Stdout, inspected)
	return subcommands.ExitSuccess
}

func printInspected(w *os.File, inspected mti.InspectedTile) {
	h := inspected.Header
	fmt.Fprintf(w, "FormatMajor: %d\n", h.FormatMajor)
	fmt.Fprintf(w, "TileID: %d\n", h.TileID)
	fmt.Fprintf(w, "MeshKind: %s\n", h.MeshKind)
	fmt.Fprintf(w, "DType: %s\n", h.DType)
	fmt.Fprintf(w, "Endianness: %s\n", h.Endianness)
	fmt.Fprintf(w, "Compression: %s\n", h.Compression)
	fmt.Fprintf(w, "Rows: %d\n", h.Dimensions.Rows)
	fmt.Fprintf(w, "Cols: %d\n", h.Dimensions.Cols)
	fmt.Fprintf(w, "Bands: %d\n", h.Dimensions.Bands)
	if h.NoData != nil {
		fmt.Fprintf(w, "NoData: %v\n", *h.NoData)
	} else {
		fmt.Fprintln(w, "NoData: <none>")
	}
	fmt.Fprintf(w, "PayloadUncompressedBytes: %d\n", h.PayloadUncompressedBytes)
	fmt.Fprintf(w, "PayloadCompressedBytes: %d\n", h.PayloadCompressedBytes)
	fmt.Fprintf(w, "PayloadCRC32: %08x\n", h.PayloadCRC32)
	fmt.Fprintf(w, "HeaderCRC32: %08x\n", h.HeaderCRC32)
	fmt.Fprintf(w, "HeaderLength: %d\n", inspected.HeaderLength)
	fmt.Fprintf(w, "PayloadOffset: %d\n", inspected.PayloadOffset)
	fmt.Fprintf(w, "PayloadLength: %d\n", inspected.PayloadLength)
}
