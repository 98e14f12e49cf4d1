package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/eak1mov/meshtile/mti"
	"github.com/google/subcommands"
)

// encodeMetadata is the shape accepted by --metadata; any field may also be
// set (and overridden) by its own flag.
type encodeMetadata struct {
	TileID      *string  `json:"tile_id"`
	MeshKind    *string  `json:"mesh_kind"`
	Rows        *uint32  `json:"rows"`
	Cols        *uint32  `json:"cols"`
	Bands       *uint8   `json:"bands"`
	DType       *string  `json:"dtype"`
	Endianness  *string  `json:"endianness"`
	Compression *string  `json:"compression"`
	NoData      *float64 `json:"no_data"`
}

type encodeCmd struct {
	outputPath  string
	metadataRaw string
	valuesRaw   string
	valuesFile  string
	tileID      string
	meshKind    string
	rows        uint
	cols        uint
	bands       uint
	dtype       string
	endianness  string
	compression string
	noData      string
}

func (c *encodeCmd) Name() string     { return "encode" }
func (c *encodeCmd) Synopsis() string { return "build a tile from metadata and sample values" }
func (c *encodeCmd) Usage() string {
	return "mti encode --output <file> [--metadata <json>] (--values <json-array>|--values-file <path>) " +
		"[--tile-id <id>] [--mesh-kind <kind>] [--rows N] [--cols N] [--bands N] [--dtype <type>] " +
		"[--endianness <order>] [--compression <mode>] [--no-data <number|null>]\n"
}

func (c *encodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputPath, "output", "", "write the encoded tile to this path")
	f.StringVar(&c.metadataRaw, "metadata", "", "JSON object of tile metadata fields")
	f.StringVar(&c.valuesRaw, "values", "", "JSON array of sample values")
	f.StringVar(&c.valuesFile, "values-file", "", "path to a file containing a JSON array of sample values")
	f.StringVar(&c.tileID, "tile-id", "", "tile_id, as an unsigned integer or decimal string")
	f.StringVar(&c.meshKind, "mesh-kind", "", "mesh_kind: jis_x0410 or xyz")
	f.UintVar(&c.rows, "rows", 0, "grid row count")
	f.UintVar(&c.cols, "cols", 0, "grid column count")
	f.UintVar(&c.bands, "bands", 0, "band count")
	f.StringVar(&c.dtype, "dtype", "", "sample dtype")
	f.StringVar(&c.endianness, "endianness", "", "byte order: little or big")
	f.StringVar(&c.compression, "compression", "", "compression mode: none or deflate_raw")
	f.StringVar(&c.noData, "no-data", "", "no-data marker value, or the literal null")
}

func (c *encodeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.outputPath == "" {
		fmt.Fprintln(os.Stderr, "error: "+string(mti.MissingRequiredField)+": --output is required")
		return subcommands.ExitUsageError
	}

	input, err := c.buildInput()
	if err != nil {
		return reportError(err)
	}

	encoded, err := mti.EncodeTile(input, mti.WithLogger(pipelineLogger()))
	if err != nil {
		return reportError(err)
	}

	if err := os.WriteFile(c.outputPath, encoded.Bytes, 0o644); err != nil {
		return reportError(err)
	}

	return subcommands.ExitSuccess
}

func (c *encodeCmd) buildInput() (mti.TileEncodeInput, error) {
	meta, err := c.parseMetadata()
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	tileIDStr := firstNonEmpty(c.tileID, derefString(meta.TileID))
	if tileIDStr == "" {
		return mti.TileEncodeInput{}, mti.NewMissingRequiredFieldError("tile-id")
	}
	tileID, err := mti.NormalizeTileID(tileIDStr)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	meshKindStr := firstNonEmpty(c.meshKind, derefString(meta.MeshKind))
	if meshKindStr == "" {
		return mti.TileEncodeInput{}, mti.NewMissingRequiredFieldError("mesh-kind")
	}
	meshKind, err := mti.ParseMeshKind(meshKindStr)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	dtypeStr := firstNonEmpty(c.dtype, derefString(meta.DType))
	if dtypeStr == "" {
		return mti.TileEncodeInput{}, mti.NewMissingRequiredFieldError("dtype")
	}
	dtype, err := mti.ParseDType(dtypeStr)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	endianStr := firstNonEmpty(c.endianness, derefString(meta.Endianness))
	if endianStr == "" {
		endianStr = "little"
	}
	endian, err := mti.ParseEndianness(endianStr)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	compressionStr := firstNonEmpty(c.compression, derefString(meta.Compression))
	if compressionStr == "" {
		compressionStr = "none"
	}
	compression, err := mti.ParseCompressionMode(compressionStr)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	dims := mti.TileDimensions{
		Rows:  firstNonZeroU32(uint32(c.rows), derefU32(meta.Rows)),
		Cols:  firstNonZeroU32(uint32(c.cols), derefU32(meta.Cols)),
		Bands: firstNonZeroU8(uint8(c.bands), derefU8(meta.Bands)),
	}

	noData, err := c.resolveNoData(meta)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	values, err := c.loadValues()
	if err != nil {
		return mti.TileEncodeInput{}, err
	}
	payload, err := mti.EncodePayloadValues(dtype, endian, values)
	if err != nil {
		return mti.TileEncodeInput{}, err
	}

	return mti.TileEncodeInput{
		TileID:      tileID,
		MeshKind:    meshKind,
		DType:       dtype,
		Endianness:  endian,
		Compression: compression,
		Dimensions:  dims,
		NoData:      noData,
		Payload:     payload,
	}, nil
}

func (c *encodeCmd) parseMetadata() (encodeMetadata, error) {
	if c.metadataRaw == "" {
		return encodeMetadata{}, nil
	}
	var meta encodeMetadata
	if err := json.Unmarshal([]byte(c.metadataRaw), &meta); err != nil {
		return encodeMetadata{}, mti.NewInvalidFieldValueError(fmt.Sprintf("invalid --metadata JSON: %v", err))
	}
	return meta, nil
}

func (c *encodeCmd) resolveNoData(meta encodeMetadata) (*float64, error) {
	if c.noData != "" {
		if c.noData == "null" {
			return nil, nil
		}
		var v float64
		if _, err := fmt.Sscanf(c.noData, "%g", &v); err != nil {
			return nil, mti.NewInvalidFieldValueError(fmt.Sprintf("invalid --no-data value %q", c.noData))
		}
		return &v, nil
	}
	return meta.NoData, nil
}

func (c *encodeCmd) loadValues() ([]float64, error) {
	var raw string
	switch {
	case c.valuesRaw != "":
		raw = c.valuesRaw
	case c.valuesFile != "":
		data, err := os.ReadFile(c.valuesFile)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	default:
		return nil, mti.NewMissingRequiredFieldError("values or values-file")
	}

	var values []float64
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, mti.NewInvalidFieldValueError(fmt.Sprintf("invalid values JSON array: %v", err))
	}
	return values, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonZeroU32(a, b uint32) uint32 {
	if a != 0 {
		return a
	}
	return b
}

func firstNonZeroU8(a, b uint8) uint8 {
	if a != 0 {
		return a
	}
	return b
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefU32(p *uint32) uint32 {
	if p == nil {
		return 0
	}
	return *p
}

func derefU8(p *uint8) uint8 {
	if p == nil {
		return 0
	}
	return *p
}
