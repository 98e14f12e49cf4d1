package mti

import (
	"encoding/binary"
	"fmt"
)

// TileEncodeInput is the input to EncodeTile: a logical tile identity plus
// the raw (uncompressed) sample bytes, already laid out in row-major,
// band-innermost order (spec.md §4.3).
type TileEncodeInput struct {
	TileID      uint64
	MeshKind    MeshKind
	DType       DType
	Endianness  Endianness
	Compression CompressionMode
	Dimensions  TileDimensions
	NoData      *float64
	Payload     []byte
}

// EncodedTile is the result of a successful EncodeTile call.
type EncodedTile struct {
	Bytes  []byte
	Header TileHeader
}

// EncodeTile orchestrates C2-C7 to produce the on-disk bytes for input,
// following the fixed pipeline in spec.md §4.8.
func EncodeTile(input TileEncodeInput, opts ...Option) (EncodedTile, error) {
	config := newPipelineConfig(opts)

	if err := input.Dimensions.validate(); err != nil {
		return EncodedTile{}, err
	}
	if err := validateTileIDForMeshKind(input.TileID, input.MeshKind); err != nil {
		return EncodedTile{}, err
	}

	expectedLen, err := expectedPayloadLength(input.Dimensions, input.DType)
	if err != nil {
		return EncodedTile{}, err
	}
	if uint64(len(input.Payload)) != expectedLen {
		return EncodedTile{}, newErr(InvalidPayloadLength, fmt.Sprintf(
			"payload byte length mismatch. expected=%d got=%d", expectedLen, len(input.Payload)))
	}
	config.logger.Debug("mti: tile identity and dimensions validated", "tile_id", input.TileID)

	payloadCRC32 := crc32Sum(input.Payload)
	config.logger.Debug("mti: payload checksum computed", "crc32", payloadCRC32)

	compressedPayload, err := compressPayload(input.Compression, input.Payload)
	if err != nil {
		return EncodedTile{}, err
	}
	config.logger.Debug("mti: payload compressed", "mode", input.Compression, "bytes", len(compressedPayload))

	noDataKind, noDataValueRaw, err := encodeNoDataField(input.NoData, input.DType, input.Endianness)
	if err != nil {
		return EncodedTile{}, err
	}

	header := TileHeader{
		FormatMajor:              VersionMajor,
		TileID:                   input.TileID,
		MeshKind:                 input.MeshKind,
		DType:                    input.DType,
		Endianness:               input.Endianness,
		Compression:              input.Compression,
		Dimensions:               input.Dimensions,
		NoDataKind:               noDataKind,
		NoDataValueRaw:           noDataValueRaw,
		NoData:                   input.NoData,
		PayloadUncompressedBytes: uint64(len(input.Payload)),
		PayloadCompressedBytes:   uint64(len(compressedPayload)),
		PayloadCRC32:             payloadCRC32,
	}

	headerBytes := packHeader(header)
	header.HeaderCRC32 = binary.LittleEndian.Uint32(headerBytes[headerChecksumOffset:])
	config.logger.Debug("mti: header packed", "header_crc32", header.HeaderCRC32)

	out := make([]byte, 0, FixedHeaderLength+len(compressedPayload))
	out = append(out, headerBytes[:]...)
	out = append(out, compressedPayload...)

	return EncodedTile{Bytes: out, Header: header}, nil
}

// EncodePayloadValues is the C3 convenience entry point: it bulk-encodes
// values under (dtype, endianness) into raw payload bytes suitable for
// TileEncodeInput.Payload, validating the element count implicitly via the
// caller-provided slice length.
func EncodePayloadValues(dtype DType, endian Endianness, values []float64) ([]byte, error) {
	return encodePayload(dtype, endian, values, uint64(len(values)))
}
