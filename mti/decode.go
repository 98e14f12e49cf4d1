package mti

import "fmt"

// InspectedTile is the result of InspectTile: the parsed header plus the
// derived offsets/lengths needed to locate the stored payload, without
// decompressing or checksumming it (spec.md §4.9).
type InspectedTile struct {
	Header        TileHeader
	HeaderLength  int
	PayloadOffset int
	PayloadLength uint64
}

// DecodedTile is the result of a successful DecodeTile call.
type DecodedTile struct {
	Header                   TileHeader
	UncompressedPayloadBytes []byte
	DecodedValues            []float64
}

// InspectTile parses the fixed header and reports where the payload lives,
// performing no decompression and no payload checksum verification
// (spec.md §4.9).
func InspectTile(b []byte, opts ...Option) (InspectedTile, error) {
	config := newPipelineConfig(opts)

	parsed, err := parseHeader(b)
	if err != nil {
		return InspectedTile{}, err
	}
	config.logger.Debug("mti: header parsed", "tile_id", parsed.header.TileID)

	return InspectedTile{
		Header:        parsed.header,
		HeaderLength:  FixedHeaderLength,
		PayloadOffset: FixedHeaderLength,
		PayloadLength: parsed.compressedPayloadLength,
	}, nil
}

// DecodeTile runs the full decode pipeline: parse header, verify runtime
// compression support, slice and decompress the stored payload, verify
// lengths and the payload CRC, then decode typed sample values
// (spec.md §4.9, states HEADER_PARSED -> SAMPLES_DECODED).
func DecodeTile(b []byte, opts ...Option) (DecodedTile, error) {
	config := newPipelineConfig(opts)

	parsed, err := parseHeader(b)
	if err != nil {
		return DecodedTile{}, err
	}
	header := parsed.header
	config.logger.Debug("mti: header parsed", "tile_id", header.TileID)

	if !header.Compression.supported() {
		return DecodedTile{}, newErr(UnsupportedCompression, fmt.Sprintf(
			"compression mode %d is not supported", header.Compression))
	}

	payloadEnd := FixedHeaderLength + int(parsed.compressedPayloadLength)
	storedPayload := b[FixedHeaderLength:payloadEnd]

	payload, err := decompressPayload(header.Compression, storedPayload)
	if err != nil {
		return DecodedTile{}, err
	}
	config.logger.Debug("mti: payload decompressed", "mode", header.Compression, "bytes", len(payload))

	if uint64(len(payload)) != parsed.uncompressedPayloadLen {
		return DecodedTile{}, newErr(InvalidPayloadLength, fmt.Sprintf(
			"uncompressed payload length mismatch. expected=%d got=%d",
			parsed.uncompressedPayloadLen, len(payload)))
	}

	payloadCRC32 := crc32Sum(payload)
	if payloadCRC32 != header.PayloadCRC32 {
		return DecodedTile{}, newErr(PayloadChecksumMismatch, fmt.Sprintf(
			"payload checksum mismatch. expected=%08x actual=%08x", header.PayloadCRC32, payloadCRC32))
	}
	config.logger.Debug("mti: payload checksum verified", "crc32", payloadCRC32)

	expectedUncompressedLen, err := expectedPayloadLength(header.Dimensions, header.DType)
	if err != nil {
		return DecodedTile{}, err
	}
	if uint64(len(payload)) != expectedUncompressedLen {
		return DecodedTile{}, newErr(InvalidPayloadLength, fmt.Sprintf(
			"decoded payload length mismatch. expected=%d got=%d", expectedUncompressedLen, len(payload)))
	}

	values, err := decodePayload(header.DType, header.Endianness, payload)
	if err != nil {
		return DecodedTile{}, err
	}
	config.logger.Debug("mti: samples decoded", "count", len(values))

	return DecodedTile{
		Header:                   header,
		UncompressedPayloadBytes: payload,
		DecodedValues:            values,
	}, nil
}

// DecodePayloadValues is the C3 convenience counterpart to
// EncodePayloadValues: it bulk-decodes a raw payload into typed numeric
// values without matching no_data (spec.md §9 Open Questions: no-data
// matching is left to callers).
func DecodePayloadValues(dtype DType, endian Endianness, payload []byte) ([]float64, error) {
	return decodePayload(dtype, endian, payload)
}

// MatchNoData maps each decoded value to a pointer to itself, or nil where
// it equals noData (when noData is non-nil). This is an optional layer on
// top of the core decode path — see spec.md §9 and SPEC_FULL.md §6 — never
// invoked by DecodeTile itself.
func MatchNoData(values []float64, noData *float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if noData != nil && v == *noData {
			continue
		}
		value := v
		out[i] = &value
	}
	return out
}
