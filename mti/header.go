package mti

import (
	"encoding/binary"
	"fmt"
)

// FixedHeaderLength is the size in bytes of every MTI1 header.
const FixedHeaderLength = 58

// VersionMajor is the only format_major value this codec accepts.
const VersionMajor = 1

const (
	// HeaderChecksumOffset is the byte offset of the header CRC-32 field.
	HeaderChecksumOffset = 54
	// HeaderChecksumInputLength is the number of leading header bytes the
	// header CRC-32 is computed over.
	HeaderChecksumInputLength = HeaderChecksumOffset
)

const (
	headerChecksumOffset      = HeaderChecksumOffset
	headerChecksumInputLength = HeaderChecksumInputLength

	offsetFormatMajor            = 4
	offsetTileID                 = 5
	offsetMeshKind               = 13
	offsetDTypeEndian            = 14
	offsetCompression            = 15
	offsetRows                   = 16
	offsetCols                   = 20
	offsetBands                  = 24
	offsetNoDataKind             = 25
	offsetNoDataValue            = 26
	offsetUncompressedPayloadLen = 34
	offsetCompressedPayloadLen   = 42
	offsetPayloadChecksum        = 50
)

var magic = [4]byte{'M', 'T', 'I', '1'}

// TileDimensions is the rows/cols/bands shape of a tile's grid.
type TileDimensions struct {
	Rows  uint32
	Cols  uint32
	Bands uint8
}

func (d TileDimensions) validate() error {
	if d.Rows == 0 || d.Cols == 0 || d.Bands == 0 {
		return newErr(InvalidFieldValue, "rows, cols, and bands must be > 0")
	}
	return nil
}

// TotalSamples returns rows*cols*bands, failing on overflow (invariant 1).
func (d TileDimensions) TotalSamples() (uint64, error) {
	rows, cols, bands := uint64(d.Rows), uint64(d.Cols), uint64(d.Bands)
	total := rows * cols
	if rows != 0 && total/rows != cols {
		return 0, newErr(InvalidFieldValue, "invalid dimensions resulting in overflowed sample count")
	}
	samples := total * bands
	if total != 0 && samples/total != bands {
		return 0, newErr(InvalidFieldValue, "invalid dimensions resulting in overflowed sample count")
	}
	return samples, nil
}

func expectedPayloadLength(dims TileDimensions, dtype DType) (uint64, error) {
	totalSamples, err := dims.TotalSamples()
	if err != nil {
		return 0, err
	}
	width := uint64(dtype.ByteSize())
	byteLen := totalSamples * width
	if totalSamples != 0 && byteLen/totalSamples != width {
		return 0, newErr(InvalidPayloadLength, "payload length overflow")
	}
	return byteLen, nil
}

// TileHeader is the fully parsed/decoded form of an MTI1 header.
type TileHeader struct {
	FormatMajor              uint8
	TileID                   uint64
	MeshKind                 MeshKind
	DType                    DType
	Endianness               Endianness
	Compression              CompressionMode
	Dimensions               TileDimensions
	NoDataKind               uint8
	NoDataValueRaw           [8]byte
	NoData                   *float64
	PayloadUncompressedBytes uint64
	PayloadCompressedBytes   uint64
	PayloadCRC32             uint32
	HeaderCRC32              uint32
}

type parsedHeader struct {
	header                  TileHeader
	compressedPayloadLength uint64
	uncompressedPayloadLen  uint64
}

// packHeader assembles the 58-byte fixed header for header, computing and
// writing the header CRC over bytes [0, 54) last (spec.md §4.7).
func packHeader(h TileHeader) [FixedHeaderLength]byte {
	var buf [FixedHeaderLength]byte

	copy(buf[0:4], magic[:])
	buf[offsetFormatMajor] = h.FormatMajor
	binary.LittleEndian.PutUint64(buf[offsetTileID:], h.TileID)
	buf[offsetMeshKind] = uint8(h.MeshKind)
	buf[offsetDTypeEndian] = packDTypeEndian(h.DType, h.Endianness)
	buf[offsetCompression] = uint8(h.Compression)
	binary.LittleEndian.PutUint32(buf[offsetRows:], h.Dimensions.Rows)
	binary.LittleEndian.PutUint32(buf[offsetCols:], h.Dimensions.Cols)
	buf[offsetBands] = h.Dimensions.Bands
	buf[offsetNoDataKind] = h.NoDataKind
	copy(buf[offsetNoDataValue:offsetNoDataValue+8], h.NoDataValueRaw[:])
	binary.LittleEndian.PutUint64(buf[offsetUncompressedPayloadLen:], h.PayloadUncompressedBytes)
	binary.LittleEndian.PutUint64(buf[offsetCompressedPayloadLen:], h.PayloadCompressedBytes)
	binary.LittleEndian.PutUint32(buf[offsetPayloadChecksum:], h.PayloadCRC32)
	binary.LittleEndian.PutUint32(buf[headerChecksumOffset:], 0)

	headerCRC32 := crc32Sum(buf[:headerChecksumInputLength])
	binary.LittleEndian.PutUint32(buf[headerChecksumOffset:], headerCRC32)

	return buf
}

// parseHeader runs the fixed rejection order from spec.md §4.7 up through
// "declared payload length vs file length". It stops short of any
// decode-only checks (decompression, payload CRC), which InspectTile never
// performs and DecodeTile performs afterward.
func parseHeader(b []byte) (parsedHeader, error) {
	if len(b) < FixedHeaderLength {
		return parsedHeader{}, newErr(InvalidHeaderLength, "file shorter than fixed header")
	}

	if string(b[0:4]) != string(magic[:]) {
		return parsedHeader{}, newErr(InvalidMagic, "invalid file magic")
	}

	formatMajor := b[offsetFormatMajor]
	if formatMajor != VersionMajor {
		return parsedHeader{}, newErr(UnsupportedVersion, fmt.Sprintf("unsupported major version %d", formatMajor))
	}

	expectedHeaderCRC32 := binary.LittleEndian.Uint32(b[headerChecksumOffset:])
	checkBuf := make([]byte, headerChecksumInputLength)
	copy(checkBuf, b[:headerChecksumInputLength])
	actualHeaderCRC32 := crc32Sum(checkBuf)
	if expectedHeaderCRC32 != actualHeaderCRC32 {
		return parsedHeader{}, newErr(HeaderChecksumMismatch, fmt.Sprintf(
			"header checksum mismatch. expected=%08x actual=%08x", expectedHeaderCRC32, actualHeaderCRC32))
	}

	tileID := binary.LittleEndian.Uint64(b[offsetTileID:])
	meshKind, err := meshKindFromCode(b[offsetMeshKind])
	if err != nil {
		return parsedHeader{}, err
	}

	dtype, endian, err := unpackDTypeEndian(b[offsetDTypeEndian])
	if err != nil {
		return parsedHeader{}, err
	}
	compression, err := compressionFromCode(b[offsetCompression])
	if err != nil {
		return parsedHeader{}, err
	}

	dims := TileDimensions{
		Rows:  binary.LittleEndian.Uint32(b[offsetRows:]),
		Cols:  binary.LittleEndian.Uint32(b[offsetCols:]),
		Bands: b[offsetBands],
	}
	if err := dims.validate(); err != nil {
		return parsedHeader{}, err
	}

	if err := validateTileIDForMeshKind(tileID, meshKind); err != nil {
		return parsedHeader{}, err
	}

	noDataKind := b[offsetNoDataKind]
	var noDataValueRaw [8]byte
	copy(noDataValueRaw[:], b[offsetNoDataValue:offsetNoDataValue+8])
	noData, err := decodeNoDataField(noDataKind, noDataValueRaw, dtype, endian)
	if err != nil {
		return parsedHeader{}, err
	}

	uncompressedPayloadLen := binary.LittleEndian.Uint64(b[offsetUncompressedPayloadLen:])
	compressedPayloadLen := binary.LittleEndian.Uint64(b[offsetCompressedPayloadLen:])
	payloadCRC32 := binary.LittleEndian.Uint32(b[offsetPayloadChecksum:])

	// Intermediate conversion to platform int must not silently truncate a
	// length that doesn't fit (spec.md §9 "Integer widths").
	if uncompressedPayloadLen > maxPlatformInt || compressedPayloadLen > maxPlatformInt {
		return parsedHeader{}, newErr(InvalidHeaderLength, "payload length exceeds platform addressable range")
	}

	payloadEnd, overflow := addOverflowsUint64(FixedHeaderLength, compressedPayloadLen)
	if overflow {
		return parsedHeader{}, newErr(InvalidPayloadLength, "compressed payload length overflow")
	}
	if uint64(len(b)) < payloadEnd {
		return parsedHeader{}, newErr(InvalidPayloadLength, "file shorter than declared compressed payload length")
	}

	header := TileHeader{
		FormatMajor:              formatMajor,
		TileID:                   tileID,
		MeshKind:                 meshKind,
		DType:                    dtype,
		Endianness:               endian,
		Compression:              compression,
		Dimensions:               dims,
		NoDataKind:               noDataKind,
		NoDataValueRaw:           noDataValueRaw,
		NoData:                   noData,
		PayloadUncompressedBytes: uncompressedPayloadLen,
		PayloadCompressedBytes:   compressedPayloadLen,
		PayloadCRC32:             payloadCRC32,
		HeaderCRC32:              expectedHeaderCRC32,
	}

	return parsedHeader{
		header:                  header,
		compressedPayloadLength: compressedPayloadLen,
		uncompressedPayloadLen:  uncompressedPayloadLen,
	}, nil
}

func addOverflowsUint64(a uint64, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

// maxPlatformInt bounds a uint64 length to what can be safely converted to
// a platform int without truncation, regardless of int's width.
const maxPlatformInt = uint64(^uint(0) >> 1)
