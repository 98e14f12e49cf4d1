package mti

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// CompressionMode selects the payload compression in effect for a tile.
type CompressionMode uint8

const (
	CompressionNone       CompressionMode = 0
	CompressionDeflateRaw CompressionMode = 1
)

func compressionFromCode(code uint8) (CompressionMode, error) {
	switch code {
	case uint8(CompressionNone):
		return CompressionNone, nil
	case uint8(CompressionDeflateRaw):
		return CompressionDeflateRaw, nil
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("invalid compression code %d", code))
	}
}

func (m CompressionMode) String() string {
	switch m {
	case CompressionNone:
		return "NONE"
	case CompressionDeflateRaw:
		return "DEFLATE_RAW"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
	}
}

// ParseCompressionMode parses the CLI/JSON spelling of a compression mode.
func ParseCompressionMode(s string) (CompressionMode, error) {
	switch s {
	case "none", "NONE":
		return CompressionNone, nil
	case "deflate_raw", "DEFLATE_RAW":
		return CompressionDeflateRaw, nil
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("unrecognized compression mode %q", s))
	}
}

// supported reports whether this runtime can produce/consume mode. Raw
// DEFLATE is a stdlib capability here, but the probe exists so a future
// runtime lacking it can fail with UnsupportedCompression without ever
// touching the payload (spec.md §9 "Compression availability").
func (m CompressionMode) supported() bool {
	switch m {
	case CompressionNone, CompressionDeflateRaw:
		return true
	default:
		return false
	}
}

func compressPayload(mode CompressionMode, payload []byte) ([]byte, error) {
	if !mode.supported() {
		return nil, newErr(UnsupportedCompression, fmt.Sprintf("compression mode %d is not supported", mode))
	}

	switch mode {
	case CompressionNone:
		return payload, nil
	case CompressionDeflateRaw:
		var buf bytes.Buffer
		writer, err := flate.NewWriter(&buf, flate.BestCompression)
		if err != nil {
			return nil, wrapErr(CompressionFailed, "could not open deflate-raw writer", err)
		}
		if _, err := writer.Write(payload); err != nil {
			return nil, wrapErr(CompressionFailed, "could not compress payload using deflate-raw", err)
		}
		if err := writer.Close(); err != nil {
			return nil, wrapErr(CompressionFailed, "could not finish deflate-raw compression", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, newErr(InternalFailure, fmt.Sprintf("unreachable compression mode %d", mode))
	}
}

func decompressPayload(mode CompressionMode, stored []byte) ([]byte, error) {
	if !mode.supported() {
		return nil, newErr(UnsupportedCompression, fmt.Sprintf("compression mode %d is not supported", mode))
	}

	switch mode {
	case CompressionNone:
		return stored, nil
	case CompressionDeflateRaw:
		reader := flate.NewReader(bytes.NewReader(stored))
		defer reader.Close()
		out, err := io.ReadAll(reader)
		if err != nil {
			return nil, wrapErr(DecompressionFailed, "could not decompress payload using deflate-raw", err)
		}
		return out, nil
	default:
		return nil, newErr(InternalFailure, fmt.Sprintf("unreachable compression mode %d", mode))
	}
}
