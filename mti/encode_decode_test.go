package mti

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func buildInput(t *testing.T, dtype DType, endian Endianness, dims TileDimensions, values []float64) TileEncodeInput {
	t.Helper()
	payload, err := EncodePayloadValues(dtype, endian, values)
	require.NoError(t, err)
	return TileEncodeInput{
		TileID:      1001,
		MeshKind:    MeshKindJISX0410,
		DType:       dtype,
		Endianness:  endian,
		Compression: CompressionNone,
		Dimensions:  dims,
		Payload:     payload,
	}
}

// S1: minimal uncompressed round trip.
func TestScenarioS1(t *testing.T) {
	dims := TileDimensions{Rows: 2, Cols: 2, Bands: 1}
	input := buildInput(t, Uint16, LittleEndian, dims, []float64{1, 2, 3, 4})

	encoded, err := EncodeTile(input)
	require.NoError(t, err)

	inspected, err := InspectTile(encoded.Bytes)
	require.NoError(t, err)
	require.Equal(t, 58, inspected.HeaderLength)
	require.Equal(t, 58, inspected.PayloadOffset)
	require.Equal(t, uint64(8), inspected.PayloadLength)

	decoded, err := DecodeTile(encoded.Bytes)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, decoded.DecodedValues)
	require.Equal(t, uint64(8), decoded.Header.PayloadUncompressedBytes)
}

// S3: endianness produces byte-different output that decodes identically.
func TestScenarioS3(t *testing.T) {
	dims := TileDimensions{Rows: 2, Cols: 2, Bands: 1}
	values := []float64{1, 258, 1024, 2048}

	little := buildInput(t, Uint16, LittleEndian, dims, values)
	big := buildInput(t, Uint16, BigEndian, dims, values)

	encodedLittle, err := EncodeTile(little)
	require.NoError(t, err)
	encodedBig, err := EncodeTile(big)
	require.NoError(t, err)

	require.NotEqual(t, encodedLittle.Bytes, encodedBig.Bytes)

	decodedLittle, err := DecodeTile(encodedLittle.Bytes)
	require.NoError(t, err)
	decodedBig, err := DecodeTile(encodedBig.Bytes)
	require.NoError(t, err)

	require.Equal(t, values, decodedLittle.DecodedValues)
	require.Equal(t, values, decodedBig.DecodedValues)
}

// S4: raw deflate round trip.
func TestScenarioS4(t *testing.T) {
	dims := TileDimensions{Rows: 2, Cols: 2, Bands: 1}
	input := buildInput(t, Uint16, LittleEndian, dims, []float64{1, 2, 3, 4})
	input.Compression = CompressionDeflateRaw

	encoded, err := EncodeTile(input)
	require.NoError(t, err)
	require.Equal(t, CompressionDeflateRaw, encoded.Header.Compression)

	decoded, err := DecodeTile(encoded.Bytes)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, decoded.DecodedValues)

	expectedUncompressed, err := EncodePayloadValues(Uint16, LittleEndian, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, expectedUncompressed, decoded.UncompressedPayloadBytes)
}

// S5 is covered directly at the nodata layer in nodata_test.go; here we
// check the header bytes it produces end to end.
func TestScenarioS5HeaderBytes(t *testing.T) {
	dims := TileDimensions{Rows: 1, Cols: 1, Bands: 1}
	noData := float64(0x1234)
	input := buildInput(t, Uint16, LittleEndian, dims, []float64{7})
	input.NoData = &noData

	encoded, err := EncodeTile(input)
	require.NoError(t, err)

	require.Equal(t, byte(0x01), encoded.Bytes[25])
	require.Equal(t, []byte{0x34, 0x12, 0, 0, 0, 0, 0, 0}, encoded.Bytes[26:34])
}

// S6: tampering produces the expected, order-sensitive errors.
func TestScenarioS6(t *testing.T) {
	dims := TileDimensions{Rows: 2, Cols: 2, Bands: 1}
	input := buildInput(t, Uint8, LittleEndian, dims, []float64{1, 2, 3, 4})
	encoded, err := EncodeTile(input)
	require.NoError(t, err)

	t.Run("bad-magic", func(t *testing.T) {
		malformed := append([]byte{}, encoded.Bytes...)
		malformed[1] = 0x00
		_, err := DecodeTile(malformed)
		require.Error(t, err)
		var tileErr *TileError
		require.ErrorAs(t, err, &tileErr)
		require.Equal(t, InvalidMagic, tileErr.Code)
	})

	t.Run("bad-version", func(t *testing.T) {
		malformed := append([]byte{}, encoded.Bytes...)
		malformed[4] = 2
		_, err := DecodeTile(malformed)
		require.Error(t, err)
		var tileErr *TileError
		require.ErrorAs(t, err, &tileErr)
		require.Equal(t, UnsupportedVersion, tileErr.Code)
	})

	t.Run("tampered-payload", func(t *testing.T) {
		malformed := append([]byte{}, encoded.Bytes...)
		malformed[FixedHeaderLength] ^= 0xFF
		_, err := DecodeTile(malformed)
		require.Error(t, err)
		var tileErr *TileError
		require.ErrorAs(t, err, &tileErr)
		require.Equal(t, PayloadChecksumMismatch, tileErr.Code)
	})
}

// S7: XYZ tile_id with used-bit violation is rejected at encode time.
func TestScenarioS7(t *testing.T) {
	dims := TileDimensions{Rows: 2, Cols: 2, Bands: 1}
	payload, err := EncodePayloadValues(Uint8, LittleEndian, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	badTileID := uint64(1)<<quadkeyBits | 16

	_, err = EncodeTile(TileEncodeInput{
		TileID:      badTileID,
		MeshKind:    MeshKindXYZ,
		DType:       Uint8,
		Endianness:  LittleEndian,
		Compression: CompressionNone,
		Dimensions:  dims,
		Payload:     payload,
	})
	require.Error(t, err)
	var tileErr *TileError
	require.ErrorAs(t, err, &tileErr)
	require.Equal(t, InvalidFieldValue, tileErr.Code)
}

// Invariant 1: any single-byte mutation inside the header checksum input
// yields HEADER_CHECKSUM_MISMATCH or an earlier structural error; any
// single-byte mutation of the uncompressed payload yields
// PAYLOAD_CHECKSUM_MISMATCH.
func TestSingleByteMutationIsDetected(t *testing.T) {
	dims := TileDimensions{Rows: 3, Cols: 3, Bands: 2}
	values := make([]float64, 0, 18)
	for i := range 18 {
		values = append(values, float64(i))
	}
	input := buildInput(t, Uint16, LittleEndian, dims, values)
	encoded, err := EncodeTile(input)
	require.NoError(t, err)

	for i := 0; i < FixedHeaderLength; i++ {
		mutated := append([]byte{}, encoded.Bytes...)
		mutated[i] ^= 0xFF
		_, err := DecodeTile(mutated)
		require.Error(t, err, "byte %d", i)
		var tileErr *TileError
		require.ErrorAs(t, err, &tileErr)
		require.Contains(t, []TileErrorCode{
			HeaderChecksumMismatch, InvalidMagic, UnsupportedVersion, InvalidFieldValue,
		}, tileErr.Code, "byte %d produced %v", i, tileErr.Code)
	}

	for i := FixedHeaderLength; i < len(encoded.Bytes); i++ {
		mutated := append([]byte{}, encoded.Bytes...)
		mutated[i] ^= 0xFF
		_, err := DecodeTile(mutated)
		require.Error(t, err, "payload byte %d", i)
		var tileErr *TileError
		require.ErrorAs(t, err, &tileErr)
		require.Equal(t, PayloadChecksumMismatch, tileErr.Code, "payload byte %d", i)
	}
}

// Invariant 6: degenerate dimensions reject with INVALID_FIELD_VALUE.
func TestInvalidDimensionsRejected(t *testing.T) {
	payload, err := EncodePayloadValues(Uint8, LittleEndian, []float64{})
	require.NoError(t, err)

	for _, dims := range []TileDimensions{
		{Rows: 0, Cols: 1, Bands: 1},
		{Rows: 1, Cols: 0, Bands: 1},
		{Rows: 1, Cols: 1, Bands: 0},
	} {
		_, err := EncodeTile(TileEncodeInput{
			TileID:      1,
			MeshKind:    MeshKindJISX0410,
			DType:       Uint8,
			Endianness:  LittleEndian,
			Compression: CompressionNone,
			Dimensions:  dims,
			Payload:     payload,
		})
		require.Error(t, err)
		var tileErr *TileError
		require.ErrorAs(t, err, &tileErr)
		require.Equal(t, InvalidFieldValue, tileErr.Code)
	}
}

// Header round-trips exactly except missing compression/no_data default to
// None/absent.
func TestHeaderRoundTripDefaults(t *testing.T) {
	dims := TileDimensions{Rows: 1, Cols: 1, Bands: 1}
	input := buildInput(t, Uint8, LittleEndian, dims, []float64{5})
	// Compression and NoData left at zero values (None, nil) deliberately.

	encoded, err := EncodeTile(input)
	require.NoError(t, err)

	decoded, err := DecodeTile(encoded.Bytes)
	require.NoError(t, err)

	if diff := cmp.Diff(encoded.Header, decoded.Header); diff != "" {
		t.Errorf("header round-trip mismatch (-encoded +decoded):\n%s", diff)
	}
	require.Equal(t, CompressionNone, decoded.Header.Compression)
	require.Nil(t, decoded.Header.NoData)
}
