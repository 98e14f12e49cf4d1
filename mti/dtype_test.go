package mti

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadScalarRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		dtype  DType
		endian Endianness
		value  float64
	}{
		{"uint8", Uint8, LittleEndian, 200},
		{"int8", Int8, BigEndian, -100},
		{"uint16-le", Uint16, LittleEndian, 258},
		{"uint16-be", Uint16, BigEndian, 258},
		{"int16", Int16, LittleEndian, -12345},
		{"uint32", Uint32, BigEndian, 4000000000},
		{"int32", Int32, LittleEndian, -2000000000},
		{"float32", Float32, LittleEndian, 3.5},
		{"float64", Float64, BigEndian, math.Pi},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, tc.dtype.ByteSize())
			require.NoError(t, writeScalar(tc.dtype, tc.endian, tc.value, false, buf))

			got, err := readScalar(tc.dtype, tc.endian, buf)
			require.NoError(t, err)

			if tc.dtype == Float32 {
				require.InDelta(t, tc.value, got, 1e-6)
			} else {
				require.Equal(t, tc.value, got)
			}
		})
	}
}

func TestWriteScalarRejectsOutOfRange(t *testing.T) {
	buf := make([]byte, Uint8.ByteSize())
	err := writeScalar(Uint8, LittleEndian, 256, false, buf)
	require.Error(t, err)
	var tileErr *TileError
	require.ErrorAs(t, err, &tileErr)
	require.Equal(t, InvalidFieldValue, tileErr.Code)
}

func TestWriteScalarRejectsNonInteger(t *testing.T) {
	buf := make([]byte, Int16.ByteSize())
	err := writeScalar(Int16, LittleEndian, 1.5, false, buf)
	require.Error(t, err)
}

func TestWriteScalarFloatAllowsNaNOnlyWhenPermitted(t *testing.T) {
	buf := make([]byte, Float32.ByteSize())

	err := writeScalar(Float32, LittleEndian, math.NaN(), false, buf)
	require.Error(t, err)

	require.NoError(t, writeScalar(Float32, LittleEndian, math.NaN(), true, buf))
	got, err := readScalar(Float32, LittleEndian, buf)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))
}

func TestPackUnpackDTypeEndian(t *testing.T) {
	for _, dtype := range []DType{Uint8, Int8, Uint16, Int16, Uint32, Int32, Float32, Float64} {
		for _, endian := range []Endianness{LittleEndian, BigEndian} {
			packed := packDTypeEndian(dtype, endian)
			gotDtype, gotEndian, err := unpackDTypeEndian(packed)
			require.NoError(t, err)
			require.Equal(t, dtype, gotDtype)
			require.Equal(t, endian, gotEndian)
		}
	}
}

func TestParseDTypeRoundTripsWithString(t *testing.T) {
	for _, dtype := range []DType{Uint8, Int8, Uint16, Int16, Uint32, Int32, Float32, Float64} {
		parsed, err := ParseDType(dtype.String())
		require.NoError(t, err)
		require.Equal(t, dtype, parsed)
	}
	_, err := ParseDType("not-a-dtype")
	require.Error(t, err)
}

func TestParseEndiannessRoundTripsWithString(t *testing.T) {
	for _, endian := range []Endianness{LittleEndian, BigEndian} {
		parsed, err := ParseEndianness(endian.String())
		require.NoError(t, err)
		require.Equal(t, endian, parsed)
	}
	_, err := ParseEndianness("sideways")
	require.Error(t, err)
}
