package mti

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		dtype  DType
		endian Endianness
		values []float64
	}{
		{"uint16-little", Uint16, LittleEndian, []float64{1, 258, 1024, 2048}},
		{"uint16-big", Uint16, BigEndian, []float64{1, 258, 1024, 2048}},
		{"float64", Float64, LittleEndian, []float64{1.5, -2.25, 0, 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := encodePayload(tc.dtype, tc.endian, tc.values, uint64(len(tc.values)))
			require.NoError(t, err)

			decoded, err := decodePayload(tc.dtype, tc.endian, encoded)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.values, decoded); diff != "" {
				t.Errorf("decodePayload(encodePayload(values)) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodePayloadEndiannessProducesDifferentBytes(t *testing.T) {
	values := []float64{1, 258, 1024, 2048}

	little, err := encodePayload(Uint16, LittleEndian, values, uint64(len(values)))
	require.NoError(t, err)
	big, err := encodePayload(Uint16, BigEndian, values, uint64(len(values)))
	require.NoError(t, err)

	require.NotEqual(t, little, big)

	decodedLittle, err := decodePayload(Uint16, LittleEndian, little)
	require.NoError(t, err)
	decodedBig, err := decodePayload(Uint16, BigEndian, big)
	require.NoError(t, err)

	require.Equal(t, values, decodedLittle)
	require.Equal(t, values, decodedBig)
}

func TestEncodePayloadRejectsCountMismatch(t *testing.T) {
	_, err := encodePayload(Uint8, LittleEndian, []float64{1, 2, 3}, 4)
	require.Error(t, err)
	var tileErr *TileError
	require.ErrorAs(t, err, &tileErr)
	require.Equal(t, InvalidFieldValue, tileErr.Code)
}

func TestDecodePayloadRejectsNonMultipleLength(t *testing.T) {
	_, err := decodePayload(Uint16, LittleEndian, []byte{1, 2, 3})
	require.Error(t, err)
	var tileErr *TileError
	require.ErrorAs(t, err, &tileErr)
	require.Equal(t, InvalidFieldValue, tileErr.Code)
}
