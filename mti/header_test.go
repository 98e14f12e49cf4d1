package mti

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedHeaderLengthIs58(t *testing.T) {
	require.Equal(t, 58, FixedHeaderLength)
}

func TestTotalSamplesOverflow(t *testing.T) {
	dims := TileDimensions{Rows: 1 << 31, Cols: 1 << 31, Bands: 4}
	_, err := dims.TotalSamples()
	require.Error(t, err)
}

func TestDimensionsRejectZero(t *testing.T) {
	for _, dims := range []TileDimensions{
		{Rows: 0, Cols: 1, Bands: 1},
		{Rows: 1, Cols: 0, Bands: 1},
		{Rows: 1, Cols: 1, Bands: 0},
	} {
		require.Error(t, dims.validate())
	}
}
