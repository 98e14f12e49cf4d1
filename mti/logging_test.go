package mti

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithLoggerReceivesStageTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dims := TileDimensions{Rows: 1, Cols: 1, Bands: 1}
	payload, err := EncodePayloadValues(Uint8, LittleEndian, []float64{7})
	require.NoError(t, err)

	encoded, err := EncodeTile(TileEncodeInput{
		TileID:      1,
		MeshKind:    MeshKindJISX0410,
		DType:       Uint8,
		Endianness:  LittleEndian,
		Compression: CompressionNone,
		Dimensions:  dims,
		Payload:     payload,
	}, WithLogger(logger))
	require.NoError(t, err)
	require.NotEmpty(t, buf.String())

	buf.Reset()
	_, err = DecodeTile(encoded.Bytes, WithLogger(logger))
	require.NoError(t, err)
	require.NotEmpty(t, buf.String())

	buf.Reset()
	_, err = InspectTile(encoded.Bytes, WithLogger(logger))
	require.NoError(t, err)
	require.NotEmpty(t, buf.String())
}

func TestDefaultLoggerDiscardsOutput(t *testing.T) {
	dims := TileDimensions{Rows: 1, Cols: 1, Bands: 1}
	payload, err := EncodePayloadValues(Uint8, LittleEndian, []float64{7})
	require.NoError(t, err)

	_, err = EncodeTile(TileEncodeInput{
		TileID:      1,
		MeshKind:    MeshKindJISX0410,
		DType:       Uint8,
		Endianness:  LittleEndian,
		Compression: CompressionNone,
		Dimensions:  dims,
		Payload:     payload,
	})
	require.NoError(t, err)

	config := newPipelineConfig(nil)
	require.False(t, config.logger.Enabled(context.Background(), slog.LevelError))
}
