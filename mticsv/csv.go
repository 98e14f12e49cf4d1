// Package mticsv projects decoded tile samples into the CSV layout the CLI's
// decode subcommand emits: a pure function of dimensions and values, with no
// knowledge of the MTI1 wire format itself.
package mticsv

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes rows*cols*bands values, laid out row-major with band
// innermost (matching mti's sample order), as CSV to w. The header row is
// "x,y,b0,...,b{bands-1}"; each following row is "col,row,v0,...,v{bands-1}"
// with col varying fastest within row.
func WriteCSV(w io.Writer, rows, cols uint32, bands uint8, values []float64) error {
	expected := uint64(rows) * uint64(cols) * uint64(bands)
	if uint64(len(values)) != expected {
		return fmt.Errorf("mticsv: value count mismatch: expected %d, got %d", expected, len(values))
	}

	header := make([]string, 0, 2+int(bands))
	header = append(header, "x", "y")
	for b := uint8(0); b < bands; b++ {
		header = append(header, fmt.Sprintf("b%d", b))
	}
	if _, err := io.WriteString(w, strings.Join(header, ",")+"\n"); err != nil {
		return fmt.Errorf("mticsv: writing header row: %w", err)
	}

	row := make([]string, 0, 2+int(bands))
	for r := uint32(0); r < rows; r++ {
		for c := uint32(0); c < cols; c++ {
			row = row[:0]
			row = append(row, strconv.FormatUint(uint64(c), 10), strconv.FormatUint(uint64(r), 10))
			base := (uint64(r)*uint64(cols) + uint64(c)) * uint64(bands)
			for b := uint8(0); b < bands; b++ {
				row = append(row, strconv.FormatFloat(values[base+uint64(b)], 'g', -1, 64))
			}
			if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
				return fmt.Errorf("mticsv: writing data row: %w", err)
			}
		}
	}

	return nil
}
