package mti

import "fmt"

// encodePayload writes values sequentially as dtype/endian-typed bytes.
// len(values) must equal expectedCount (spec.md §4.3). EncodePayloadValues
// passes len(values) as the count; the check against the tile dimensions is
// EncodeTile's payload byte length check.
func encodePayload(dtype DType, endian Endianness, values []float64, expectedCount uint64) ([]byte, error) {
	if uint64(len(values)) != expectedCount {
		return nil, newErr(InvalidFieldValue, fmt.Sprintf(
			"value count mismatch: expected=%d got=%d", expectedCount, len(values)))
	}

	width := dtype.ByteSize()
	out := make([]byte, len(values)*width)
	for i, value := range values {
		start := i * width
		if err := writeScalar(dtype, endian, value, true, out[start:start+width]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodePayload reads a sequence of dtype/endian-typed scalars from b.
// len(b) must be a multiple of dtype.ByteSize(); sample order is the
// caller's responsibility to interpret (row-major, band innermost, per
// spec.md §4.3).
func decodePayload(dtype DType, endian Endianness, b []byte) ([]float64, error) {
	width := dtype.ByteSize()
	if len(b)%width != 0 {
		return nil, newErr(InvalidFieldValue, fmt.Sprintf(
			"payload byte length %d is not divisible by %d", len(b), width))
	}

	values := make([]float64, len(b)/width)
	for i := range values {
		start := i * width
		v, err := readScalar(dtype, endian, b[start:start+width])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
