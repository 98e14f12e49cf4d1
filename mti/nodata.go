package mti

import "fmt"

// encodeNoDataField serializes an optional no_data sentinel into the 8-byte
// in-band slot (spec.md §4.6). Returns (kind, bytes); kind 0 means absent
// and bytes is all zero.
func encodeNoDataField(noData *float64, dtype DType, endian Endianness) (uint8, [8]byte, error) {
	var out [8]byte
	if noData == nil {
		return 0, out, nil
	}

	value := *noData
	if !isFinite(value) {
		return 0, out, newErr(InvalidFieldValue, "no_data must be a finite number or null")
	}

	width := dtype.ByteSize()
	encoded := make([]byte, width)
	if err := writeScalar(dtype, endian, value, false, encoded); err != nil {
		return 0, out, err
	}

	if endian == LittleEndian {
		copy(out[:width], encoded)
	} else {
		copy(out[8-width:], encoded)
	}

	return 1, out, nil
}

// decodeNoDataField parses the kind byte and 8-byte slot back into an
// optional scalar, enforcing the zero-padding rule from spec.md §4.6.
func decodeNoDataField(kind uint8, raw [8]byte, dtype DType, endian Endianness) (*float64, error) {
	if kind == 0 {
		for _, b := range raw {
			if b != 0 {
				return nil, newErr(InvalidFieldValue, "no_data_value must be zero when no_data_kind=0")
			}
		}
		return nil, nil
	}

	if kind != 1 {
		return nil, newErr(InvalidFieldValue, fmt.Sprintf("unsupported no_data kind %d", kind))
	}

	width := dtype.ByteSize()
	var valueBytes []byte

	if endian == LittleEndian {
		for _, b := range raw[width:] {
			if b != 0 {
				return nil, newErr(InvalidFieldValue, "no_data_value must pad most significant bytes with zero")
			}
		}
		valueBytes = raw[:width]
	} else {
		pad := 8 - width
		for _, b := range raw[:pad] {
			if b != 0 {
				return nil, newErr(InvalidFieldValue, "no_data_value must pad most significant bytes with zero")
			}
		}
		valueBytes = raw[pad:]
	}

	value, err := readScalar(dtype, endian, valueBytes)
	if err != nil {
		return nil, err
	}
	if !isFinite(value) {
		return nil, newErr(InvalidFieldValue, "no_data numeric value must be finite")
	}

	return &value, nil
}
