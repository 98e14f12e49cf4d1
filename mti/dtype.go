package mti

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DType is one of the eight numeric sample types MTI1 supports.
type DType uint8

const (
	Uint8   DType = 0
	Int8    DType = 1
	Uint16  DType = 2
	Int16   DType = 3
	Uint32  DType = 4
	Int32   DType = 5
	Float32 DType = 6
	Float64 DType = 7
)

// Endianness selects byte order for sample and no-data encoding.
type Endianness uint8

const (
	LittleEndian Endianness = 0
	BigEndian    Endianness = 1
)

// ByteSize returns the on-disk width of one scalar of this dtype.
func (d DType) ByteSize() int {
	switch d {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

func (d DType) valid() bool {
	return d <= Float64
}

func (d DType) isInteger() bool {
	switch d {
	case Uint8, Int8, Uint16, Int16, Uint32, Int32:
		return true
	default:
		return false
	}
}

func dtypeFromCode(code uint8) (DType, error) {
	d := DType(code)
	if !d.valid() {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("unsupported packed dtype code %d", code))
	}
	return d, nil
}

func (d DType) String() string {
	switch d {
	case Uint8:
		return "UINT8"
	case Int8:
		return "INT8"
	case Uint16:
		return "UINT16"
	case Int16:
		return "INT16"
	case Uint32:
		return "UINT32"
	case Int32:
		return "INT32"
	case Float32:
		return "FLOAT32"
	case Float64:
		return "FLOAT64"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(d))
	}
}

// ParseDType parses the CLI/JSON spelling of a dtype.
func ParseDType(s string) (DType, error) {
	switch s {
	case "uint8", "UINT8":
		return Uint8, nil
	case "int8", "INT8":
		return Int8, nil
	case "uint16", "UINT16":
		return Uint16, nil
	case "int16", "INT16":
		return Int16, nil
	case "uint32", "UINT32":
		return Uint32, nil
	case "int32", "INT32":
		return Int32, nil
	case "float32", "FLOAT32":
		return Float32, nil
	case "float64", "FLOAT64":
		return Float64, nil
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("unrecognized dtype %q", s))
	}
}

func (e Endianness) String() string {
	if e == BigEndian {
		return "BIG"
	}
	return "LITTLE"
}

// ParseEndianness parses the CLI/JSON spelling of a byte order.
func ParseEndianness(s string) (Endianness, error) {
	switch s {
	case "little", "LITTLE":
		return LittleEndian, nil
	case "big", "BIG":
		return BigEndian, nil
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("unrecognized endianness %q", s))
	}
}

// writeScalar validates value against dtype's range/integrality rules and
// writes it into out, which must be exactly dtype.ByteSize() bytes.
// allowFloatNaN permits NaN through for float dtypes (used for payload
// samples, spec.md §4.2); the no-data slot never allows it.
func writeScalar(dtype DType, endian Endianness, value float64, allowFloatNaN bool, out []byte) error {
	if len(out) != dtype.ByteSize() {
		return newErr(InternalFailure, "scalar write buffer has wrong length")
	}

	order := byteOrder(endian)

	switch dtype {
	case Uint8:
		v, err := validateIntegerRange(value, 0, math.MaxUint8)
		if err != nil {
			return err
		}
		out[0] = byte(v)
	case Int8:
		v, err := validateIntegerRange(value, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		out[0] = byte(int8(v))
	case Uint16:
		v, err := validateIntegerRange(value, 0, math.MaxUint16)
		if err != nil {
			return err
		}
		order.PutUint16(out, uint16(v))
	case Int16:
		v, err := validateIntegerRange(value, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		order.PutUint16(out, uint16(int16(v)))
	case Uint32:
		v, err := validateIntegerRange(value, 0, math.MaxUint32)
		if err != nil {
			return err
		}
		order.PutUint32(out, uint32(v))
	case Int32:
		v, err := validateIntegerRange(value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		order.PutUint32(out, uint32(int32(v)))
	case Float32:
		if !(isFinite(value) || (allowFloatNaN && math.IsNaN(value))) {
			return newErr(InvalidFieldValue, fmt.Sprintf("non-finite value: %v", value))
		}
		v := float32(value)
		if isFinite(value) && !isFinite32(v) {
			return newErr(InvalidFieldValue, fmt.Sprintf("out-of-range value for float32: %v", value))
		}
		order.PutUint32(out, math.Float32bits(v))
	case Float64:
		if !(isFinite(value) || (allowFloatNaN && math.IsNaN(value))) {
			return newErr(InvalidFieldValue, fmt.Sprintf("non-finite value: %v", value))
		}
		order.PutUint64(out, math.Float64bits(value))
	default:
		return newErr(InternalFailure, fmt.Sprintf("unreachable dtype %d in writeScalar", dtype))
	}

	return nil
}

// readScalar decodes one scalar of dtype from b, which must be exactly
// dtype.ByteSize() bytes. No range checking: the byte width and signedness
// already constrain the result.
func readScalar(dtype DType, endian Endianness, b []byte) (float64, error) {
	if len(b) != dtype.ByteSize() {
		return 0, newErr(InvalidPayloadLength, "payload chunk size does not match dtype width")
	}

	order := byteOrder(endian)

	switch dtype {
	case Uint8:
		return float64(b[0]), nil
	case Int8:
		return float64(int8(b[0])), nil
	case Uint16:
		return float64(order.Uint16(b)), nil
	case Int16:
		return float64(int16(order.Uint16(b))), nil
	case Uint32:
		return float64(order.Uint32(b)), nil
	case Int32:
		return float64(int32(order.Uint32(b))), nil
	case Float32:
		return float64(math.Float32frombits(order.Uint32(b))), nil
	case Float64:
		return math.Float64frombits(order.Uint64(b)), nil
	default:
		return 0, newErr(InternalFailure, fmt.Sprintf("unreachable dtype %d in readScalar", dtype))
	}
}

func byteOrder(endian Endianness) binary.ByteOrder {
	if endian == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isFinite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func validateIntegerRange(value, min, max float64) (float64, error) {
	if !isFinite(value) {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("non-finite value: %v", value))
	}
	if value != math.Trunc(value) {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("non-integer value: %v", value))
	}
	if value < min || value > max {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("out-of-range value: %v", value))
	}
	return value, nil
}

func packDTypeEndian(dtype DType, endian Endianness) uint8 {
	var endianBit uint8
	if endian == BigEndian {
		endianBit = 0x80
	}
	return endianBit | uint8(dtype)
}

func unpackDTypeEndian(value uint8) (DType, Endianness, error) {
	dtype, err := dtypeFromCode(value & 0x7f)
	if err != nil {
		return 0, 0, err
	}
	endian := LittleEndian
	if value&0x80 != 0 {
		endian = BigEndian
	}
	return dtype, endian, nil
}
