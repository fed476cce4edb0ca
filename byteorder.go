package tiffcore

import (
	"encoding/binary"
	"math"
)

// Endian names the two byte orders a TIFF stream can declare via its "II" /
// "MM" mark.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

// byteOrder returns the standard library codec matching e.
func (e Endian) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// wireInteger constrains byteswap to the integer widths the TIFF format
// actually stores on the wire.
type wireInteger interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// byteswap reverses the byte order of an integer value. 8-bit widths are the
// identity transform, matching §4.1.
func byteswap[T wireInteger](v T) T {
	switch any(v).(type) {
	case uint8, int8:
		return v
	case uint16:
		return T(bits16(uint16(v)))
	case int16:
		return T(bits16(uint16(v)))
	case uint32:
		return T(bits32(uint32(v)))
	case int32:
		return T(bits32(uint32(v)))
	case uint64:
		return T(bits64(uint64(v)))
	case int64:
		return T(bits64(uint64(v)))
	}
	return v
}

func bits16(v uint16) uint16 {
	return v<<8 | v>>8
}

func bits32(v uint32) uint32 {
	return v<<24 | (v&0xff00)<<8 | (v>>8)&0xff00 | v>>24
}

func bits64(v uint64) uint64 {
	return v<<56 | (v&0xff00)<<40 | (v&0xff0000)<<24 | (v&0xff000000)<<8 |
		(v>>8)&0xff000000 | (v>>24)&0xff0000 | (v>>40)&0xff00 | v>>56
}

// byteswapFloat32 reinterprets f as its bit pattern, swaps, and reinterprets
// back, per §4.1's float handling.
func byteswapFloat32(f float32) float32 {
	return math.Float32frombits(bits32(math.Float32bits(f)))
}

// byteswapFloat64 is the 64-bit analogue of byteswapFloat32.
func byteswapFloat64(f float64) float64 {
	return math.Float64frombits(bits64(math.Float64bits(f)))
}

// convertEndianInt performs convert_endianness for an integer: a no-op when
// source equals target, byteswap otherwise.
func convertEndianInt[T wireInteger](v T, source, target Endian) T {
	if source == target {
		return v
	}
	return byteswap(v)
}

// convertEndianFloat32 is the float32 counterpart of convertEndianInt.
func convertEndianFloat32(v float32, source, target Endian) float32 {
	if source == target {
		return v
	}
	return byteswapFloat32(v)
}

// convertEndianFloat64 is the float64 counterpart of convertEndianInt.
func convertEndianFloat64(v float64, source, target Endian) float64 {
	if source == target {
		return v
	}
	return byteswapFloat64(v)
}
