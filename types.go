package tiffcore

// DataType is the TIFF on-wire type code stored in a raw tag entry (§3).
type DataType uint16

const (
	TypeByte      DataType = 1
	TypeASCII     DataType = 2
	TypeShort     DataType = 3
	TypeLong      DataType = 4
	TypeRational  DataType = 5
	TypeSByte     DataType = 6
	TypeUndefined DataType = 7
	TypeSShort    DataType = 8
	TypeSLong     DataType = 9
	TypeSRational DataType = 10
	TypeFloat     DataType = 11
	TypeDouble    DataType = 12
	TypeIFD       DataType = 13
	TypeLong8     DataType = 16
	TypeSLong8    DataType = 17
	TypeIFD8      DataType = 18
)

// tiffTypeSize is the fixed table from §4.1: bytes occupied by one value of
// the declared type.
func tiffTypeSize(t DataType) uint64 {
	switch t {
	case TypeByte, TypeASCII, TypeSByte, TypeUndefined:
		return 1
	case TypeShort, TypeSShort:
		return 2
	case TypeLong, TypeSLong, TypeFloat, TypeIFD:
		return 4
	case TypeRational, TypeSRational, TypeDouble, TypeLong8, TypeSLong8, TypeIFD8:
		return 8
	default:
		return 0
	}
}

// Compression identifies the codec a tiled or stripped chunk was compressed
// with (§6, "Compression codes").
type Compression uint16

const (
	CompressionNone           Compression = 1
	CompressionLZW            Compression = 5
	CompressionJPEG           Compression = 7
	CompressionDeflate        Compression = 8
	CompressionPackBits       Compression = 32773
	CompressionDeflateAlt     Compression = 32946
	CompressionZSTD           Compression = 50000
	CompressionZSTDAlternate  Compression = 34926
)

// Predictor identifies the reversible per-row transform applied before
// compression (§6).
type Predictor uint16

const (
	PredictorNone           Predictor = 1
	PredictorHorizontal     Predictor = 2
	PredictorFloatingPoint  Predictor = 3
)

// PlanarConfiguration distinguishes chunky (interleaved samples) from planar
// (separate full-image planes) storage (§3).
type PlanarConfiguration uint16

const (
	Chunky PlanarConfiguration = 1
	Planar PlanarConfiguration = 2
)

// SampleFormat is the domain interpretation of a raw sample's bits (§3).
type SampleFormat uint16

const (
	SampleUnsignedInt SampleFormat = 1
	SampleSignedInt   SampleFormat = 2
	SampleIEEEFloat   SampleFormat = 3
	SampleUndefined   SampleFormat = 4
)

// Layout names a memory-layout ordering over (Depth, Height, Width, Channel)
// axes that the assembler can produce in the caller's output buffer (§4.10).
type Layout uint8

const (
	DHWC Layout = iota
	DCHW
	CDHW
)

// Rational is an immutable numerator/denominator pair, unsigned variant.
type Rational struct {
	Numerator, Denominator uint32
}

// Float64 returns the rational as a floating point ratio. A zero denominator
// yields 0, matching the tolerant behaviour of the reference decoders in the
// retrieved pack rather than panicking on malformed metadata.
func (r Rational) Float64() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

// SRational is the signed counterpart of Rational.
type SRational struct {
	Numerator, Denominator int32
}

// Float64 is the signed analogue of Rational.Float64.
func (r SRational) Float64() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}
