package tiffcore

import (
	"bytes"
	"compress/flate"
	"image"
	"image/jpeg"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/image/tiff/lzw"
)

// drainToBytes copies r to completion through a pooled scratch buffer,
// returning an independently-owned copy of the result.
func drainToBytes(r io.Reader) ([]byte, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	if _, err := io.Copy(bb, r); err != nil {
		return nil, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.B)
	return out, nil
}

// DecodeParams carries everything the decoder needs beyond the compressed
// bytes themselves: the chunk's nominal pixel extent, its sample layout, and
// the predictor to reverse after decompression (§4.9).
type DecodeParams struct {
	Width, Height   int
	SamplesPerPixel int
	BitsPerSample   int
	SampleFormat    SampleFormat
	Compression     Compression
	Predictor       Predictor
	Endian          Endian
}

// DecodedSamples holds one chunk's decoded pixels as a Go slice of the
// concrete sample type. Exactly one of the typed fields is populated,
// selected by BitsPerSample/SampleFormat.
type DecodedSamples struct {
	U8  []uint8
	U16 []uint16
	U32 []uint32
	U64 []uint64
	I8  []int8
	I16 []int16
	I32 []int32
	I64 []int64
	F32 []float32
	F64 []float64
}

// Decoder decompresses one chunk and reverses its predictor. A Decoder holds
// a reusable zstd decoder instance plus a per-instance scratch buffer and
// must not be used from more than one goroutine at a time; ParallelStrategy
// callers should give each worker its own Decoder.
type Decoder struct {
	zstdDec *zstd.Decoder
	// scratch backs DecodeReuse's output: its typed slices are grown on
	// demand and reused across calls instead of reallocating every chunk.
	scratch DecodedSamples
}

// NewDecoder constructs a Decoder. The zstd decoder is created lazily on
// first use since most images never touch it.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decompresses raw and reverses the predictor declared in params,
// returning the chunk's samples as a freshly allocated, independently owned
// slice safe to retain past the next call (e.g. for a decode cache).
func (d *Decoder) Decode(raw []byte, params DecodeParams) (DecodedSamples, error) {
	var out DecodedSamples
	return d.decodeCopy(&out, raw, params)
}

// DecodeReuse decompresses raw like Decode, but writes into this Decoder's
// own scratch buffer rather than allocating a fresh one, growing it only
// when the previous call's capacity is too small. The returned slice is
// only valid until the next Decode/DecodeReuse call on the same Decoder;
// callers that need to retain the result (a decode cache, a result handed
// across a goroutine boundary) must use Decode instead.
func (d *Decoder) DecodeReuse(raw []byte, params DecodeParams) (DecodedSamples, error) {
	return d.decodeCopy(&d.scratch, raw, params)
}

func (d *Decoder) decodeCopy(dst *DecodedSamples, raw []byte, params DecodeParams) (DecodedSamples, error) {
	plain, err := d.decompress(raw, params)
	if err != nil {
		return DecodedSamples{}, err
	}

	if err := populateSamples(dst, plain, params); err != nil {
		return DecodedSamples{}, err
	}

	if err := applyPredictor(*dst, params); err != nil {
		return DecodedSamples{}, err
	}

	return *dst, nil
}

func (d *Decoder) decompress(raw []byte, params DecodeParams) ([]byte, error) {
	switch params.Compression {
	case CompressionNone:
		return raw, nil

	case CompressionPackBits:
		out, err := packBitsDecode(raw)
		if err != nil {
			return nil, wrapErr(CompressionError, err, "packbits decompression failed")
		}
		return out, nil

	case CompressionZSTD, CompressionZSTDAlternate:
		if d.zstdDec == nil {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				return nil, wrapErr(CompressionError, err, "failed to initialise zstd decoder")
			}
			d.zstdDec = dec
		}
		out, err := d.zstdDec.DecodeAll(raw, nil)
		if err != nil {
			return nil, wrapErr(CompressionError, err, "zstd decompression failed")
		}
		return out, nil

	case CompressionLZW:
		r := lzw.NewReader(bytes.NewReader(raw), lzw.MSB, 8)
		defer r.Close()
		out, err := drainToBytes(r)
		if err != nil {
			return nil, wrapErr(CompressionError, err, "lzw decompression failed")
		}
		return out, nil

	case CompressionDeflate, CompressionDeflateAlt:
		r := flate.NewReader(bytes.NewReader(raw))
		defer r.Close()
		out, err := drainToBytes(r)
		if err != nil {
			return nil, wrapErr(CompressionError, err, "deflate decompression failed")
		}
		return out, nil

	case CompressionJPEG:
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, wrapErr(CompressionError, err, "jpeg decompression failed")
		}
		return flattenJPEG(img, params), nil

	default:
		return nil, newErr(UnsupportedFeature, "unsupported compression code %d", params.Compression)
	}
}

// flattenJPEG re-packs a decoded JPEG image into interleaved 8-bit samples
// matching params' declared sample layout, on a best-effort basis: the
// package makes no guarantee about colour-managed, 12-bit, or non-YCbCr JPEG
// tiles (Non-goals, §1) — it simply reads back whatever image/jpeg decoded.
func flattenJPEG(img image.Image, params DecodeParams) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, w*h*params.SamplesPerPixel)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			switch params.SamplesPerPixel {
			case 1:
				out[i] = byte(r >> 8)
				i++
			case 2:
				out[i] = byte(r >> 8)
				out[i+1] = byte(a >> 8)
				i += 2
			case 4:
				out[i] = byte(r >> 8)
				out[i+1] = byte(g >> 8)
				out[i+2] = byte(b >> 8)
				out[i+3] = byte(a >> 8)
				i += 4
			default:
				out[i] = byte(r >> 8)
				out[i+1] = byte(g >> 8)
				out[i+2] = byte(b >> 8)
				i += 3
			}
		}
	}
	return out
}

// growU8/growU16/... return dst resliced to count if its capacity already
// covers it, reusing the backing array; otherwise they allocate fresh
// storage of exactly count elements. This is what lets DecodeReuse avoid a
// make call on every chunk once a Decoder has decoded one chunk of a given
// sample type and size.
func growU8(dst []uint8, count int) []uint8 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]uint8, count)
}
func growU16(dst []uint16, count int) []uint16 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]uint16, count)
}
func growU32(dst []uint32, count int) []uint32 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]uint32, count)
}
func growU64(dst []uint64, count int) []uint64 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]uint64, count)
}
func growI8(dst []int8, count int) []int8 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]int8, count)
}
func growI16(dst []int16, count int) []int16 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]int16, count)
}
func growI32(dst []int32, count int) []int32 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]int32, count)
}
func growI64(dst []int64, count int) []int64 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]int64, count)
}
func growF32(dst []float32, count int) []float32 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]float32, count)
}
func growF64(dst []float64, count int) []float64 {
	if cap(dst) >= count {
		return dst[:count]
	}
	return make([]float64, count)
}

// populateSamples decodes plain's wire-format bytes into dst's slice for
// params' declared sample type, reusing whichever of dst's typed slices
// already has enough capacity (the DecodeReuse path) instead of allocating,
// and zeroing the other typed fields so exactly one stays populated.
func populateSamples(dst *DecodedSamples, plain []byte, params DecodeParams) error {
	count := params.Width * params.Height * params.SamplesPerPixel
	width := tiffTypeSize(sampleWireType(params))
	needed := uint64(count) * width
	if uint64(len(plain)) < needed {
		return newErr(UnexpectedEndOfFile, "decompressed chunk too short: need %d bytes, got %d", needed, len(plain))
	}
	bo := params.Endian.byteOrder()

	prev := *dst
	*dst = DecodedSamples{}
	switch {
	case params.SampleFormat == SampleIEEEFloat && params.BitsPerSample == 32:
		dst.F32 = growF32(prev.F32, count)
		for i := range dst.F32 {
			dst.F32[i] = math.Float32frombits(bo.Uint32(plain[i*4:]))
		}
	case params.SampleFormat == SampleIEEEFloat && params.BitsPerSample == 64:
		dst.F64 = growF64(prev.F64, count)
		for i := range dst.F64 {
			dst.F64[i] = math.Float64frombits(bo.Uint64(plain[i*8:]))
		}
	case params.BitsPerSample == 8 && params.SampleFormat == SampleSignedInt:
		dst.I8 = growI8(prev.I8, count)
		for i := range dst.I8 {
			dst.I8[i] = int8(plain[i])
		}
	case params.BitsPerSample == 8:
		dst.U8 = growU8(prev.U8, count)
		copy(dst.U8, plain[:count])
	case params.BitsPerSample == 16 && params.SampleFormat == SampleSignedInt:
		dst.I16 = growI16(prev.I16, count)
		for i := range dst.I16 {
			dst.I16[i] = int16(bo.Uint16(plain[i*2:]))
		}
	case params.BitsPerSample == 16:
		dst.U16 = growU16(prev.U16, count)
		for i := range dst.U16 {
			dst.U16[i] = bo.Uint16(plain[i*2:])
		}
	case params.BitsPerSample == 32 && params.SampleFormat == SampleSignedInt:
		dst.I32 = growI32(prev.I32, count)
		for i := range dst.I32 {
			dst.I32[i] = int32(bo.Uint32(plain[i*4:]))
		}
	case params.BitsPerSample == 32:
		dst.U32 = growU32(prev.U32, count)
		for i := range dst.U32 {
			dst.U32[i] = bo.Uint32(plain[i*4:])
		}
	case params.BitsPerSample == 64 && params.SampleFormat == SampleSignedInt:
		dst.I64 = growI64(prev.I64, count)
		for i := range dst.I64 {
			dst.I64[i] = int64(bo.Uint64(plain[i*8:]))
		}
	case params.BitsPerSample == 64:
		dst.U64 = growU64(prev.U64, count)
		for i := range dst.U64 {
			dst.U64[i] = bo.Uint64(plain[i*8:])
		}
	default:
		*dst = DecodedSamples{}
		return newErr(UnsupportedFeature, "unsupported bits-per-sample %d", params.BitsPerSample)
	}
	return nil
}

func sampleWireType(params DecodeParams) DataType {
	switch {
	case params.SampleFormat == SampleIEEEFloat && params.BitsPerSample == 32:
		return TypeFloat
	case params.SampleFormat == SampleIEEEFloat && params.BitsPerSample == 64:
		return TypeDouble
	case params.BitsPerSample == 8:
		return TypeByte
	case params.BitsPerSample == 16:
		return TypeShort
	case params.BitsPerSample == 32:
		return TypeLong
	default:
		return TypeLong8
	}
}

func applyPredictor(samples DecodedSamples, params DecodeParams) error {
	if params.Predictor == PredictorNone || params.Predictor == 0 {
		return nil
	}
	stride := params.Width * params.SamplesPerPixel

	switch params.Predictor {
	case PredictorHorizontal:
		switch {
		case samples.U8 != nil:
			ApplyHorizontalPredictorInt(samples.U8, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.U16 != nil:
			ApplyHorizontalPredictorInt(samples.U16, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.U32 != nil:
			ApplyHorizontalPredictorInt(samples.U32, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.U64 != nil:
			ApplyHorizontalPredictorInt(samples.U64, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.I8 != nil:
			ApplyHorizontalPredictorInt(samples.I8, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.I16 != nil:
			ApplyHorizontalPredictorInt(samples.I16, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.I32 != nil:
			ApplyHorizontalPredictorInt(samples.I32, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.I64 != nil:
			ApplyHorizontalPredictorInt(samples.I64, params.Width, params.Height, stride, params.SamplesPerPixel)
		default:
			return newErr(UnsupportedFeature, "horizontal predictor is not defined for floating point samples")
		}
	case PredictorFloatingPoint:
		switch {
		case samples.F32 != nil:
			ApplyHorizontalPredictorFloat32(samples.F32, params.Width, params.Height, stride, params.SamplesPerPixel)
		case samples.F64 != nil:
			ApplyHorizontalPredictorFloat64(samples.F64, params.Width, params.Height, stride, params.SamplesPerPixel)
		default:
			return newErr(UnsupportedFeature, "floating point predictor requires float samples")
		}
	default:
		return newErr(UnsupportedFeature, "unsupported predictor code %d", params.Predictor)
	}
	return nil
}
