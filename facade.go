package tiffcore

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// PageDescriptor is everything the façade needs to plan and decode reads
// against one IFD's image (§4.11): its geometry, its chunk storage (tiled or
// stripped), and the compression/predictor/endianness parameters every
// chunk in the page shares.
type PageDescriptor struct {
	Shape   ImageShape
	Tiled   *TiledImageInfo
	Stripped *StrippedImageInfo

	Compression  Compression
	Predictor    Predictor
	SampleFormat SampleFormat
	Endian       Endian
}

// ReaderOptions configures an ImageReader façade.
type ReaderOptions struct {
	Strategy ReadStrategy
	Batching BatchingParams
	// DecodeCacheSize is the number of decoded chunks to keep in an LRU
	// cache, keyed by file span. Zero disables caching.
	DecodeCacheSize int
}

// ImageReader is the top-level façade: plan a region, read its chunks with
// the configured strategy, decode them, and assemble the result into a
// caller-owned OutputBuffer (§4.11).
type ImageReader struct {
	reader Reader
	opts   ReaderOptions
	// decoders hands each per-chunk process call its own Decoder for both
	// decoding and assembly, since a Decoder holds mutable zstd decoder state
	// and scratch samples, and ParallelStrategy invokes the per-chunk process
	// callback from multiple goroutines concurrently.
	decoders sync.Pool
	cache    *lru.Cache
}

// NewImageReader constructs a façade over r. If opts.Strategy is nil,
// SequentialStrategy is used.
func NewImageReader(r Reader, opts ReaderOptions) (*ImageReader, error) {
	if opts.Strategy == nil {
		opts.Strategy = SequentialStrategy{}
	}

	ir := &ImageReader{reader: r, opts: opts}
	ir.decoders.New = func() interface{} { return NewDecoder() }

	if opts.DecodeCacheSize > 0 {
		cache, err := lru.New(opts.DecodeCacheSize)
		if err != nil {
			return nil, wrapErr(MemoryError, err, "failed to create decode cache")
		}
		ir.cache = cache
	}

	return ir, nil
}

type decodeCacheKey struct {
	offset uint64
	count  uint64
}

// ReadRegion plans, reads, decodes, and assembles reg from page into dst.
// dst's Depth/Height/Width describe the pixel box being filled and outOrigin
// locates that box in the same pixel coordinate space as reg.
func (ir *ImageReader) ReadRegion(page PageDescriptor, reg ImageRegion, dst *OutputBuffer, outOrigin [3]int) error {
	var chunks []Chunk
	var err error
	switch {
	case page.Tiled != nil:
		chunks, err = PlanTiledRegion(*page.Tiled, reg)
	case page.Stripped != nil:
		chunks, err = PlanStrippedRegion(*page.Stripped, reg)
	default:
		return newErr(InvalidArgument, "page descriptor has neither tiled nor stripped chunk storage")
	}
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	process := func(c Chunk, raw []byte) error {
		// The Decoder stays checked out until CopyChunkRegion has consumed
		// its result, since DecodeReuse's samples alias the Decoder's scratch.
		dec := ir.decoders.Get().(*Decoder)
		defer ir.decoders.Put(dec)
		samples, err := ir.decodeChunk(dec, c, raw, page)
		if err != nil {
			return wrapErr(CompressionError, err, "failed to decode chunk %d", c.ChunkIndex)
		}

		srcLayout := DHWC
		srcChannels := int(page.Shape.SamplesPerPixel)
		if page.Shape.Planar == Planar {
			srcLayout = CDHW
			srcChannels = 1
		}

		chunkOrigin := [3]int{int(c.PixelX), int(c.PixelY), int(c.PixelZ)}
		CopyChunkRegion(dst, outOrigin, &samples, srcLayout, int(c.Depth), int(c.Height), int(c.Width), srcChannels, chunkOrigin)
		return nil
	}

	return ir.opts.Strategy.Execute(ir.reader, chunks, process)
}

func (ir *ImageReader) decodeChunk(dec *Decoder, c Chunk, raw []byte, page PageDescriptor) (DecodedSamples, error) {
	key := decodeCacheKey{offset: c.Span.Offset, count: c.Span.ByteCount}
	if ir.cache != nil {
		if cached, ok := ir.cache.Get(key); ok {
			return cached.(DecodedSamples), nil
		}
	}

	bitsPerSample := 8
	if len(page.Shape.BitsPerSample) > 0 {
		bitsPerSample = int(page.Shape.BitsPerSample[0])
	}
	samplesPerPixel := int(page.Shape.SamplesPerPixel)
	if page.Shape.Planar == Planar {
		samplesPerPixel = 1
	}

	params := DecodeParams{
		Width:           int(c.Width),
		Height:          int(c.Height),
		SamplesPerPixel: samplesPerPixel,
		BitsPerSample:   bitsPerSample,
		SampleFormat:    page.SampleFormat,
		Compression:     page.Compression,
		Predictor:       page.Predictor,
		Endian:          page.Endian,
	}

	// Without a decode cache, nothing retains the result past CopyChunkRegion
	// assembling it into dst, so DecodeReuse's decoder-owned scratch buffer is
	// safe and avoids a fresh allocation per chunk. A cache entry, by
	// contrast, must own independent storage, so it goes through Decode.
	var samples DecodedSamples
	var err error
	if ir.cache != nil {
		samples, err = dec.Decode(raw, params)
	} else {
		samples, err = dec.DecodeReuse(raw, params)
	}
	if err != nil {
		return DecodedSamples{}, err
	}

	if ir.cache != nil {
		ir.cache.Add(key, samples)
	}
	return samples, nil
}

func (p PageDescriptor) String() string {
	kind := "stripped"
	if p.Tiled != nil {
		kind = "tiled"
	}
	return fmt.Sprintf("PageDescriptor(%s, %dx%d, compression=%d, predictor=%d)", kind, p.Shape.Width, p.Shape.Height, p.Compression, p.Predictor)
}
