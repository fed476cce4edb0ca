package tiffcore

// Baseline tag codes (§6), named after the TIFF 6.0 and BigTIFF field names.
const (
	TagImageWidth                uint16 = 256
	TagImageLength               uint16 = 257
	TagBitsPerSample             uint16 = 258
	TagCompression               uint16 = 259
	TagPhotometricInterpretation uint16 = 262
	TagStripOffsets              uint16 = 273
	TagSamplesPerPixel           uint16 = 277
	TagRowsPerStrip              uint16 = 278
	TagStripByteCounts           uint16 = 279
	TagPlanarConfiguration       uint16 = 284
	TagPredictor                 uint16 = 317
	TagTileWidth                 uint16 = 322
	TagTileLength                uint16 = 323
	TagTileOffsets               uint16 = 324
	TagTileByteCounts            uint16 = 325
	TagSampleFormat               uint16 = 339
	TagImageDepth                uint16 = 32997
)

// BaselineTagSpec describes the baseline IFD fields this package reads in
// order to plan and decode pixel-region reads (§4.4, §6). Offset/byte-count
// and dimension containers declare Long8 as their primary type with Long and
// Short as promotable alternates, so the same spec serves both Classic
// files (which store them as Long) and BigTIFF files (which store them as
// Long8) without maintaining two registries.
var BaselineTagSpec = mustTagSpec(
	TagDescriptor{Code: TagImageWidth, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VScalarU32},
	TagDescriptor{Code: TagImageLength, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VScalarU32},
	TagDescriptor{Code: TagBitsPerSample, PrimaryType: TypeShort, Kind: VContainerU16, Optional: true},
	TagDescriptor{Code: TagCompression, PrimaryType: TypeShort, Kind: VScalarU16, Optional: true},
	TagDescriptor{Code: TagPhotometricInterpretation, PrimaryType: TypeShort, Kind: VScalarU16, Optional: true},
	TagDescriptor{Code: TagStripOffsets, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VContainerU64, Optional: true},
	TagDescriptor{Code: TagSamplesPerPixel, PrimaryType: TypeShort, Kind: VScalarU16, Optional: true},
	TagDescriptor{Code: TagRowsPerStrip, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VScalarU32, Optional: true},
	TagDescriptor{Code: TagStripByteCounts, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VContainerU64, Optional: true},
	TagDescriptor{Code: TagPlanarConfiguration, PrimaryType: TypeShort, Kind: VScalarU16, Optional: true},
	TagDescriptor{Code: TagPredictor, PrimaryType: TypeShort, Kind: VScalarU16, Optional: true},
	TagDescriptor{Code: TagTileWidth, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VScalarU32, Optional: true},
	TagDescriptor{Code: TagTileLength, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VScalarU32, Optional: true},
	TagDescriptor{Code: TagTileOffsets, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VContainerU64, Optional: true},
	TagDescriptor{Code: TagTileByteCounts, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VContainerU64, Optional: true},
	TagDescriptor{Code: TagSampleFormat, PrimaryType: TypeShort, Kind: VContainerU16, Optional: true},
	TagDescriptor{Code: TagImageDepth, PrimaryType: TypeLong8, Alternates: []DataType{TypeLong, TypeShort}, Kind: VScalarU32, Optional: true},
)

func mustTagSpec(descriptors ...TagDescriptor) *TagSpec {
	spec, err := NewTagSpec(descriptors...)
	if err != nil {
		panic(err)
	}
	return spec
}

// ShapeFromTags assembles an ImageShape from a Tags set extracted against
// BaselineTagSpec, applying the defaults TIFF 6.0 specifies for fields a
// well-formed file may omit (BitsPerSample=1, SamplesPerPixel=1,
// RowsPerStrip=entire image, PlanarConfiguration=Chunky).
func ShapeFromTags(t *Tags) (ImageShape, error) {
	width, ok := Get[uint32](t, TagImageWidth)
	if !ok {
		return ImageShape{}, newErr(InvalidTag, "missing ImageWidth")
	}
	height, ok := Get[uint32](t, TagImageLength)
	if !ok {
		return ImageShape{}, newErr(InvalidTag, "missing ImageLength")
	}

	shape := ImageShape{Width: width, Height: height, Depth: 1, SamplesPerPixel: 1, Planar: Chunky}

	if spp, ok := Get[uint16](t, TagSamplesPerPixel); ok {
		shape.SamplesPerPixel = spp
	}
	if bps, ok := Get[[]uint16](t, TagBitsPerSample); ok {
		shape.BitsPerSample = bps
	} else {
		shape.BitsPerSample = []uint16{1}
	}
	if planar, ok := Get[uint16](t, TagPlanarConfiguration); ok {
		shape.Planar = PlanarConfiguration(planar)
	}
	if depth, ok := Get[uint32](t, TagImageDepth); ok && depth > 0 {
		shape.Depth = depth
	}

	if tw, ok := Get[uint32](t, TagTileWidth); ok {
		shape.Tiled = true
		shape.TileWidth = tw
		if tl, ok := Get[uint32](t, TagTileLength); ok {
			shape.TileLength = tl
		}
		return shape, nil
	}

	shape.RowsPerStrip = height
	if rps, ok := Get[uint32](t, TagRowsPerStrip); ok && rps > 0 {
		shape.RowsPerStrip = rps
	}
	return shape, nil
}

// PageDescriptorFromTags assembles a PageDescriptor and its chunk storage
// from an extracted Tags set, dispatching to tiled or stripped storage per
// the presence of TileWidth (§4.5, §4.11).
func PageDescriptorFromTags(t *Tags, endian Endian) (PageDescriptor, error) {
	shape, err := ShapeFromTags(t)
	if err != nil {
		return PageDescriptor{}, err
	}

	page := PageDescriptor{
		Shape:       shape,
		Compression: CompressionNone,
		Predictor:   PredictorNone,
		SampleFormat: SampleUnsignedInt,
		Endian:      endian,
	}
	if c, ok := Get[uint16](t, TagCompression); ok {
		page.Compression = Compression(c)
	}
	if p, ok := Get[uint16](t, TagPredictor); ok {
		page.Predictor = Predictor(p)
	}
	if sf, ok := Get[[]uint16](t, TagSampleFormat); ok && len(sf) > 0 {
		page.SampleFormat = SampleFormat(sf[0])
	}

	if shape.Tiled {
		offsets, ok := Get[[]uint64](t, TagTileOffsets)
		if !ok {
			return PageDescriptor{}, newErr(InvalidTag, "tiled image missing TileOffsets")
		}
		counts, ok := Get[[]uint64](t, TagTileByteCounts)
		if !ok {
			return PageDescriptor{}, newErr(InvalidTag, "tiled image missing TileByteCounts")
		}
		tiled := TiledImageInfo{Shape: shape, TileOffsets: offsets, TileByteCounts: counts}
		page.Tiled = &tiled
		return page, nil
	}

	offsets, ok := Get[[]uint64](t, TagStripOffsets)
	if !ok {
		return PageDescriptor{}, newErr(InvalidTag, "stripped image missing StripOffsets")
	}
	counts, ok := Get[[]uint64](t, TagStripByteCounts)
	if !ok {
		return PageDescriptor{}, newErr(InvalidTag, "stripped image missing StripByteCounts")
	}
	stripped := StrippedImageInfo{Shape: shape, StripOffsets: offsets, StripByteCounts: counts}
	page.Stripped = &stripped
	return page, nil
}
