package tiffcore

// TileIdentity locates one tile or strip within its plane by tile-grid
// coordinate, plus which plane it belongs to under planar storage.
type TileIdentity struct {
	TileX, TileY, TileZ uint32
	Plane               uint32
}

// FileSpan is a byte range within the source file: a chunk's compressed
// payload location.
type FileSpan struct {
	Offset     uint64
	ByteCount  uint64
}

// End returns the exclusive end offset of the span.
func (s FileSpan) End() uint64 { return s.Offset + s.ByteCount }

// Chunk describes one tile or strip's placement in both pixel space and file
// space, derived from a shape plus its offset/byte-count tag containers
// (§4.5, §4.6). Width/Height/Depth are always the nominal chunk size, even
// at the right/bottom edge of the image — per the resolution of Open
// Question 1, clipping to the image boundary is the assembler's job, not the
// planner's or decoder's.
type Chunk struct {
	Identity TileIdentity
	Span     FileSpan
	PixelX, PixelY, PixelZ uint32
	Width, Height, Depth   uint32
	ChunkIndex             uint64
}

// TiledImageInfo derives per-tile geometry and file location for a tiled
// image, mirroring the tile-index arithmetic of the C++ tiling header this
// package's planner is ported from.
type TiledImageInfo struct {
	Shape        ImageShape
	TileOffsets  []uint64
	TileByteCounts []uint64
}

func (t TiledImageInfo) tilesAcross() uint32 { return t.Shape.TilesAcross() }
func (t TiledImageInfo) tilesDown() uint32   { return t.Shape.TilesDown() }

// tileIndex computes the flat index into TileOffsets/TileByteCounts for a
// tile coordinate, matching get_tile_info_3d's chunky/planar addressing: Z
// slices stack depth-first, then for planar storage each sample plane owns a
// further contiguous run of tilesPerPlane entries; plane is ignored for
// chunky storage.
func (t TiledImageInfo) tileIndex(id TileIdentity) uint64 {
	tilesAcross := uint64(t.tilesAcross())
	tilesDown := uint64(t.tilesDown())
	tilesPerSlice := tilesAcross * tilesDown
	idx := uint64(id.TileZ)*tilesPerSlice + uint64(id.TileY)*tilesAcross + uint64(id.TileX)
	if t.Shape.Planar == Planar {
		depth := t.Shape.Depth
		if depth == 0 {
			depth = 1
		}
		tilesPerPlane := tilesPerSlice * uint64(depth)
		idx += uint64(id.Plane) * tilesPerPlane
	}
	return idx
}

// GetTileInfo returns the Chunk for the given tile coordinate.
func (t TiledImageInfo) GetTileInfo(id TileIdentity) (Chunk, error) {
	if id.TileX >= t.tilesAcross() || id.TileY >= t.tilesDown() {
		return Chunk{}, newErr(OutOfBounds, "tile coordinate (%d,%d) out of range", id.TileX, id.TileY)
	}
	idx := t.tileIndex(id)
	if idx >= uint64(len(t.TileOffsets)) || idx >= uint64(len(t.TileByteCounts)) {
		return Chunk{}, newErr(OutOfBounds, "tile index %d out of range", idx)
	}
	return Chunk{
		Identity: id,
		Span:     FileSpan{Offset: t.TileOffsets[idx], ByteCount: t.TileByteCounts[idx]},
		PixelX:   id.TileX * t.Shape.TileWidth,
		PixelY:   id.TileY * t.Shape.TileLength,
		PixelZ:   id.TileZ,
		Width:    t.Shape.TileWidth,
		Height:   t.Shape.TileLength,
		Depth:    1,
		ChunkIndex: idx,
	}, nil
}

// StrippedImageInfo is the strip-storage analogue of TiledImageInfo. Strips
// span the full image width; only the Y axis is tiled.
type StrippedImageInfo struct {
	Shape            ImageShape
	StripOffsets     []uint64
	StripByteCounts  []uint64
}

func (s StrippedImageInfo) stripsPerPlane() uint32 { return s.Shape.StripsPerImage() }

func (s StrippedImageInfo) stripIndex(stripY uint32, plane uint32) uint64 {
	idx := uint64(stripY)
	if s.Shape.Planar == Planar {
		idx += uint64(plane) * uint64(s.stripsPerPlane())
	}
	return idx
}

// GetStripInfo returns the Chunk for the strip at row-group stripY in plane.
func (s StrippedImageInfo) GetStripInfo(stripY uint32, plane uint32) (Chunk, error) {
	if stripY >= s.stripsPerPlane() {
		return Chunk{}, newErr(OutOfBounds, "strip index %d out of range", stripY)
	}
	idx := s.stripIndex(stripY, plane)
	if idx >= uint64(len(s.StripOffsets)) || idx >= uint64(len(s.StripByteCounts)) {
		return Chunk{}, newErr(OutOfBounds, "strip index %d out of range", idx)
	}
	return Chunk{
		Identity:   TileIdentity{TileX: 0, TileY: stripY, TileZ: 0, Plane: plane},
		Span:       FileSpan{Offset: s.StripOffsets[idx], ByteCount: s.StripByteCounts[idx]},
		PixelX:     0,
		PixelY:     stripY * s.Shape.RowsPerStrip,
		PixelZ:     0,
		Width:      s.Shape.Width,
		Height:     s.Shape.RowsPerStrip,
		Depth:      1,
		ChunkIndex: idx,
	}, nil
}
