package tiffcore

import "testing"

func TestGetTileInfoChunky(t *testing.T) {
	shape := ImageShape{Width: 64, Height: 64, Depth: 1, Tiled: true, TileWidth: 32, TileLength: 32, Planar: Chunky}
	info := TiledImageInfo{
		Shape:          shape,
		TileOffsets:    []uint64{100, 200, 300, 400},
		TileByteCounts: []uint64{10, 20, 30, 40},
	}
	chunk, err := info.GetTileInfo(TileIdentity{TileX: 1, TileY: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.ChunkIndex != 3 {
		t.Errorf("expected tile (1,1) to be flat index 3 (row-major over a 2x2 grid), got %d", chunk.ChunkIndex)
	}
	if chunk.PixelX != 32 || chunk.PixelY != 32 {
		t.Errorf("expected pixel origin (32,32), got (%d,%d)", chunk.PixelX, chunk.PixelY)
	}
	if chunk.Span.Offset != 400 || chunk.Span.ByteCount != 40 {
		t.Errorf("expected span {400,40}, got %+v", chunk.Span)
	}
}

func TestGetTileInfoOutOfRange(t *testing.T) {
	shape := ImageShape{Width: 64, Height: 64, Depth: 1, Tiled: true, TileWidth: 32, TileLength: 32}
	info := TiledImageInfo{Shape: shape, TileOffsets: []uint64{1, 2, 3, 4}, TileByteCounts: []uint64{1, 2, 3, 4}}
	if _, err := info.GetTileInfo(TileIdentity{TileX: 2, TileY: 0}); err == nil {
		t.Error("expected an out-of-range tile coordinate to error")
	}
}

func TestGetTileInfoPlanarOffsetsByPlane(t *testing.T) {
	shape := ImageShape{Width: 32, Height: 32, Depth: 1, Tiled: true, TileWidth: 32, TileLength: 32, Planar: Planar, SamplesPerPixel: 3}
	info := TiledImageInfo{
		Shape:          shape,
		TileOffsets:    []uint64{10, 20, 30},
		TileByteCounts: []uint64{1, 1, 1},
	}
	chunk, err := info.GetTileInfo(TileIdentity{TileX: 0, TileY: 0, Plane: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Span.Offset != 30 {
		t.Errorf("expected plane 2 to land on the third tile entry (offset 30), got %d", chunk.Span.Offset)
	}
}

func TestGetStripInfo(t *testing.T) {
	shape := ImageShape{Width: 100, Height: 100, Depth: 1, RowsPerStrip: 25}
	info := StrippedImageInfo{
		Shape:           shape,
		StripOffsets:    []uint64{10, 20, 30, 40},
		StripByteCounts: []uint64{1, 2, 3, 4},
	}
	chunk, err := info.GetStripInfo(2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.PixelY != 50 {
		t.Errorf("expected strip 2 to start at row 50, got %d", chunk.PixelY)
	}
	if chunk.Width != 100 || chunk.Height != 25 {
		t.Errorf("expected a full-width 25-row strip, got %dx%d", chunk.Width, chunk.Height)
	}
}

func TestGetStripInfoOutOfRange(t *testing.T) {
	shape := ImageShape{Width: 100, Height: 100, Depth: 1, RowsPerStrip: 25}
	info := StrippedImageInfo{Shape: shape, StripOffsets: []uint64{1, 2, 3, 4}, StripByteCounts: []uint64{1, 2, 3, 4}}
	if _, err := info.GetStripInfo(4, 0); err == nil {
		t.Error("expected an out-of-range strip index to error")
	}
}
