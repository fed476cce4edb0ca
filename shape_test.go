package tiffcore

import "testing"

func TestImageRegionValidate(t *testing.T) {
	shape := ImageShape{Width: 100, Height: 100, Depth: 1}
	ok := ImageRegion{MinX: 0, MinY: 0, MinZ: 0, MaxX: 100, MaxY: 100, MaxZ: 1}
	if err := ok.Validate(shape); err != nil {
		t.Errorf("expected a full-image region to validate, got %v", err)
	}

	oob := ImageRegion{MinX: 0, MinY: 0, MinZ: 0, MaxX: 101, MaxY: 100, MaxZ: 1}
	if err := oob.Validate(shape); err == nil {
		t.Error("expected a region exceeding image width to fail validation")
	}

	inverted := ImageRegion{MinX: 50, MinY: 0, MinZ: 0, MaxX: 10, MaxY: 100, MaxZ: 1}
	if err := inverted.Validate(shape); err == nil {
		t.Error("expected an inverted region (min > max) to fail validation")
	}
}

func TestImageRegionIntersect(t *testing.T) {
	a := ImageRegion{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10, MaxZ: 1}
	b := ImageRegion{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15, MaxZ: 1}
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected overlapping regions to intersect")
	}
	want := ImageRegion{MinX: 5, MinY: 5, MaxX: 10, MaxY: 10, MaxZ: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	c := ImageRegion{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30, MaxZ: 1}
	if _, ok := a.Intersect(c); ok {
		t.Error("expected disjoint regions not to intersect")
	}
}

func TestFullImageRegion(t *testing.T) {
	shape := ImageShape{Width: 640, Height: 480, Depth: 1}
	reg := FullImageRegion(shape)
	if reg.Width() != 640 || reg.Height() != 480 || reg.Depth() != 1 {
		t.Errorf("expected 640x480x1, got %dx%dx%d", reg.Width(), reg.Height(), reg.Depth())
	}
}

func TestImageShapeTileCounts(t *testing.T) {
	shape := ImageShape{Width: 100, Height: 100, Depth: 1, Tiled: true, TileWidth: 32, TileLength: 32}
	if got := shape.TilesAcross(); got != 4 {
		t.Errorf("expected 4 tiles across (ceil(100/32)), got %d", got)
	}
	if got := shape.TilesDown(); got != 4 {
		t.Errorf("expected 4 tiles down, got %d", got)
	}
}

func TestImageShapeStripsPerImage(t *testing.T) {
	shape := ImageShape{Width: 100, Height: 100, Depth: 1, RowsPerStrip: 30}
	if got := shape.StripsPerImage(); got != 4 {
		t.Errorf("expected ceil(100/30)=4 strips, got %d", got)
	}
}
