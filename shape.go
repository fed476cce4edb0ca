package tiffcore

// ImageShape is the pixel-space geometry of one IFD's image: its overall
// dimensions, per-sample layout, and (for tiled images) nominal tile size.
// Depth is 1 for ordinary 2-D images; §4.5 generalises to a third axis for
// parity with the planner's chunk addressing.
type ImageShape struct {
	Width, Height, Depth uint32
	SamplesPerPixel      uint16
	BitsPerSample        []uint16
	Planar               PlanarConfiguration

	Tiled      bool
	TileWidth  uint32
	TileLength uint32
	RowsPerStrip uint32
}

// TilesAcross is the number of tile columns covering Width, ceiling-divided.
func (s ImageShape) TilesAcross() uint32 {
	return ceilDiv(s.Width, s.TileWidth)
}

// TilesDown is the number of tile rows covering Height, ceiling-divided.
func (s ImageShape) TilesDown() uint32 {
	return ceilDiv(s.Height, s.TileLength)
}

// StripsPerImage is the number of strips covering Height, ceiling-divided.
func (s ImageShape) StripsPerImage() uint32 {
	return ceilDiv(s.Height, s.RowsPerStrip)
}

// PlanesCount is the number of independent sample planes: SamplesPerPixel
// when Planar, 1 when Chunky.
func (s ImageShape) PlanesCount() uint32 {
	if s.Planar == Planar {
		return uint32(s.SamplesPerPixel)
	}
	return 1
}

func ceilDiv(n, d uint32) uint32 {
	if d == 0 {
		return 0
	}
	return (n + d - 1) / d
}

// ImageRegion is a half-open pixel-space box: [MinX,MaxX) x [MinY,MaxY) x
// [MinZ,MaxZ), selecting a rectangular subset of an image's pixels (§4.5).
type ImageRegion struct {
	MinX, MinY, MinZ uint32
	MaxX, MaxY, MaxZ uint32
}

// FullImageRegion returns the region covering the whole of shape.
func FullImageRegion(shape ImageShape) ImageRegion {
	depth := shape.Depth
	if depth == 0 {
		depth = 1
	}
	return ImageRegion{
		MinX: 0, MinY: 0, MinZ: 0,
		MaxX: shape.Width, MaxY: shape.Height, MaxZ: depth,
	}
}

// Validate reports an error if the region is malformed (inverted or
// zero-area bounds) or exceeds the image's extent.
func (reg ImageRegion) Validate(shape ImageShape) error {
	if reg.MinX >= reg.MaxX || reg.MinY >= reg.MaxY || reg.MinZ >= reg.MaxZ {
		return newErr(OutOfBounds, "region is empty or inverted: %+v", reg)
	}
	depth := shape.Depth
	if depth == 0 {
		depth = 1
	}
	if reg.MaxX > shape.Width || reg.MaxY > shape.Height || reg.MaxZ > depth {
		return newErr(OutOfBounds, "region %+v exceeds image extent %dx%dx%d", reg, shape.Width, shape.Height, depth)
	}
	return nil
}

// Width, Height and Depth return the region's extent along each axis.
func (reg ImageRegion) Width() uint32  { return reg.MaxX - reg.MinX }
func (reg ImageRegion) Height() uint32 { return reg.MaxY - reg.MinY }
func (reg ImageRegion) Depth() uint32  { return reg.MaxZ - reg.MinZ }

// Intersect returns the overlap of reg and other, and whether it is
// non-empty.
func (reg ImageRegion) Intersect(other ImageRegion) (ImageRegion, bool) {
	out := ImageRegion{
		MinX: maxU32(reg.MinX, other.MinX),
		MinY: maxU32(reg.MinY, other.MinY),
		MinZ: maxU32(reg.MinZ, other.MinZ),
		MaxX: minU32(reg.MaxX, other.MaxX),
		MaxY: minU32(reg.MaxY, other.MaxY),
		MaxZ: minU32(reg.MaxZ, other.MaxZ),
	}
	if out.MinX >= out.MaxX || out.MinY >= out.MaxY || out.MinZ >= out.MaxZ {
		return ImageRegion{}, false
	}
	return out, true
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
