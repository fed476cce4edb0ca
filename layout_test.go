package tiffcore

import "testing"

// A 2x2 chunk (height x width), 2 channels, DHWC-ordered: element (h,w,c).
func testChunkU8() (*DecodedSamples, int, int, int, int) {
	// h=0: (0,0)->{1,2} (0,1)->{3,4}; h=1: (1,0)->{5,6} (1,1)->{7,8}
	data := []uint8{1, 2, 3, 4, 5, 6, 7, 8}
	return &DecodedSamples{U8: data}, 1, 2, 2, 2 // depth, height, width, channels
}

func TestCopyChunkRegionDHWCFastPath(t *testing.T) {
	src, depth, height, width, channels := testChunkU8()
	dst := &OutputBuffer{Layout: DHWC, Depth: depth, Height: height, Width: width, Channels: channels,
		Buf: DecodedSamples{U8: make([]uint8, OutputBufferLen(depth, height, width, channels))}}

	CopyChunkRegion(dst, [3]int{0, 0, 0}, src, DHWC, depth, height, width, channels, [3]int{0, 0, 0})

	for i, v := range src.U8 {
		if dst.Buf.U8[i] != v {
			t.Errorf("index %d: got %d, want %d", i, dst.Buf.U8[i], v)
		}
	}
}

func TestCopyChunkRegionDHWCToDCHW(t *testing.T) {
	src, depth, height, width, channels := testChunkU8()
	dst := &OutputBuffer{Layout: DCHW, Depth: depth, Height: height, Width: width, Channels: channels,
		Buf: DecodedSamples{U8: make([]uint8, OutputBufferLen(depth, height, width, channels))}}

	CopyChunkRegion(dst, [3]int{0, 0, 0}, src, DHWC, depth, height, width, channels, [3]int{0, 0, 0})

	// DCHW index: ((d*channels+c)*height+h)*width + w
	check := func(h, w, c int, want uint8) {
		idx := layoutIndex(DCHW, depth, height, width, channels, 0, h, w, c)
		if dst.Buf.U8[idx] != want {
			t.Errorf("(h=%d,w=%d,c=%d): got %d, want %d", h, w, c, dst.Buf.U8[idx], want)
		}
	}
	check(0, 0, 0, 1)
	check(0, 0, 1, 2)
	check(1, 1, 0, 7)
	check(1, 1, 1, 8)
}

func TestCopyChunkRegionDHWCToCDHW(t *testing.T) {
	src, depth, height, width, channels := testChunkU8()
	dst := &OutputBuffer{Layout: CDHW, Depth: depth, Height: height, Width: width, Channels: channels,
		Buf: DecodedSamples{U8: make([]uint8, OutputBufferLen(depth, height, width, channels))}}

	CopyChunkRegion(dst, [3]int{0, 0, 0}, src, DHWC, depth, height, width, channels, [3]int{0, 0, 0})

	idx := layoutIndex(CDHW, depth, height, width, channels, 0, 1, 0, 1)
	if dst.Buf.U8[idx] != 6 {
		t.Errorf("expected (h=1,w=0,c=1)=6 in CDHW layout, got %d", dst.Buf.U8[idx])
	}
}

func TestCopyChunkRegionClipsAtDestinationEdge(t *testing.T) {
	src, depth, height, width, channels := testChunkU8()
	// Destination only has room for a 1x1 pixel at origin.
	dst := &OutputBuffer{Layout: DHWC, Depth: 1, Height: 1, Width: 1, Channels: channels,
		Buf: DecodedSamples{U8: make([]uint8, OutputBufferLen(1, 1, 1, channels))}}

	CopyChunkRegion(dst, [3]int{0, 0, 0}, src, DHWC, depth, height, width, channels, [3]int{0, 0, 0})

	if dst.Buf.U8[0] != 1 || dst.Buf.U8[1] != 2 {
		t.Errorf("expected only the (0,0) pixel copied, got %v", dst.Buf.U8)
	}
}

func TestCopyChunkRegionNoOverlapIsNoop(t *testing.T) {
	src, depth, height, width, channels := testChunkU8()
	dst := &OutputBuffer{Layout: DHWC, Depth: 1, Height: 2, Width: 2, Channels: channels,
		Buf: DecodedSamples{U8: make([]uint8, OutputBufferLen(1, 2, 2, channels))}}

	// Place the chunk far outside dst's extent.
	CopyChunkRegion(dst, [3]int{0, 0, 0}, src, DHWC, depth, height, width, channels, [3]int{100, 100, 0})

	for i, v := range dst.Buf.U8 {
		if v != 0 {
			t.Errorf("index %d: expected untouched zero buffer, got %d", i, v)
		}
	}
}
