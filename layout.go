package tiffcore

// OutputBuffer is the caller-owned destination for an assembled region, in
// one of three memory layouts (§4.10):
//   - DHWC: depth-major, then height, then width, then channel (interleaved)
//   - DCHW: depth-major, then channel, then height, then width (planar)
//   - CDHW: channel-major, then depth, then height, then width
//
// Buf is sized Depth*Height*Width*Channels elements of the sample width the
// decoder produced; callers size it with OutputBufferLen before assembly.
type OutputBuffer struct {
	Layout   Layout
	Depth    int
	Height   int
	Width    int
	Channels int
	Buf      DecodedSamples
}

// OutputBufferLen returns the element count an OutputBuffer of the given
// shape requires.
func OutputBufferLen(depth, height, width, channels int) int {
	return depth * height * width * channels
}

// layoutIndex returns the flat element offset of (d, h, w, c) in the given
// layout's axis order.
func layoutIndex(layout Layout, depth, height, width, channels, d, h, w, c int) int {
	switch layout {
	case DCHW:
		return ((d*channels+c)*height+h)*width + w
	case CDHW:
		return ((c*depth+d)*height+h)*width + w
	default: // DHWC
		return ((d*height+h)*width+w)*channels + c
	}
}

// copyKernel copies one chunk position's samples from src into dst at the
// output position (dd,dh,dw). A kernel is bound to one (sourceLayout,
// destLayout) pair when the dispatch table is built; it still computes each
// element's source and destination offsets through layoutIndex, which
// switches on the layout for every sample.
type copyKernel func(dst *OutputBuffer, dd, dh, dw int, src *DecodedSamples, srcDepth, srcHeight, srcWidth, srcChannels, sd, sh, sw int)

func makeCopyKernel(srcLayout, dstLayout Layout) copyKernel {
	return func(dst *OutputBuffer, dd, dh, dw int, src *DecodedSamples, srcDepth, srcHeight, srcWidth, srcChannels, sd, sh, sw int) {
		channels := dst.Channels
		if srcChannels < channels {
			channels = srcChannels
		}
		for c := 0; c < channels; c++ {
			srcIdx := layoutIndex(srcLayout, srcDepth, srcHeight, srcWidth, srcChannels, sd, sh, sw, c)
			dstIdx := layoutIndex(dstLayout, dst.Depth, dst.Height, dst.Width, dst.Channels, dd, dh, dw, c)
			assembleElement(dst, dstIdx, src, srcIdx)
		}
	}
}

// copyKernels is the 3x3 dispatch table over (sourceLayout, destLayout),
// built once at package init rather than re-selected per chunk.
var copyKernels = [3][3]copyKernel{}

func init() {
	layouts := [3]Layout{DHWC, DCHW, CDHW}
	for _, src := range layouts {
		for _, dst := range layouts {
			copyKernels[src][dst] = makeCopyKernel(src, dst)
		}
	}
}

func assembleElement(dst *OutputBuffer, dstIdx int, src *DecodedSamples, srcIdx int) {
	switch {
	case src.U8 != nil:
		dst.Buf.U8[dstIdx] = src.U8[srcIdx]
	case src.U16 != nil:
		dst.Buf.U16[dstIdx] = src.U16[srcIdx]
	case src.U32 != nil:
		dst.Buf.U32[dstIdx] = src.U32[srcIdx]
	case src.U64 != nil:
		dst.Buf.U64[dstIdx] = src.U64[srcIdx]
	case src.I8 != nil:
		dst.Buf.I8[dstIdx] = src.I8[srcIdx]
	case src.I16 != nil:
		dst.Buf.I16[dstIdx] = src.I16[srcIdx]
	case src.I32 != nil:
		dst.Buf.I32[dstIdx] = src.I32[srcIdx]
	case src.I64 != nil:
		dst.Buf.I64[dstIdx] = src.I64[srcIdx]
	case src.F32 != nil:
		dst.Buf.F32[dstIdx] = src.F32[srcIdx]
	case src.F64 != nil:
		dst.Buf.F64[dstIdx] = src.F64[srcIdx]
	}
}

// canFastCopyRow reports whether a whole contiguous row of channels can be
// memcpy'd rather than assembled element-by-element: source and destination
// must both be DHWC, the only layout that stores a row's pixels with their
// channels interleaved in one contiguous run, and the channel counts must
// match exactly.
func canFastCopyRow(srcLayout, dstLayout Layout, srcChannels, dstChannels int) bool {
	return srcLayout == dstLayout && srcLayout == DHWC && srcChannels == dstChannels
}

// CopyChunkRegion copies the intersection of a decoded chunk's pixels with
// dst's own extent into dst, translating between srcLayout (the layout the
// decoder produced — DHWC for a chunky chunk, CDHW for one planar plane) and
// dst.Layout. chunkOrigin is the chunk's (x,y,z) position and outOrigin is
// dst's own (x,y,z) position, both in the same output pixel coordinate
// space. Only the overlap between the chunk's nominal extent and dst's
// extent is copied: this is where the "decoder sees nominal size, assembler
// clips" resolution of Open Question 1 is implemented — a boundary chunk
// that runs past the image edge is simply never asked to contribute samples
// past dst's bound.
func CopyChunkRegion(
	dst *OutputBuffer, outOrigin [3]int,
	src *DecodedSamples, srcLayout Layout, srcDepth, srcHeight, srcWidth, srcChannels int, chunkOrigin [3]int,
) {
	loD := maxInt(outOrigin[2], chunkOrigin[2])
	hiD := minInt(outOrigin[2]+dst.Depth, chunkOrigin[2]+srcDepth)
	loH := maxInt(outOrigin[1], chunkOrigin[1])
	hiH := minInt(outOrigin[1]+dst.Height, chunkOrigin[1]+srcHeight)
	loW := maxInt(outOrigin[0], chunkOrigin[0])
	hiW := minInt(outOrigin[0]+dst.Width, chunkOrigin[0]+srcWidth)
	if loD >= hiD || loH >= hiH || loW >= hiW {
		return
	}

	kernel := copyKernels[srcLayout][dst.Layout]
	fastRow := canFastCopyRow(srcLayout, dst.Layout, srcChannels, dst.Channels) && loW == chunkOrigin[0] && hiW == chunkOrigin[0]+srcWidth

	for d := loD; d < hiD; d++ {
		sd := d - chunkOrigin[2]
		dd := d - outOrigin[2]
		for h := loH; h < hiH; h++ {
			sh := h - chunkOrigin[1]
			dh := h - outOrigin[1]
			if fastRow {
				copyFullRow(dst, dd, dh, loW-outOrigin[0], src, srcHeight, srcWidth, sd, sh, hiW-loW, dst.Channels)
				continue
			}
			for w := loW; w < hiW; w++ {
				sw := w - chunkOrigin[0]
				dw := w - outOrigin[0]
				kernel(dst, dd, dh, dw, src, srcDepth, srcHeight, srcWidth, srcChannels, sd, sh, sw)
			}
		}
	}
}

// copyFullRow memcpy's one full row of width*channels contiguous elements,
// used when source and destination are both DHWC with matching channel
// counts — the common case of assembling a chunk straight into a
// same-layout output buffer with no edge clipping on the width axis.
func copyFullRow(dst *OutputBuffer, dd, dh, dw int, src *DecodedSamples, srcHeight, srcWidth, sd, sh, width, channels int) {
	srcStart := layoutIndex(DHWC, 0, srcHeight, srcWidth, channels, sd, sh, 0, 0)
	dstStart := layoutIndex(DHWC, 0, dst.Height, dst.Width, channels, dd, dh, dw, 0)
	n := width * channels
	switch {
	case src.U8 != nil:
		copy(dst.Buf.U8[dstStart:dstStart+n], src.U8[srcStart:srcStart+n])
	case src.U16 != nil:
		copy(dst.Buf.U16[dstStart:dstStart+n], src.U16[srcStart:srcStart+n])
	case src.U32 != nil:
		copy(dst.Buf.U32[dstStart:dstStart+n], src.U32[srcStart:srcStart+n])
	case src.U64 != nil:
		copy(dst.Buf.U64[dstStart:dstStart+n], src.U64[srcStart:srcStart+n])
	case src.I8 != nil:
		copy(dst.Buf.I8[dstStart:dstStart+n], src.I8[srcStart:srcStart+n])
	case src.I16 != nil:
		copy(dst.Buf.I16[dstStart:dstStart+n], src.I16[srcStart:srcStart+n])
	case src.I32 != nil:
		copy(dst.Buf.I32[dstStart:dstStart+n], src.I32[srcStart:srcStart+n])
	case src.I64 != nil:
		copy(dst.Buf.I64[dstStart:dstStart+n], src.I64[srcStart:srcStart+n])
	case src.F32 != nil:
		copy(dst.Buf.F32[dstStart:dstStart+n], src.F32[srcStart:srcStart+n])
	case src.F64 != nil:
		copy(dst.Buf.F64[dstStart:dstStart+n], src.F64[srcStart:srcStart+n])
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
