package tiffcore

import "sort"

// BatchingParams bounds how aggressively CreateBatches merges adjacent
// chunks into one file read, ported from chunk_info.hpp's batching_params.
type BatchingParams struct {
	// MinBatchSize is the smallest combined read worth issuing; chunks
	// below this are still merged with neighbours if doing so stays
	// within MaxBatchSpan.
	MinBatchSize uint64
	// MaxHoleSize is the largest gap between two chunks' spans that may
	// still be bridged into a single read.
	MaxHoleSize uint64
	// MaxBatchSpan caps the total file-offset span of one batch.
	MaxBatchSpan uint64
}

// NoBatching issues one read per chunk.
func NoBatching() BatchingParams {
	return BatchingParams{MinBatchSize: 0, MaxHoleSize: 0, MaxBatchSpan: 0}
}

// HighLatencyBatching favours fewer, larger reads for remote backends with
// high per-request overhead (e.g. HTTP range reads).
func HighLatencyBatching() BatchingParams {
	return BatchingParams{MinBatchSize: 1 << 20, MaxHoleSize: 256 << 10, MaxBatchSpan: 4 << 20}
}

// LocalStorageBatching is a lighter preset for local disk, where request
// overhead is small and large speculative reads waste page cache.
func LocalStorageBatching() BatchingParams {
	return BatchingParams{MinBatchSize: 128 << 10, MaxHoleSize: 32 << 10, MaxBatchSpan: 1 << 20}
}

// AllAtOnceBatching merges every chunk into a single read regardless of
// span, for callers that know they want the whole requested region fetched
// in one round trip.
func AllAtOnceBatching() BatchingParams {
	return BatchingParams{MinBatchSize: 0, MaxHoleSize: ^uint64(0), MaxBatchSpan: ^uint64(0)}
}

// ChunkBatch is a group of chunks to be satisfied by one underlying Read
// call spanning [MinOffset, MaxEndOffset).
type ChunkBatch struct {
	Chunks       []Chunk
	MinOffset    uint64
	MaxEndOffset uint64
}

// FileSpan returns the batch's full file-offset span.
func (b ChunkBatch) FileSpan() FileSpan {
	return FileSpan{Offset: b.MinOffset, ByteCount: b.MaxEndOffset - b.MinOffset}
}

// TotalDataSize sums each chunk's own byte count, i.e. the data actually
// wanted, as opposed to FileSpan's byte count which includes any bridged
// holes.
func (b ChunkBatch) TotalDataSize() uint64 {
	var total uint64
	for _, c := range b.Chunks {
		total += c.Span.ByteCount
	}
	return total
}

// OverheadRatio is how much of the batch's file span is wasted on bridged
// holes rather than wanted chunk data. A batch with no chunks reports zero
// overhead rather than dividing by zero.
func (b ChunkBatch) OverheadRatio() float64 {
	span := b.FileSpan().ByteCount
	if span == 0 {
		return 0
	}
	return float64(span-b.TotalDataSize()) / float64(span)
}

// CreateBatches sorts chunks by file offset and greedily merges adjacent
// chunks into batches under params, matching chunk_info.hpp's
// create_batches: a chunk joins the current batch if the resulting span
// would not exceed MaxBatchSpan, and either the gap since the batch's
// current end is within MaxHoleSize or the batch is still under
// MinBatchSize (in which case it keeps absorbing neighbours regardless of
// hole size to avoid issuing a read not worth the request overhead).
// Otherwise the chunk starts a new batch.
func CreateBatches(chunks []Chunk, params BatchingParams) []ChunkBatch {
	if len(chunks) == 0 {
		return nil
	}

	ordered := make([]Chunk, len(chunks))
	copy(ordered, chunks)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Span.Offset < ordered[j].Span.Offset })

	var batches []ChunkBatch
	cur := ChunkBatch{
		Chunks:       []Chunk{ordered[0]},
		MinOffset:    ordered[0].Span.Offset,
		MaxEndOffset: ordered[0].Span.End(),
	}

	for _, c := range ordered[1:] {
		hole := uint64(0)
		if c.Span.Offset > cur.MaxEndOffset {
			hole = c.Span.Offset - cur.MaxEndOffset
		}
		candidateEnd := c.Span.End()
		if candidateEnd < cur.MaxEndOffset {
			candidateEnd = cur.MaxEndOffset
		}
		candidateSpan := candidateEnd - cur.MinOffset

		curSpan := cur.MaxEndOffset - cur.MinOffset
		underMinSize := curSpan < params.MinBatchSize
		if candidateSpan <= params.MaxBatchSpan && (hole <= params.MaxHoleSize || underMinSize) {
			cur.Chunks = append(cur.Chunks, c)
			cur.MaxEndOffset = candidateEnd
			continue
		}

		batches = append(batches, cur)
		cur = ChunkBatch{Chunks: []Chunk{c}, MinOffset: c.Span.Offset, MaxEndOffset: c.Span.End()}
	}
	batches = append(batches, cur)
	return batches
}
