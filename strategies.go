package tiffcore

import (
	"runtime"
	"sync"
)

// ChunkProcessor consumes one chunk's raw (still-compressed) bytes, sliced
// out of whatever batch read produced them. Implementations must be safe to
// call concurrently when used via ParallelStrategy.
type ChunkProcessor func(chunk Chunk, raw []byte) error

// ReadStrategy executes a chunk plan against a Reader, handing each chunk's
// raw bytes to process (§4.8). The three strategies trade I/O-call count
// against peak memory and CPU parallelism.
type ReadStrategy interface {
	Execute(r Reader, chunks []Chunk, process ChunkProcessor) error
}

// SequentialStrategy issues one Read per chunk and processes it before
// moving to the next. It is the simplest strategy and the right default for
// small regions or backends with negligible per-request overhead.
type SequentialStrategy struct{}

func (SequentialStrategy) Execute(r Reader, chunks []Chunk, process ChunkProcessor) error {
	for _, c := range chunks {
		view, err := r.Read(c.Span.Offset, c.Span.ByteCount)
		if err != nil {
			return wrapErr(ReadError, err, "failed to read chunk %d", c.ChunkIndex)
		}
		if err := process(c, view.Data()); err != nil {
			return err
		}
	}
	return nil
}

// BatchedStrategy groups chunks with CreateBatches and issues one Read per
// batch, slicing each chunk's bytes back out of the combined buffer (§4.7).
// This amortises per-request overhead on high-latency backends at the cost
// of reading — and discarding — the bytes in any bridged holes.
type BatchedStrategy struct {
	Params BatchingParams
}

func (s BatchedStrategy) Execute(r Reader, chunks []Chunk, process ChunkProcessor) error {
	for _, batch := range CreateBatches(chunks, s.Params) {
		span := batch.FileSpan()
		view, err := r.Read(span.Offset, span.ByteCount)
		if err != nil {
			return wrapErr(ReadError, err, "failed to read batch at offset %d", span.Offset)
		}
		data := view.Data()
		for _, c := range batch.Chunks {
			start := c.Span.Offset - span.Offset
			end := start + c.Span.ByteCount
			if end > uint64(len(data)) {
				return newErr(UnexpectedEndOfFile, "batch read too short for chunk %d", c.ChunkIndex)
			}
			if err := process(c, data[start:end]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParallelStrategy reads every chunk's bytes sequentially — I/O is assumed
// to serialize on a single connection or disk head regardless of caller
// concurrency — then fans the resulting buffers out to a worker pool sized
// to runtime.NumCPU for the (typically CPU-bound) process call, mirroring
// the teacher's two-phase read-then-decompress tile pipeline.
type ParallelStrategy struct {
	// MaxWorkers caps the worker pool; zero means runtime.NumCPU().
	MaxWorkers int
}

type parallelWorkItem struct {
	chunk Chunk
	data  []byte
	err   error
}

func (s ParallelStrategy) Execute(r Reader, chunks []Chunk, process ChunkProcessor) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) == 1 {
		return SequentialStrategy{}.Execute(r, chunks, process)
	}

	items := make([]*parallelWorkItem, len(chunks))
	for i, c := range chunks {
		view, err := r.Read(c.Span.Offset, c.Span.ByteCount)
		if err != nil {
			return wrapErr(ReadError, err, "failed to read chunk %d", c.ChunkIndex)
		}
		item := getParallelWorkItem()
		item.chunk = c
		item.data = view.Data()
		items[i] = item
	}
	defer func() {
		for _, item := range items {
			putParallelWorkItem(item)
		}
	}()

	numWorkers := s.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	var wg sync.WaitGroup
	workChan := make(chan *parallelWorkItem, len(items))

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				item.err = process(item.chunk, item.data)
			}
		}()
	}

	for _, item := range items {
		workChan <- item
	}
	close(workChan)
	wg.Wait()

	for _, item := range items {
		if item.err != nil {
			return item.err
		}
	}
	return nil
}
