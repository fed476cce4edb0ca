package tiffcore

import (
	"sync"
)

// Buffer pools for reducing GC pressure on the read path, sized to the same
// small/medium/large/xlarge tiers the teacher's COG reader used for its own
// tile buffers. readers.File draws its read buffers from GetBuffer; nothing
// in the read pipeline returns them with PutBuffer, and the memory and HTTP
// readers and the decoder allocate without the pool.

type byteSlicePool struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool
	xlarge sync.Pool
}

const (
	smallBufferSize  = 64 * 1024
	mediumBufferSize = 256 * 1024
	largeBufferSize  = 1024 * 1024
	xlargeBufferSize = 4 * 1024 * 1024
)

var bufferPool = &byteSlicePool{
	small: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, smallBufferSize)
			return &buf
		},
	},
	medium: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, mediumBufferSize)
			return &buf
		},
	},
	large: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, largeBufferSize)
			return &buf
		},
	},
	xlarge: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, xlargeBufferSize)
			return &buf
		},
	},
}

// GetBuffer returns a byte slice of at least the requested size from the
// pool. The returned slice may be larger than requested. Call PutBuffer when
// done to return it to the pool.
func GetBuffer(size int) []byte {
	if size <= smallBufferSize {
		bufPtr := bufferPool.small.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	if size <= mediumBufferSize {
		bufPtr := bufferPool.medium.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	if size <= largeBufferSize {
		bufPtr := bufferPool.large.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	if size <= xlargeBufferSize {
		bufPtr := bufferPool.xlarge.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	// Very large buffers bypass the pool entirely.
	return make([]byte, size)
}

// PutBuffer returns a buffer to the pool. The buffer must not be used after
// calling this function.
func PutBuffer(buf []byte) {
	c := cap(buf)
	if c == 0 {
		return
	}
	buf = buf[:c]

	switch c {
	case smallBufferSize:
		bufferPool.small.Put(&buf)
	case mediumBufferSize:
		bufferPool.medium.Put(&buf)
	case largeBufferSize:
		bufferPool.large.Put(&buf)
	case xlargeBufferSize:
		bufferPool.xlarge.Put(&buf)
	}
	// Non-standard sizes are simply dropped.
}

// chunkWorkPool pools the work items ParallelStrategy fans out to its
// worker goroutines, avoiding one allocation per chunk on every region read.
var chunkWorkPool = sync.Pool{
	New: func() interface{} {
		return &parallelWorkItem{}
	},
}

func getParallelWorkItem() *parallelWorkItem {
	item := chunkWorkPool.Get().(*parallelWorkItem)
	item.chunk = Chunk{}
	item.data = nil
	item.err = nil
	return item
}

func putParallelWorkItem(item *parallelWorkItem) {
	if item == nil {
		return
	}
	chunkWorkPool.Put(item)
}
