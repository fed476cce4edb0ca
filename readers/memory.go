// Package readers provides the tiffcore.Reader backends: an in-memory
// buffer, a local file, and an HTTP range reader for remote, high-latency
// sources.
package readers

import (
	"fmt"

	"github.com/tingold/tiffcore"
)

// Memory is a tiffcore.Reader over an already-loaded byte slice. It never
// copies data; returned ByteViews borrow directly into the backing slice.
type Memory struct {
	data []byte
}

// NewMemory wraps data as a Reader.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

func (m *Memory) Read(offset uint64, size uint64) (tiffcore.ByteView, error) {
	if offset > uint64(len(m.data)) {
		return tiffcore.ByteView{}, &tiffcore.Error{Code: tiffcore.UnexpectedEndOfFile,
			Message: fmt.Sprintf("offset %d past end of %d-byte buffer", offset, len(m.data))}
	}
	end := offset + size
	if end > uint64(len(m.data)) {
		return tiffcore.ByteView{}, &tiffcore.Error{Code: tiffcore.UnexpectedEndOfFile,
			Message: fmt.Sprintf("read of %d bytes at offset %d exceeds %d-byte buffer", size, offset, len(m.data))}
	}
	return tiffcore.NewByteView(m.data[offset:end]), nil
}

func (m *Memory) Size() (uint64, error) {
	return uint64(len(m.data)), nil
}

func (m *Memory) IsValid() bool {
	return m.data != nil
}
