package tiffcore

import (
	"bytes"
	"encoding/binary"
)

// memReader is a minimal in-package Reader over a byte slice, used by tests
// in this package so they don't need to import the sibling readers package
// (which itself imports tiffcore).
type memReader struct {
	data []byte
}

func newMemReader(data []byte) *memReader { return &memReader{data: data} }

func (m *memReader) Read(offset, size uint64) (ByteView, error) {
	if offset+size > uint64(len(m.data)) {
		return ByteView{}, newErr(UnexpectedEndOfFile, "read past end of buffer")
	}
	return NewByteView(m.data[offset : offset+size]), nil
}

func (m *memReader) Size() (uint64, error) { return uint64(len(m.data)), nil }
func (m *memReader) IsValid() bool         { return m.data != nil }

// tagEntry is one classic-format IFD entry as written by buildClassicTIFF.
type tagEntry struct {
	code  uint16
	typ   DataType
	count uint32
	// value holds the 4-byte value field as written: the inline bytes, or
	// the offset of an external value. buildClassicTIFF writes no external
	// data itself.
	value []byte
}

func u16le(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func u32le(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func inlineU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func inlineU16(v uint16) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// buildClassicTIFF assembles a little-endian classic TIFF with one IFD
// containing entries, padding each inline value field out to 4 bytes.
// Entries are written in the order given: sorted by code for the
// well-formed-input tests, or out of order by tests that want an unsorted IFD.
func buildClassicTIFF(entries []tagEntry) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'I', 'I'})
	buf.Write(u16le(42))
	buf.Write(u32le(8))

	buf.Write(u16le(uint16(len(entries))))
	for _, e := range entries {
		buf.Write(u16le(e.code))
		buf.Write(u16le(uint16(e.typ)))
		buf.Write(u32le(e.count))
		v := make([]byte, 4)
		copy(v, e.value)
		buf.Write(v)
	}
	buf.Write(u32le(0))
	return buf.Bytes()
}
