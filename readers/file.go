package readers

import (
	"fmt"
	"os"

	"github.com/tingold/tiffcore"
)

// File is a tiffcore.Reader over an *os.File, reading each request with
// ReadAt so concurrent callers never contend over a shared seek position.
type File struct {
	f    *os.File
	size uint64
}

// OpenFile opens path and wraps it as a Reader.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &File{f: f, size: uint64(info.Size())}, nil
}

// Close releases the underlying file descriptor.
func (fr *File) Close() error {
	return fr.f.Close()
}

func (fr *File) Read(offset uint64, size uint64) (tiffcore.ByteView, error) {
	buf := tiffcore.GetBuffer(int(size))
	n, err := fr.f.ReadAt(buf, int64(offset))
	if err != nil && uint64(n) < size {
		return tiffcore.ByteView{}, &tiffcore.Error{Code: tiffcore.UnexpectedEndOfFile,
			Message: fmt.Sprintf("reading %d bytes at offset %d: got %d", size, offset, n), Cause: err}
	}
	return tiffcore.NewByteView(buf), nil
}

func (fr *File) Size() (uint64, error) {
	return fr.size, nil
}

func (fr *File) IsValid() bool {
	return fr.f != nil
}
