package readers

import (
	"fmt"
	"sync"

	"github.com/tingold/tiffcore"
	"github.com/valyala/fasthttp"
)

// defaultReadAheadSize is the minimum number of bytes HighLatency fetches
// per round trip, starting at the requested offset, so that the next few
// sequential reads from the same region are served out of the cached buffer
// rather than issuing another round trip.
const defaultReadAheadSize = 64 * 1024

// HighLatency is a tiffcore.Reader backed by HTTP range requests, suited to
// object storage and other backends where each round trip costs far more
// than the bytes transferred. It keeps a single read-ahead buffer; a request
// that does not fit entirely inside it replaces the buffer with a fresh fetch
// starting at the requested offset.
type HighLatency struct {
	url    string
	client *fasthttp.Client
	size   int64

	mu            sync.Mutex
	readAheadSize int
	bufStart      int64
	bufEnd        int64
	buf           []byte
}

// NewHighLatency constructs a HighLatency reader for url, discovering the
// resource's size via an HTTP HEAD request.
func NewHighLatency(url string, client *fasthttp.Client) (*HighLatency, error) {
	if client == nil {
		client = &fasthttp.Client{}
	}
	hl := &HighLatency{
		url:           url,
		client:        client,
		readAheadSize: defaultReadAheadSize,
		bufStart:      -1,
		bufEnd:        -1,
	}
	size, err := hl.headSize()
	if err != nil {
		return nil, err
	}
	hl.size = size
	return hl, nil
}

// SetReadAheadSize overrides the default read-ahead window.
func (hl *HighLatency) SetReadAheadSize(size int) {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	if size > 0 {
		hl.readAheadSize = size
	}
}

func (hl *HighLatency) headSize() (int64, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(hl.url)
	req.Header.SetMethod("HEAD")
	if err := hl.client.Do(req, resp); err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", hl.url, err)
	}
	length := resp.Header.ContentLength()
	if length <= 0 {
		return 0, fmt.Errorf("HEAD %s: server did not report a usable Content-Length", hl.url)
	}
	return int64(length), nil
}

func (hl *HighLatency) Read(offset uint64, size uint64) (tiffcore.ByteView, error) {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	start := int64(offset)
	end := start + int64(size)
	if hl.size > 0 && end > hl.size {
		return tiffcore.ByteView{}, &tiffcore.Error{Code: tiffcore.UnexpectedEndOfFile,
			Message: fmt.Sprintf("read of %d bytes at offset %d exceeds %d-byte resource", size, offset, hl.size)}
	}

	if hl.buf != nil && start >= hl.bufStart && end <= hl.bufEnd {
		off := start - hl.bufStart
		return tiffcore.NewByteView(hl.buf[off : off+int64(size)]), nil
	}

	fetchEnd := end
	readAhead := int64(hl.readAheadSize)
	if fetchEnd-start < readAhead {
		fetchEnd = start + readAhead
	}
	if hl.size > 0 && fetchEnd > hl.size {
		fetchEnd = hl.size
	}

	data, err := hl.fetchRange(start, fetchEnd-1)
	if err != nil {
		return tiffcore.ByteView{}, err
	}

	hl.buf = data
	hl.bufStart = start
	hl.bufEnd = start + int64(len(data))

	if uint64(len(data)) < size {
		return tiffcore.ByteView{}, &tiffcore.Error{Code: tiffcore.UnexpectedEndOfFile,
			Message: fmt.Sprintf("short read: requested %d bytes at offset %d, got %d", size, offset, len(data))}
	}
	return tiffcore.NewByteView(data[:size]), nil
}

func (hl *HighLatency) fetchRange(start, end int64) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(hl.url)
	req.Header.SetMethod("GET")
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	if err := hl.client.Do(req, resp); err != nil {
		return nil, fmt.Errorf("GET %s range %d-%d: %w", hl.url, start, end, err)
	}
	status := resp.StatusCode()
	if status != fasthttp.StatusPartialContent && status != fasthttp.StatusOK {
		return nil, fmt.Errorf("GET %s range %d-%d: unexpected status %d", hl.url, start, end, status)
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (hl *HighLatency) Size() (uint64, error) {
	if hl.size <= 0 {
		return 0, fmt.Errorf("resource size is unknown")
	}
	return uint64(hl.size), nil
}

func (hl *HighLatency) IsValid() bool {
	return hl.size > 0
}
