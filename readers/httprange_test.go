package readers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newRangeServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.WriteHeader(http.StatusOK)
			return
		}
		http.ServeContent(w, r, "fixture.bin", time.Time{}, bytes.NewReader(data))
	}))
}

func TestHighLatencyReadWithinReadAhead(t *testing.T) {
	data := bytes.Repeat([]byte{0}, 1024)
	for i := range data {
		data[i] = byte(i % 256)
	}
	srv := newRangeServer(t, data)
	defer srv.Close()

	hl, err := NewHighLatency(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHighLatency: %v", err)
	}
	size, err := hl.Size()
	if err != nil || size != 1024 {
		t.Fatalf("expected size 1024, got %d (err=%v)", size, err)
	}

	hl.SetReadAheadSize(256)
	view, err := hl.Read(10, 20)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(view.Data(), data[10:30]) {
		t.Errorf("got %v, want %v", view.Data(), data[10:30])
	}

	// A second read within the cached read-ahead window should reuse the buffer.
	view2, err := hl.Read(20, 10)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(view2.Data(), data[20:30]) {
		t.Errorf("got %v, want %v", view2.Data(), data[20:30])
	}
}

func TestHighLatencyReadPastResourceSizeErrors(t *testing.T) {
	data := []byte("0123456789")
	srv := newRangeServer(t, data)
	defer srv.Close()

	hl, err := NewHighLatency(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHighLatency: %v", err)
	}
	if _, err := hl.Read(0, 1000); err == nil {
		t.Error("expected an error reading past the resource's reported size")
	}
}

func TestHighLatencyIsValidAfterConstruction(t *testing.T) {
	srv := newRangeServer(t, []byte("abc"))
	defer srv.Close()

	hl, err := NewHighLatency(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHighLatency: %v", err)
	}
	if !hl.IsValid() {
		t.Error("expected a successfully constructed reader to be valid")
	}
}
