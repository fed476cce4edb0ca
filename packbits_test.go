package tiffcore

import (
	"bytes"
	"testing"
)

func TestPackBitsDecodeLiteralRun(t *testing.T) {
	// control byte 2 -> 3 literal bytes follow.
	src := []byte{2, 0xAA, 0xBB, 0xCC}
	got, err := packBitsDecode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xAA, 0xBB, 0xCC}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPackBitsDecodeReplicatedRun(t *testing.T) {
	// control byte -3 (0xFD) -> replicate the following byte 4 times.
	src := []byte{0xFD, 0x41}
	got, err := packBitsDecode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := bytes.Repeat([]byte{0x41}, 4)
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPackBitsDecodeNoOpByte(t *testing.T) {
	src := []byte{0x80, 2, 1, 2, 3}
	got, err := packBitsDecode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{1, 2, 3}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPackBitsRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{1, 2, 3, 4, 5},
		bytes.Repeat([]byte{0x42}, 200),
		append(bytes.Repeat([]byte{1, 2, 3}, 10), bytes.Repeat([]byte{9}, 150)...),
	}
	for i, src := range cases {
		encoded := packBitsEncode(src)
		decoded, err := packBitsDecode(encoded)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if !bytes.Equal(decoded, src) {
			t.Errorf("case %d: round trip mismatch: got %v, want %v", i, decoded, src)
		}
	}
}

func TestPackBitsDecodeTruncatedLiteralRunErrors(t *testing.T) {
	// control byte 4 -> 5 literal bytes promised, only 2 follow.
	src := []byte{4, 0xAA, 0xBB}
	_, err := packBitsDecode(src)
	if err == nil {
		t.Fatal("expected an error for a truncated literal run")
	}
	tiffErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected a *Error, got %T", err)
	}
	if tiffErr.Code != InvalidFormat {
		t.Errorf("expected code %v, got %v", InvalidFormat, tiffErr.Code)
	}
}

func TestPackBitsDecodeTruncatedReplicatedRunErrors(t *testing.T) {
	// control byte -3 (0xFD) promises a byte to replicate, but input ends.
	src := []byte{0xFD}
	_, err := packBitsDecode(src)
	if err == nil {
		t.Fatal("expected an error for a truncated replicated run")
	}
	tiffErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected a *Error, got %T", err)
	}
	if tiffErr.Code != InvalidFormat {
		t.Errorf("expected code %v, got %v", InvalidFormat, tiffErr.Code)
	}
}

func TestPackBitsRoundTripAt128ByteBoundary(t *testing.T) {
	src := bytes.Repeat([]byte{0x01, 0x02}, 64) // 128 bytes, no long runs
	encoded := packBitsEncode(src)
	decoded, err := packBitsDecode(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(decoded, src) {
		t.Error("round trip mismatch at the 128-byte literal-run boundary")
	}
}
