package format

import (
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 2*HeaderSize)
	want := Header{Free: false, Capacity: 984, Size: 100, Prev: -1, Next: 1024}
	PutHeader(buf, HeaderSize, want)

	got, err := ReadHeader(buf, HeaderSize)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != want {
		t.Fatalf("header mismatch: got %+v want %+v", got, want)
	}
	if ReadU64(buf, HeaderSize+HeaderPrevOffset) != NoLink {
		t.Fatalf("absent prev should encode as NoLink")
	}
}

func TestHeaderFreeFlag(t *testing.T) {
	buf := make([]byte, HeaderSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	PutHeader(buf, 0, Header{Free: true, Capacity: 8, Prev: 0, Next: -1})
	if buf[HeaderFreeOffset] != FlagFree {
		t.Fatalf("flag = 0x%02X, want FlagFree", buf[HeaderFreeOffset])
	}
	for i := 1; i < HeaderCapacityOffset; i++ {
		if buf[i] != 0 {
			t.Fatalf("padding byte %d not cleared", i)
		}
	}
	h, err := ReadHeader(buf, 0)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !h.Free || h.Prev != 0 || h.Next != -1 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	buf := make([]byte, HeaderSize)
	if _, err := ReadHeader(buf, 8); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := ReadHeader(buf, -1); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for negative offset, got %v", err)
	}
	buf[HeaderFreeOffset] = 0x7F
	if _, err := ReadHeader(buf, 0); !errors.Is(err, ErrBadFlag) {
		t.Fatalf("expected ErrBadFlag, got %v", err)
	}
}

func TestAlignment(t *testing.T) {
	cases := []struct {
		n, quantum, want int
	}{
		{1, GrowthQuantum, 1024},
		{140, GrowthQuantum, 1024},
		{1024, GrowthQuantum, 1024},
		{1025, GrowthQuantum, 2048},
		{4096 + HeaderSize, GrowthQuantum, 5120},
		{100, 0, 100},
		{10, 3, 12},
	}
	for _, c := range cases {
		if got := AlignUp(c.n, c.quantum); got != c.want {
			t.Fatalf("AlignUp(%d, %d) = %d, want %d", c.n, c.quantum, got, c.want)
		}
	}
	if AlignPage(1, 4096) != 4096 || AlignPage(4097, 4096) != 8192 || AlignPage(0, 4096) != 0 {
		t.Fatalf("AlignPage mismatch")
	}
}
