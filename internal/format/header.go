package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Header is the decoded form of a block header stored in the pool.
// Prev and Next are header offsets, or -1 when absent.
type Header struct {
	Free     bool
	Capacity int
	Size     int
	Prev     int
	Next     int
}

// PutHeader encodes h at off. The caller guarantees off+HeaderSize <= len(b).
func PutHeader(b []byte, off int, h Header) {
	flag := byte(FlagInUse)
	if h.Free {
		flag = FlagFree
	}
	b[off+HeaderFreeOffset] = flag
	clear(b[off+HeaderFreeOffset+1 : off+HeaderCapacityOffset])
	PutU64(b, off+HeaderCapacityOffset, uint64(h.Capacity))
	PutU64(b, off+HeaderSizeOffset, uint64(h.Size))
	PutU64(b, off+HeaderPrevOffset, encodeLink(h.Prev))
	PutU64(b, off+HeaderNextOffset, encodeLink(h.Next))
}

// ReadHeader decodes the header at off.
func ReadHeader(b []byte, off int) (Header, error) {
	if !buf.Has(b, off, HeaderSize) {
		return Header{}, fmt.Errorf("header at 0x%X: %w", off, ErrTruncated)
	}
	var h Header
	switch b[off+HeaderFreeOffset] {
	case FlagFree:
		h.Free = true
	case FlagInUse:
	default:
		return Header{}, fmt.Errorf("header at 0x%X: flag 0x%02X: %w", off, b[off+HeaderFreeOffset], ErrBadFlag)
	}
	h.Capacity = int(ReadU64(b, off+HeaderCapacityOffset))
	h.Size = int(ReadU64(b, off+HeaderSizeOffset))
	h.Prev = decodeLink(ReadU64(b, off+HeaderPrevOffset))
	h.Next = decodeLink(ReadU64(b, off+HeaderNextOffset))
	return h, nil
}

func encodeLink(off int) uint64 {
	if off < 0 {
		return NoLink
	}
	return uint64(off)
}

func decodeLink(v uint64) int {
	if v == NoLink {
		return -1
	}
	return int(v)
}
