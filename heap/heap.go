package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

const (
	// DefaultLimit is the reservation size used when Options.Limit is zero.
	DefaultLimit = 64 << 20

	// fallbackPageSize is used when the platform does not report one.
	fallbackPageSize = 4096
)

// Options configures a Heap.
type Options struct {
	// Limit is the maximum number of bytes the break may reach.
	// Default: DefaultLimit
	Limit int64

	// InMemory forces the byte-slice backend even where mmap is available.
	// Default: false
	InMemory bool
}

// Heap is a contiguous, break-style memory pool.
type Heap struct {
	data      []byte // reservation (mapped) or backing slice (in-memory)
	brk       int    // current break; Bytes() is data[:brk]
	committed int    // bytes currently accessible (page-aligned when mapped)
	limit     int
	pageSize  int
	mapped    bool
	closed    bool
}

// New creates an empty heap. Nothing is committed until the first Append.
func New(opts Options) (*Heap, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 || limit > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("%w: limit %d", ErrBadSize, limit)
	}

	h := &Heap{pageSize: pageSize()}
	if h.pageSize <= 0 {
		h.pageSize = fallbackPageSize
	}

	if opts.InMemory || !mmapSupported {
		h.limit = int(limit)
		return h, nil
	}

	h.limit = format.AlignPage(int(limit), h.pageSize)
	data, err := reserve(h.limit)
	if err != nil {
		return nil, fmt.Errorf("heap: reserve %d bytes: %w", h.limit, err)
	}
	h.data = data
	h.mapped = true
	return h, nil
}

// Bytes returns the pool up to the current break.
func (h *Heap) Bytes() []byte {
	if h == nil || h.closed {
		return nil
	}
	return h.data[:h.brk:h.brk]
}

// Size returns the current break.
func (h *Heap) Size() int64 { return int64(h.brk) }

// Limit returns the maximum break.
func (h *Heap) Limit() int64 { return int64(h.limit) }

// Committed returns the number of bytes currently backed by accessible memory.
func (h *Heap) Committed() int64 { return int64(h.committed) }

// Mapped reports whether the heap is backed by an mmap reservation.
func (h *Heap) Mapped() bool { return h.mapped }

// Append moves the break forward by n bytes. The new bytes are zero.
func (h *Heap) Append(n int64) error {
	if h == nil || h.closed {
		return ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: append %d", ErrBadSize, n)
	}
	if n == 0 {
		return nil
	}
	if n > int64(h.limit-h.brk) {
		return fmt.Errorf("%w: break %d + %d exceeds limit %d", ErrExhausted, h.brk, n, h.limit)
	}

	newBrk := h.brk + int(n)
	if newBrk > h.committed {
		if err := h.grow(newBrk); err != nil {
			return err
		}
	}
	h.brk = newBrk
	return nil
}

// grow makes at least newBrk bytes accessible.
func (h *Heap) grow(newBrk int) error {
	if h.mapped {
		end := min(format.AlignPage(newBrk, h.pageSize), h.limit)
		if err := commit(h.data[h.committed:end]); err != nil {
			return fmt.Errorf("heap: commit [0x%X, 0x%X): %w", h.committed, end, err)
		}
		h.committed = end
		return nil
	}

	// Double the backing slice to amortize copies.
	newCap := min(max(newBrk, 2*len(h.data)), h.limit)
	data := make([]byte, newCap)
	copy(data, h.data[:h.brk])
	h.data = data
	h.committed = newCap
	return nil
}

// Truncate moves the break back to newSize. Released bytes are zeroed, and
// on mapped heaps whole released pages are returned to the kernel.
func (h *Heap) Truncate(newSize int64) error {
	if h == nil || h.closed {
		return ErrClosed
	}
	if newSize < 0 || newSize > int64(h.brk) {
		return fmt.Errorf("%w: truncate to %d (break %d)", ErrBadSize, newSize, h.brk)
	}
	if newSize == int64(h.brk) {
		return nil
	}

	keep := int(newSize)
	clear(h.data[keep:h.brk])

	if h.mapped {
		pageEnd := format.AlignPage(keep, h.pageSize)
		if pageEnd < h.committed {
			if err := decommit(h.data[pageEnd:h.committed]); err != nil {
				return fmt.Errorf("heap: decommit [0x%X, 0x%X): %w", pageEnd, h.committed, err)
			}
			h.committed = pageEnd
		}
	}

	h.brk = keep
	return nil
}

// Close releases the reservation. The heap is unusable afterwards.
func (h *Heap) Close() error {
	if h == nil || h.closed {
		return nil
	}
	h.closed = true
	data := h.data
	h.data = nil
	h.brk = 0
	h.committed = 0
	if h.mapped && data != nil {
		return unmap(data)
	}
	return nil
}
