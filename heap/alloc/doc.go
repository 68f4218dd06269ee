// Package alloc implements a first-fit heap allocator over a break-style pool.
//
// # Overview
//
// The allocator is a drop-in model of the classic malloc family: Alloc,
// Free, Calloc, Realloc and Strdup, plus a whole-pool Reset. Every region it
// hands out is tracked by a block header reserved in the pool immediately
// before the region's usable bytes, and every header is threaded onto a
// doubly linked directory in ascending offset order.
//
// # Block Headers
//
// A header records whether the block is free, its capacity (usable bytes,
// excluding the header), the size the current occupant asked for, and the
// offsets of its directory neighbors. The directory is authoritative; the
// same fields are also encoded into the pool (see internal/format) so that
// heap/verify can detect a header overwritten by a client overrun.
//
//	+--------+---------------------------+--------+-------------------+
//	| header | data: capacity bytes      | header | data ...          |
//	+--------+---------------------------+--------+-------------------+
//	^ off    ^ Ptr = off + HeaderSize     ^ next.off = Ptr + capacity
//
// # Placement
//
// Alloc walks the directory from the head and takes the first node that
// either is free with enough capacity (reused whole, no split), or is in use
// with at least HeaderSize+size bytes of unused tail (the tail is carved
// into a new block linked after it). If nothing fits, the pool grows by
// size+HeaderSize rounded up to the growth quantum (1024 bytes by default)
// and the new block is appended at the tail, keeping the rounding slack as
// its own headroom.
//
// # Reclamation
//
// Free marks a block free, absorbs a free successor, then lets free
// predecessors absorb it in turn, so no two adjacent free blocks survive a
// call. Pointers that are not in the directory return ErrBadPtr.
//
// # Resize
//
// Realloc updates the size in place whenever capacity allows, otherwise it
// allocates, copies min(old, new) bytes and frees the old block.
//
// # Usage Example
//
//	h, err := heap.New(heap.Options{})
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	a := alloc.New(h, nil)
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	buf, _ := a.Bytes(p)
//	copy(buf, "hello")
//	_ = a.Free(p)
//
// # Diagnostics
//
// SetVerbose and SetLogOutput control structured (log/slog) tracing of every
// operation; the HEAP_LOG_ALLOC environment variable turns it on at
// construction. Blocks, Watermarks and Stats expose a read-only view for
// heap/printer and heap/verify.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers that share one across
// goroutines must serialize every call, for example with a sync.Mutex.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap: The pool allocators grow
//   - github.com/joshuapare/heapkit/heap/printer: Heap map reports
//   - github.com/joshuapare/heapkit/heap/verify: Directory invariant checks
package alloc
