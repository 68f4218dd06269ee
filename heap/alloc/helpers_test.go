package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocator Construction
// ============================================================================

// newTestAllocator creates an allocator over a fresh mmap-backed heap (or the
// byte-slice fallback where mmap is unavailable) with a 4MB limit.
func newTestAllocator(t testing.TB) (*Allocator, *heap.Heap) {
	t.Helper()
	return newTestAllocatorWith(t, heap.Options{Limit: 4 << 20}, nil)
}

// newTestAllocatorWith creates an allocator with explicit heap options and config.
func newTestAllocatorWith(t testing.TB, opts heap.Options, cfg *Config) (*Allocator, *heap.Heap) {
	t.Helper()
	t.Setenv("HEAP_LOG_ALLOC", "")

	h, err := heap.New(opts)
	require.NoError(t, err, "failed to create test heap")
	t.Cleanup(func() { _ = h.Close() })

	return New(h, cfg), h
}

// errPoolRefused is returned by refusingPool.Append.
var errPoolRefused = errors.New("pool refused")

// refusingPool is a Pool whose break never moves.
type refusingPool struct{}

func (refusingPool) Bytes() []byte          { return nil }
func (refusingPool) Size() int64            { return 0 }
func (refusingPool) Append(int64) error     { return errPoolRefused }
func (refusingPool) Truncate(n int64) error { return nil }

// ============================================================================
// Data Helpers
// ============================================================================

// fill writes v into every byte of the occupant's region.
func fill(t testing.TB, a *Allocator, p Ptr, v byte) {
	t.Helper()
	b, err := a.Bytes(p)
	require.NoError(t, err)
	for i := range b {
		b[i] = v
	}
}

// requireFilled checks that the first n bytes at p all equal v.
func requireFilled(t testing.TB, a *Allocator, p Ptr, n int, v byte) {
	t.Helper()
	b, err := a.Bytes(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		require.Equal(t, v, b[i], "byte %d at ptr %d corrupted", i, p)
	}
}

// blockAt returns the directory snapshot entry whose data pointer is p.
func blockAt(t testing.TB, a *Allocator, p Ptr) BlockInfo {
	t.Helper()
	for _, b := range a.Blocks() {
		if b.Data == p {
			return b
		}
	}
	require.Failf(t, "block not found", "no block with data pointer %d", p)
	return BlockInfo{}
}

// ============================================================================
// Invariant Checks
// ============================================================================

// requireInvariants walks the directory and checks every structural
// invariant, including agreement between the directory and the headers
// encoded in the pool.
func requireInvariants(t testing.TB, a *Allocator) {
	t.Helper()

	low, high := a.Watermarks()
	blocks := a.Blocks()
	require.Len(t, blocks, a.Len(), "count drifted from directory length")

	if len(blocks) == 0 {
		require.Equal(t, low, high, "empty directory must span nothing")
		return
	}

	pool := a.PoolBytes()
	require.Equal(t, int(low), blocks[0].Offset, "head must sit at the low watermark")

	total := 0
	for i, b := range blocks {
		require.Equal(t, b.Offset+HeaderSize, int(b.Data))
		if b.Free {
			require.Zero(t, b.Size, "free block %d has non-zero size", i)
		} else {
			require.GreaterOrEqual(t, b.Capacity, b.Size, "block %d over capacity", i)
			require.Positive(t, b.Size, "in-use block %d has zero size", i)
		}

		if i > 0 {
			prev := blocks[i-1]
			require.Equal(t, prev.End(), b.Offset, "blocks %d and %d not contiguous", i-1, i)
			require.Equal(t, prev.Offset, b.Prev, "block %d back-link broken", i)
			require.False(t, prev.Free && b.Free, "adjacent free blocks %d and %d", i-1, i)
		} else {
			require.Equal(t, -1, b.Prev)
		}
		if i < len(blocks)-1 {
			require.Equal(t, blocks[i+1].Offset, b.Next, "block %d forward link broken", i)
		} else {
			require.Equal(t, -1, b.Next)
		}

		hdr, err := format.ReadHeader(pool, b.Offset)
		require.NoError(t, err)
		require.Equal(t, format.Header{
			Free:     b.Free,
			Capacity: b.Capacity,
			Size:     b.Size,
			Prev:     b.Prev,
			Next:     b.Next,
		}, hdr, "encoded header %d out of sync", i)

		total += b.BlockSize()
	}

	require.Equal(t, int(high-low), total, "capacity not conserved")
	require.Equal(t, int(high), blocks[len(blocks)-1].End(), "tail must end at the high watermark")
}
