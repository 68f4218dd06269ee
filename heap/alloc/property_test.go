package alloc

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
)

// live tracks one outstanding allocation and the pattern written into it.
type live struct {
	ptr  Ptr
	size int
	tag  byte
}

// Test_RandomSequence drives the allocator through a long seeded mix of
// allocations, frees, resizes and resets, checking every structural
// invariant and every live occupant's bytes after each step.
func Test_RandomSequence(t *testing.T) {
	seeds := []uint64{1, 7, 42, 2024}
	for _, seed := range seeds {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			runRandomSequence(t, seed, 600)
		})
	}
}

func runRandomSequence(t *testing.T, seed uint64, steps int) {
	a, _ := newTestAllocatorWith(t, heap.Options{Limit: 16 << 20}, nil)
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))

	var blocks []live
	tag := byte(1)
	nextTag := func() byte {
		tag++
		if tag == 0 {
			tag = 1
		}
		return tag
	}

	for step := range steps {
		switch op := rng.IntN(100); {
		case op < 45 || len(blocks) == 0:
			size := 1 + rng.IntN(3000)
			p, err := a.Alloc(size)
			require.NoError(t, err, "step %d: alloc %d", step, size)
			v := nextTag()
			fill(t, a, p, v)
			blocks = append(blocks, live{ptr: p, size: size, tag: v})

		case op < 75:
			i := rng.IntN(len(blocks))
			require.NoError(t, a.Free(blocks[i].ptr), "step %d: free", step)
			blocks = append(blocks[:i], blocks[i+1:]...)

		case op < 95:
			i := rng.IntN(len(blocks))
			b := blocks[i]
			size := 1 + rng.IntN(4000)
			np, err := a.Realloc(b.ptr, size)
			require.NoError(t, err, "step %d: realloc %d -> %d", step, b.size, size)
			requireFilled(t, a, np, min(b.size, size), b.tag)
			v := nextTag()
			fill(t, a, np, v)
			blocks[i] = live{ptr: np, size: size, tag: v}

		default:
			require.NoError(t, a.Reset(), "step %d: reset", step)
			blocks = blocks[:0]
		}

		requireInvariants(t, a)
		for _, b := range blocks {
			requireFilled(t, a, b.ptr, b.size, b.tag)
		}
	}

	for _, b := range blocks {
		require.NoError(t, a.Free(b.ptr))
	}
	requireInvariants(t, a)
	if a.Len() > 0 {
		require.Equal(t, 1, a.Len(), "freeing everything must leave one free block")
		require.True(t, a.Blocks()[0].Free)
	}
}

// Test_FreeOrderIndependence frees the same layout in every order and checks
// that the directory always collapses to a single free block.
func Test_FreeOrderIndependence(t *testing.T) {
	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
		{1, 2, 0, 3},
	}
	for _, order := range orders {
		a, _ := newTestAllocator(t)
		ptrs := make([]Ptr, 4)
		for i := range ptrs {
			p, err := a.Alloc(100 * (i + 1))
			require.NoError(t, err)
			ptrs[i] = p
		}
		_, high := a.Watermarks()

		for _, i := range order {
			require.NoError(t, a.Free(ptrs[i]))
			requireInvariants(t, a)
		}

		blocks := a.Blocks()
		require.Len(t, blocks, 1, "order %v", order)
		require.True(t, blocks[0].Free)
		require.Equal(t, int(high)-HeaderSize, blocks[0].Capacity)
	}
}
