package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// grow extends the pool for a request of size bytes and appends a new
// in-use block at the tail. The OS request is size+HeaderSize rounded up to
// the quantum; the slack stays with the new block as headroom.
func (a *Allocator) grow(size int) (*block, error) {
	need, ok := buf.AddOverflowSafe(size, HeaderSize)
	if !ok {
		return nil, fmt.Errorf("%w: request of %d bytes", ErrOverflow, size)
	}
	n := format.AlignUp(need, a.quantum)
	if n < need {
		return nil, fmt.Errorf("%w: request of %d bytes", ErrOverflow, size)
	}

	off := a.pool.Size()
	if a.grown && off != a.high {
		return nil, fmt.Errorf("%w: pool break 0x%X moved from high watermark 0x%X", ErrGrowFail, off, a.high)
	}
	if err := a.pool.Append(int64(n)); err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrGrowFail, n, err)
	}

	if !a.grown {
		a.low = off
		a.grown = true
	}
	a.high = off + int64(n)

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(n)

	if a.verbose {
		a.log.Debug("grow", "need", need, "bytes", n, "quantum", a.quantum, "low", a.low, "high", a.high)
	}

	b := &block{
		off:      int(off),
		capacity: n - HeaderSize,
		size:     size,
	}
	a.pushBack(b)
	a.writeHeaders(b.prev, b)

	if a.onGrow != nil {
		a.onGrow(n)
	}
	return b, nil
}
