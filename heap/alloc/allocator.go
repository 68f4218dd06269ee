package alloc

import (
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/internal/logger"
)

// Allocator is a first-fit block allocator over a Pool.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Allocator struct {
	pool    Pool
	quantum int

	// Block directory, ascending offset order
	head  *block
	tail  *block
	count int

	// Watermarks: low is set once by the first growth, high only moves up
	// (until Reset brings it back to low).
	low   int64
	high  int64
	grown bool

	// Diagnostics
	verbose bool
	out     io.Writer
	log     *slog.Logger

	stats Stats

	// Test hook: called after every pool extension with the byte count (nil in production)
	onGrow func(int)
}

// New creates an allocator that grows into p.
//
// Parameters:
//   - p: The pool to carve blocks from; the allocator must be its only writer
//   - cfg: Allocator configuration (use nil for DefaultConfig)
func New(p Pool, cfg *Config) *Allocator {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	a := &Allocator{
		pool:    p,
		quantum: cfg.Quantum,
		out:     cfg.LogOutput,
		verbose: cfg.Verbose || logger.EnvEnabled(),
	}
	if a.quantum <= 0 {
		a.quantum = DefaultQuantum
	}
	if a.out == nil {
		a.out = os.Stderr
	}
	a.rebuildLogger()
	return a
}

// SetVerbose toggles diagnostic logging.
func (a *Allocator) SetVerbose(on bool) {
	a.verbose = on
	a.rebuildLogger()
	if on {
		a.log.Info("verbose enabled")
	}
}

// Verbose reports whether diagnostic logging is on.
func (a *Allocator) Verbose() bool { return a.verbose }

// SetLogOutput redirects diagnostic output. A nil writer restores os.Stderr.
func (a *Allocator) SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	a.out = w
	a.rebuildLogger()
}

// LogOutput returns the current diagnostic target.
func (a *Allocator) LogOutput() io.Writer { return a.out }

func (a *Allocator) rebuildLogger() {
	a.log = logger.New(logger.Options{Enabled: a.verbose, Output: a.out})
}

// Quantum returns the growth quantum in bytes.
func (a *Allocator) Quantum() int { return a.quantum }

// Len returns the number of blocks in the directory.
func (a *Allocator) Len() int { return a.count }

// Watermarks returns the lowest and highest pool offsets ever granted.
// Both are zero before the first growth.
func (a *Allocator) Watermarks() (low, high int64) { return a.low, a.high }

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// PoolBytes returns the pool up to the current break, for read-only inspection.
func (a *Allocator) PoolBytes() []byte { return a.pool.Bytes() }

// Blocks returns a snapshot of the directory, head first.
func (a *Allocator) Blocks() []BlockInfo {
	out := make([]BlockInfo, 0, a.count)
	i := 0
	for b := a.head; b != nil; b = b.next {
		info := BlockInfo{
			Index:    i,
			Offset:   b.off,
			Data:     b.data(),
			Prev:     -1,
			Next:     -1,
			Capacity: b.capacity,
			Size:     b.size,
			Free:     b.free,
		}
		if b.prev != nil {
			info.Prev = b.prev.off
		}
		if b.next != nil {
			info.Next = b.next.off
		}
		out = append(out, info)
		i++
	}
	return out
}

// Bytes returns the occupant's view of the block at p: length is the
// requested size, capacity is the block's capacity. The slice may be
// invalidated by any later allocation that grows the pool.
func (a *Allocator) Bytes(p Ptr) ([]byte, error) {
	b, err := a.lookup(p)
	if err != nil {
		return nil, err
	}
	data := a.pool.Bytes()
	start := int(p)
	return data[start : start+b.size : start+b.capacity], nil
}

// CString returns the NUL-terminated string stored at p (see Strdup). If no
// NUL occurs within the occupant's size, the whole region is returned.
func (a *Allocator) CString(p Ptr) (string, error) {
	buf, err := a.Bytes(p)
	if err != nil {
		return "", err
	}
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

// lookup resolves p to an in-use block.
func (a *Allocator) lookup(p Ptr) (*block, error) {
	b := a.find(p)
	if b == nil {
		return nil, ErrBadPtr
	}
	if b.free {
		return nil, ErrNotInUse
	}
	return b, nil
}

// Reset hands the whole pool back by truncating it to the low watermark and
// empties the directory. It is a no-op before the first growth and
// idempotent afterwards.
func (a *Allocator) Reset() error {
	if !a.grown {
		return nil
	}
	released := a.high - a.low
	if err := a.pool.Truncate(a.low); err != nil {
		return err
	}
	a.head, a.tail, a.count = nil, nil, 0
	a.high = a.low
	if released > 0 {
		a.stats.Resets++
	}
	if a.verbose {
		a.log.Debug("reset", "released", released, "low", a.low)
	}
	return nil
}
