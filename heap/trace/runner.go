package trace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// ErrUnbound is returned when an operation names a pointer that was
	// never assigned or was already freed.
	ErrUnbound = errors.New("trace: unbound name")

	// ErrOutOfRange is returned when poke addresses a byte past the heap.
	ErrOutOfRange = errors.New("trace: offset out of range")
)

// RunOptions configures a Runner.
type RunOptions struct {
	// Output receives dump output. Default: io.Discard
	Output io.Writer

	// Print controls how dump renders the heap map.
	// Default: printer.DefaultOptions()
	Print *printer.Options

	// CheckEach runs verify.AllInvariants after every operation.
	CheckEach bool

	// Logger receives one record per executed operation. Default: discard
	Logger *slog.Logger
}

// Runner replays trace operations against an allocator.
//
// NOT thread-safe.
type Runner struct {
	a     *alloc.Allocator
	vars  map[string]alloc.Ptr
	out   io.Writer
	popts printer.Options
	check bool
	log   *slog.Logger
}

// NewRunner creates a Runner bound to a.
func NewRunner(a *alloc.Allocator, opts RunOptions) *Runner {
	r := &Runner{
		a:     a,
		vars:  make(map[string]alloc.Ptr),
		out:   opts.Output,
		popts: printer.DefaultOptions(),
		check: opts.CheckEach,
		log:   opts.Logger,
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if opts.Print != nil {
		r.popts = *opts.Print
	}
	if r.log == nil {
		r.log = logger.Discard
	}
	return r
}

// Run executes ops in order and stops at the first failure. Errors carry
// the failing op's line number and wrap the allocator error.
func (r *Runner) Run(ops []Op) error {
	for _, op := range ops {
		if err := r.Step(op); err != nil {
			return fmt.Errorf("line %d: %s: %w", op.Line, op.Kind, err)
		}
		if r.check {
			if err := verify.AllInvariants(r.a); err != nil {
				return fmt.Errorf("line %d: after %s: %w", op.Line, op.Kind, err)
			}
		}
	}
	return nil
}

// Step executes a single operation.
func (r *Runner) Step(op Op) error {
	var (
		p   alloc.Ptr
		err error
	)

	switch op.Kind {
	case KindAlloc:
		p, err = r.a.Alloc(op.Size)
	case KindCalloc:
		p, err = r.a.Calloc(op.Size, op.Elem)
	case KindStrdup:
		p, err = r.a.Strdup(op.Text)
	case KindRealloc:
		src, lerr := r.lookup(op.Src)
		if lerr != nil {
			return lerr
		}
		p, err = r.a.Realloc(src, op.Size)
		if err == nil && op.Src != op.Dest {
			delete(r.vars, op.Src)
		}
	case KindFree:
		src, lerr := r.lookup(op.Src)
		if lerr != nil {
			return lerr
		}
		err = r.a.Free(src)
		if err == nil {
			delete(r.vars, op.Src)
		}
	case KindWrite:
		src, lerr := r.lookup(op.Src)
		if lerr != nil {
			return lerr
		}
		var b []byte
		if b, err = r.a.Bytes(src); err == nil {
			for i := range b {
				b[i] = op.Value
			}
		}
	case KindPoke:
		src, lerr := r.lookup(op.Src)
		if lerr != nil {
			return lerr
		}
		pool := r.a.PoolBytes()
		at := int(src) + op.Off
		cell, ok := buf.Slice(pool, at, 1)
		if !ok {
			return fmt.Errorf("%w: offset 0x%X beyond heap end 0x%X", ErrOutOfRange, at, len(pool))
		}
		cell[0] = op.Value
	case KindReset:
		err = r.a.Reset()
		if err == nil {
			clear(r.vars)
		}
	case KindDump:
		err = printer.New(r.a, r.out, r.popts).Print()
	case KindCheck:
		err = verify.AllInvariants(r.a)
	default:
		return fmt.Errorf("unknown operation %q", op.Kind)
	}
	if err != nil {
		return err
	}

	if op.Kind.assigning() {
		if p == alloc.Nil {
			delete(r.vars, op.Dest)
		} else {
			r.vars[op.Dest] = p
		}
	}
	r.log.Debug("step", "line", op.Line, "op", string(op.Kind), "dest", op.Dest, "ptr", int(p))
	return nil
}

// Lookup returns the pointer bound to name.
func (r *Runner) Lookup(name string) (alloc.Ptr, bool) {
	p, ok := r.vars[name]
	return p, ok
}

// Names returns the bound names in sorted order.
func (r *Runner) Names() []string {
	return slices.Sorted(maps.Keys(r.vars))
}

func (r *Runner) lookup(name string) (alloc.Ptr, error) {
	p, ok := r.vars[name]
	if !ok {
		return alloc.Nil, fmt.Errorf("%w: %q", ErrUnbound, name)
	}
	return p, nil
}
