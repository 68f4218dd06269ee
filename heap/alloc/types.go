package alloc

import (
	"io"

	"github.com/joshuapare/heapkit/internal/format"
)

// HeaderSize is the number of pool bytes reserved before every block's data.
const HeaderSize = format.HeaderSize

// DefaultQuantum is the default growth quantum in bytes.
const DefaultQuantum = format.GrowthQuantum

// Ptr is the pool offset of a block's first usable byte.
type Ptr int

// Nil is the null pointer. No block has its data at offset 0 because every
// block starts with a header.
const Nil Ptr = 0

// Pool is the break-style memory an Allocator grows into.
//
// Implementations:
//   - *heap.Heap: mmap reservation or byte-slice backend
//
// The allocator assumes it is the pool's only writer.
type Pool interface {
	// Bytes returns the pool up to the current break. The slice may be
	// invalidated by Append.
	Bytes() []byte

	// Size returns the current break.
	Size() int64

	// Append moves the break forward by n zeroed bytes.
	Append(n int64) error

	// Truncate moves the break back to newSize.
	Truncate(newSize int64) error
}

// Config holds allocator settings.
type Config struct {
	// Quantum is the growth unit in bytes. Default: DefaultQuantum
	Quantum int

	// Verbose enables debug logging of every operation.
	Verbose bool

	// LogOutput receives diagnostic output. Default: os.Stderr
	LogOutput io.Writer
}

// DefaultConfig is used when New is given a nil config.
var DefaultConfig = Config{
	Quantum: DefaultQuantum,
}

// BlockInfo is a read-only snapshot of one directory entry.
type BlockInfo struct {
	Index    int  // Position in the directory, head = 0
	Offset   int  // Header offset in the pool
	Data     Ptr  // Data pointer (Offset + HeaderSize)
	Prev     int  // Predecessor header offset, -1 if none
	Next     int  // Successor header offset, -1 if none
	Capacity int  // Usable bytes, excluding the header
	Size     int  // Bytes requested by the occupant, 0 when free
	Free     bool // Free flag
}

// BlockSize returns the block's footprint including its header.
func (b BlockInfo) BlockSize() int { return b.Capacity + HeaderSize }

// Excess returns the capacity not used by the occupant.
func (b BlockInfo) Excess() int { return b.Capacity - b.Size }

// End returns the pool offset one past the block's last byte.
func (b BlockInfo) End() int { return int(b.Data) + b.Capacity }

// Stats holds allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls       int   // Total Alloc() calls, including those from Calloc/Realloc/Strdup
	AllocReuse       int   // Allocations served by a free block
	AllocSplit       int   // Allocations carved from an in-use block's tail
	AllocGrow        int   // Allocations that required growth
	FreeCalls        int   // Total successful Free() calls
	ReallocCalls     int   // Total Realloc() calls
	ReallocInPlace   int   // Resizes satisfied without moving
	ReallocMoved     int   // Resizes that allocated, copied and freed
	GrowCalls        int   // Number of pool extensions
	GrowBytes        int64 // Total bytes obtained from the pool
	CoalesceForward  int   // Free successors absorbed
	CoalesceBackward int   // Blocks absorbed by a free predecessor
	Resets           int   // Reset() calls that released memory
	BytesRequested   int64 // Sum of sizes passed to successful allocations
}
