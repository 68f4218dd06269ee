// Package printer renders an allocator's block directory as a heap map.
//
// The text format lists one row per block (index, header/next/prev/data
// offsets, block size, capacity, size, excess and status) followed by a
// totals row and a summary line with the used/free block counts, the heap
// watermarks and the header size. The JSON format carries the same data.
//
// Example:
//
//	p := printer.New(a, os.Stdout, printer.DefaultOptions())
//	if err := p.Print(); err != nil {
//	    return err
//	}
package printer

import (
	"io"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the human-readable heap map.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Source is what a Printer reads. *alloc.Allocator implements it.
type Source interface {
	Blocks() []alloc.BlockInfo
	Watermarks() (low, high int64)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// GroupDigits renders byte counts in the totals with thousands
	// separators (text format only).
	// Default: false
	GroupDigits bool

	// ShowTotals appends the totals row and summary line (text format only).
	// Default: true
	ShowTotals bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		GroupDigits: false,
		ShowTotals:  true,
	}
}

// Printer handles formatted output of a block directory.
type Printer struct {
	opts   Options
	writer io.Writer
	src    Source
}

// New creates a new Printer.
func New(src Source, w io.Writer, opts Options) *Printer {
	return &Printer{
		src:    src,
		writer: w,
		opts:   opts,
	}
}

// Print writes the heap map.
func (p *Printer) Print() error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON()
	case FormatText:
		return p.printText()
	default:
		return p.printText()
	}
}

// Totals summarizes a directory snapshot.
type Totals struct {
	BlockBytes    int `json:"block_bytes"` // Sum of block sizes, headers included
	CapacityBytes int `json:"capacity_bytes"`
	UserBytes     int `json:"user_bytes"` // Sum of occupant sizes
	ExcessBytes   int `json:"excess_bytes"`
	UsedBlocks    int `json:"used_blocks"`
	FreeBlocks    int `json:"free_blocks"`
}

// Summarize computes the totals for blocks.
func Summarize(blocks []alloc.BlockInfo) Totals {
	var t Totals
	for _, b := range blocks {
		t.BlockBytes += b.BlockSize()
		t.CapacityBytes += b.Capacity
		t.UserBytes += b.Size
		if b.Free {
			t.FreeBlocks++
		} else {
			t.UsedBlocks++
		}
	}
	t.ExcessBytes = t.CapacityBytes - t.UserBytes
	return t
}
