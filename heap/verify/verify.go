package verify

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// Error types for different validation failures.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Source is the allocator view verify needs. *alloc.Allocator implements it.
type Source interface {
	Blocks() []alloc.BlockInfo
	Watermarks() (low, high int64)
	PoolBytes() []byte
}

// AllInvariants validates the directory and the encoded headers.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(src Source) error {
	blocks := src.Blocks()
	low, high := src.Watermarks()
	if err := Directory(blocks, low, high); err != nil {
		return err
	}
	return Headers(src.PoolBytes(), blocks)
}

// Directory validates ordering, contiguity, links, the size rules and
// capacity conservation for a directory snapshot spanning [low, high).
func Directory(blocks []alloc.BlockInfo, low, high int64) error {
	if len(blocks) == 0 {
		if low != high {
			return &ValidationError{
				Type:    "Directory",
				Message: fmt.Sprintf("empty directory but heap spans [0x%X, 0x%X)", low, high),
				Offset:  -1,
			}
		}
		return nil
	}

	if int64(blocks[0].Offset) != low {
		return &ValidationError{
			Type:    "Directory",
			Message: fmt.Sprintf("head at 0x%X, low watermark 0x%X", blocks[0].Offset, low),
			Offset:  blocks[0].Offset,
		}
	}

	total := 0
	for i, b := range blocks {
		if int(b.Data) != b.Offset+alloc.HeaderSize {
			return blockError(b, "data pointer 0x%X does not follow header", int(b.Data))
		}
		if b.Capacity < 0 {
			return blockError(b, "negative capacity %d", b.Capacity)
		}
		if b.Free && b.Size != 0 {
			return blockError(b, "free block records size %d", b.Size)
		}
		if !b.Free && (b.Size <= 0 || b.Size > b.Capacity) {
			return &ValidationError{
				Type:    "Directory",
				Message: fmt.Sprintf("in-use size %d outside (0, %d]", b.Size, b.Capacity),
				Offset:  b.Offset,
				Details: map[string]any{"index": b.Index, "size": b.Size, "capacity": b.Capacity},
			}
		}

		wantPrev := -1
		if i > 0 {
			prev := blocks[i-1]
			wantPrev = prev.Offset
			if prev.End() != b.Offset {
				return &ValidationError{
					Type:    "Directory",
					Message: fmt.Sprintf("block %d ends at 0x%X but block %d starts at 0x%X", i-1, prev.End(), i, b.Offset),
					Offset:  b.Offset,
					Details: map[string]any{"prev_end": prev.End(), "offset": b.Offset},
				}
			}
			if prev.Free && b.Free {
				return blockError(b, "free block follows free block at 0x%X", prev.Offset)
			}
		}
		if b.Prev != wantPrev {
			return blockError(b, "prev link 0x%X, expected 0x%X", b.Prev, wantPrev)
		}

		wantNext := -1
		if i < len(blocks)-1 {
			wantNext = blocks[i+1].Offset
		}
		if b.Next != wantNext {
			return blockError(b, "next link 0x%X, expected 0x%X", b.Next, wantNext)
		}

		total += b.BlockSize()
	}

	if int64(total) != high-low {
		return &ValidationError{
			Type:    "Directory",
			Message: fmt.Sprintf("blocks cover %d bytes, heap spans %d", total, high-low),
			Offset:  -1,
			Details: map[string]any{"blocks": total, "low": low, "high": high},
		}
	}
	return nil
}

// Headers validates that every block's encoded header in pool matches the
// directory snapshot.
func Headers(pool []byte, blocks []alloc.BlockInfo) error {
	for _, b := range blocks {
		got, err := format.ReadHeader(pool, b.Offset)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, format.ErrBadFlag) {
				msg = "free flag overwritten"
			}
			return &ValidationError{
				Type:    "Headers",
				Message: msg,
				Offset:  b.Offset,
				Details: map[string]any{"index": b.Index},
			}
		}

		want := format.Header{
			Free:     b.Free,
			Capacity: b.Capacity,
			Size:     b.Size,
			Prev:     b.Prev,
			Next:     b.Next,
		}
		if got != want {
			return &ValidationError{
				Type:    "Headers",
				Message: fmt.Sprintf("encoded header %+v disagrees with directory %+v", got, want),
				Offset:  b.Offset,
				Details: map[string]any{"index": b.Index, "encoded": got, "directory": want},
			}
		}
	}
	return nil
}

func blockError(b alloc.BlockInfo, msg string, args ...any) error {
	return &ValidationError{
		Type:    "Directory",
		Message: fmt.Sprintf(msg, args...),
		Offset:  b.Offset,
		Details: map[string]any{"index": b.Index},
	}
}
