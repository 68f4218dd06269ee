package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Alloc returns a pointer to at least size usable bytes.
//
// The directory is scanned from the head; the first node that is free with
// capacity >= size is reused whole, and the first in-use node with at least
// HeaderSize+size unused bytes donates its tail. Otherwise the pool grows.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	a.stats.AllocCalls++
	if size <= 0 {
		return Nil, ErrInvalidSize
	}

	for b := a.head; b != nil; b = b.next {
		if b.free {
			if b.capacity >= size {
				return a.reuse(b, size), nil
			}
			continue
		}
		if b.capacity-b.size >= HeaderSize+size {
			return a.split(b, size), nil
		}
	}

	b, err := a.grow(size)
	if err != nil {
		if a.verbose {
			a.log.Debug("alloc failed", "size", size, "err", err)
		}
		return Nil, err
	}
	a.stats.AllocGrow++
	a.stats.BytesRequested += int64(size)
	if a.verbose {
		a.log.Debug("alloc", "size", size, "ptr", b.data(), "path", "grow", "capacity", b.capacity)
	}
	return b.data(), nil
}

// reuse hands a free block to a new occupant without splitting it.
func (a *Allocator) reuse(b *block, size int) Ptr {
	b.free = false
	b.size = size
	a.writeHeader(b)

	a.stats.AllocReuse++
	a.stats.BytesRequested += int64(size)
	if a.verbose {
		a.log.Debug("alloc", "size", size, "ptr", b.data(), "path", "reuse", "capacity", b.capacity)
	}
	return b.data()
}

// split carves a new in-use block out of donor's unused tail. The donor
// keeps exactly its occupant's size; the new block gets the remainder.
func (a *Allocator) split(donor *block, size int) Ptr {
	nb := &block{
		off:      donor.off + HeaderSize + donor.size,
		capacity: donor.capacity - donor.size - HeaderSize,
		size:     size,
	}
	donor.capacity = donor.size
	a.insertAfter(donor, nb)
	a.writeHeaders(donor, nb, nb.next)

	a.stats.AllocSplit++
	a.stats.BytesRequested += int64(size)
	if a.verbose {
		a.log.Debug("alloc", "size", size, "ptr", nb.data(), "path", "split", "donor", donor.data(), "capacity", nb.capacity)
	}
	return nb.data()
}

// Calloc allocates count*elemSize bytes and zeroes all of them.
func (a *Allocator) Calloc(count, elemSize int) (Ptr, error) {
	if count < 0 || elemSize < 0 {
		return Nil, ErrInvalidSize
	}
	n, ok := buf.MulOverflowSafe(count, elemSize)
	if !ok {
		return Nil, fmt.Errorf("%w: %d * %d", ErrOverflow, count, elemSize)
	}
	p, err := a.Alloc(n)
	if err != nil {
		return Nil, err
	}
	data := a.pool.Bytes()
	clear(data[int(p) : int(p)+n])
	return p, nil
}

// Strdup copies s into a new block followed by a NUL terminator.
func (a *Allocator) Strdup(s string) (Ptr, error) {
	p, err := a.Alloc(len(s) + 1)
	if err != nil {
		return Nil, err
	}
	data := a.pool.Bytes()
	n := copy(data[int(p):], s)
	data[int(p)+n] = 0
	return p, nil
}
