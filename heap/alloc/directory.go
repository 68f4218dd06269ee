package alloc

import "github.com/joshuapare/heapkit/internal/format"

// block is a directory entry. prev/next are ownership-free links in
// ascending offset order.
type block struct {
	off      int // header offset in the pool
	free     bool
	capacity int
	size     int
	prev     *block
	next     *block
}

// data returns the block's data pointer.
func (b *block) data() Ptr { return Ptr(b.off + HeaderSize) }

// end returns the pool offset one past the block's capacity.
func (b *block) end() int { return b.off + HeaderSize + b.capacity }

// pushBack appends b at the tail of the directory.
func (a *Allocator) pushBack(b *block) {
	b.prev = a.tail
	b.next = nil
	if a.tail != nil {
		a.tail.next = b
	} else {
		a.head = b
	}
	a.tail = b
	a.count++
}

// insertAfter links nb between donor and donor's old successor.
func (a *Allocator) insertAfter(donor, nb *block) {
	nb.prev = donor
	nb.next = donor.next
	if donor.next != nil {
		donor.next.prev = nb
	} else {
		a.tail = nb
	}
	donor.next = nb
	a.count++
}

// unlink removes b from the directory and repairs its neighbors' links.
func (a *Allocator) unlink(b *block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		a.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		a.tail = b.prev
	}
	b.prev, b.next = nil, nil
	a.count--
}

// find returns the block whose data pointer is exactly p.
func (a *Allocator) find(p Ptr) *block {
	for b := a.head; b != nil; b = b.next {
		if b.data() == p {
			return b
		}
		if b.data() > p {
			// Directory is address-ordered; nothing further can match.
			return nil
		}
	}
	return nil
}

// writeHeader mirrors b into its reserved header bytes.
func (a *Allocator) writeHeader(b *block) {
	prev, next := -1, -1
	if b.prev != nil {
		prev = b.prev.off
	}
	if b.next != nil {
		next = b.next.off
	}
	format.PutHeader(a.pool.Bytes(), b.off, format.Header{
		Free:     b.free,
		Capacity: b.capacity,
		Size:     b.size,
		Prev:     prev,
		Next:     next,
	})
}

// writeHeaders mirrors every non-nil block given.
func (a *Allocator) writeHeaders(bs ...*block) {
	for _, b := range bs {
		if b != nil {
			a.writeHeader(b)
		}
	}
}
