package alloc

// Free returns the block at p to the directory as free space and coalesces
// it with free neighbors.
//
// A free successor is absorbed first; then, while the predecessor is free,
// the predecessor absorbs the current block. When Free returns no two
// adjacent blocks are both free. Freeing Nil is a no-op.
func (a *Allocator) Free(p Ptr) error {
	if p == Nil {
		return nil
	}
	b, err := a.lookup(p)
	if err != nil {
		if a.verbose {
			a.log.Debug("free rejected", "ptr", p, "err", err)
		}
		return err
	}

	a.stats.FreeCalls++
	b.free = true
	b.size = 0

	forward := 0
	if next := b.next; next != nil && next.free {
		b.capacity += HeaderSize + next.capacity
		a.unlink(next)
		forward++
	}

	backward := 0
	for b.prev != nil && b.prev.free {
		prev := b.prev
		prev.capacity += HeaderSize + b.capacity
		a.unlink(b)
		b = prev
		backward++
	}

	a.stats.CoalesceForward += forward
	a.stats.CoalesceBackward += backward
	a.writeHeaders(b.prev, b, b.next)

	if a.verbose {
		a.log.Debug("free", "ptr", p, "block", b.data(), "capacity", b.capacity,
			"coalesced_forward", forward, "coalesced_backward", backward)
	}
	return nil
}
