package alloc

// Realloc resizes the block at p.
//
//   - p == Nil behaves as Alloc(size).
//   - size == 0 frees p and returns Nil.
//   - If the block's capacity already holds size, only the recorded size
//     changes; no bytes move and the block is not split.
//   - Otherwise a new block is allocated, min(old, new) bytes are copied and
//     the old block is freed.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	a.stats.ReallocCalls++
	if p == Nil {
		return a.Alloc(size)
	}
	if size < 0 {
		return Nil, ErrInvalidSize
	}
	if size == 0 {
		return Nil, a.Free(p)
	}

	b, err := a.lookup(p)
	if err != nil {
		return Nil, err
	}

	if b.capacity >= size {
		old := b.size
		b.size = size
		a.writeHeader(b)
		a.stats.ReallocInPlace++
		if a.verbose {
			a.log.Debug("realloc", "ptr", p, "old", old, "size", size, "path", "in-place")
		}
		return p, nil
	}

	old := b.size
	np, err := a.Alloc(size)
	if err != nil {
		return Nil, err
	}
	// Re-read the pool: Alloc may have grown it.
	data := a.pool.Bytes()
	n := min(old, size)
	copy(data[int(np):int(np)+n], data[int(p):int(p)+n])
	if err := a.Free(p); err != nil {
		return Nil, err
	}

	a.stats.ReallocMoved++
	if a.verbose {
		a.log.Debug("realloc", "ptr", p, "new", np, "old", old, "size", size, "path", "move")
	}
	return np, nil
}
