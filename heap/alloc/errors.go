package alloc

import "errors"

var (
	// ErrInvalidSize indicates a zero or negative request size.
	ErrInvalidSize = errors.New("alloc: size must be positive")

	// ErrOverflow indicates count * elemSize does not fit in an int.
	ErrOverflow = errors.New("alloc: size overflow")

	// ErrGrowFail indicates the pool refused to extend.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrBadPtr indicates a pointer that is not the data pointer of any block.
	ErrBadPtr = errors.New("alloc: pointer not owned by allocator")

	// ErrNotInUse indicates a pointer to a block that is already free.
	ErrNotInUse = errors.New("alloc: block is not in use")
)
