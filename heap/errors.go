package heap

import "errors"

var (
	// ErrExhausted indicates the break cannot move past the reservation limit.
	ErrExhausted = errors.New("heap: pool exhausted")

	// ErrClosed indicates an operation on a closed heap.
	ErrClosed = errors.New("heap: closed")

	// ErrBadSize indicates a negative or out-of-range size argument.
	ErrBadSize = errors.New("heap: bad size")
)
