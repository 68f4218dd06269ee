package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadFlag indicates an encoded free flag other than FlagFree or FlagInUse.
	ErrBadFlag = errors.New("format: invalid free flag")
)
