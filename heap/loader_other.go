//go:build !unix

package heap

import "errors"

const mmapSupported = false

var errNoMmap = errors.New("heap: mmap not supported on this platform")

func reserve(int) ([]byte, error) { return nil, errNoMmap }

func commit([]byte) error { return nil }

func decommit([]byte) error { return nil }

func unmap([]byte) error { return nil }

func pageSize() int { return fallbackPageSize }
