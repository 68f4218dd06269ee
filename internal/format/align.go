package format

// Alignment utilities for pool layout.

// AlignUp returns n rounded up to the next multiple of quantum.
// quantum need not be a power of two; a non-positive quantum returns n.
//
// Example:
//
//	AlignUp(140, 1024)  = 1024
//	AlignUp(1024, 1024) = 1024
//	AlignUp(4136, 1024) = 5120
func AlignUp(n, quantum int) int {
	if quantum <= 0 {
		return n
	}
	return ((n + quantum - 1) / quantum) * quantum
}

// AlignPage returns n aligned up to the next multiple of pageSize, which
// must be a power of two.
func AlignPage(n, pageSize int) int {
	mask := pageSize - 1
	return (n + mask) & ^mask
}
