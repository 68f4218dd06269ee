// Package heap provides the operating-system pool that heapkit allocators
// carve blocks from.
//
// # Overview
//
// A Heap behaves like a classic program break: it is a single contiguous
// range of bytes that only ever grows at its end (Append) or is cut back to
// an earlier boundary (Truncate). Allocators never see pages or mappings,
// only offsets into Bytes().
//
// # Backends
//
// On Unix systems New reserves Options.Limit bytes of address space with an
// anonymous PROT_NONE mapping and commits pages with mprotect as the break
// moves forward. Truncate returns pages with madvise(MADV_DONTNEED) and
// re-protects them, so a reset really hands memory back to the kernel.
// Because the reservation never moves, slices returned by Bytes() stay
// valid across Append.
//
// With Options.InMemory (and on platforms without mmap) the pool is a Go
// byte slice. Append may reallocate it, so callers must re-read Bytes()
// after every Append.
//
// # Zeroing
//
// Bytes exposed by Append are always zero, matching fresh OS memory. Truncate
// zeroes the released tail so a later Append observes the same guarantee.
//
// # Thread Safety
//
// Heap instances are not thread-safe. Callers must synchronize access
// externally.
package heap
