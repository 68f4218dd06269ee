// Package format holds the on-pool layout of heapkit block headers: the
// header size, the growth quantum, the field offsets of the encoded header,
// and the little-endian helpers used to read and write them. Higher-level
// packages keep their own view of the directory; this package only knows
// where bytes live.
package format

const (
	// HeaderSize is the number of bytes reserved in the pool immediately
	// before every block's usable bytes. It matches a native header record of
	// a one-byte flag (padded to 8) followed by four 8-byte words.
	//
	// Layout (little-endian):
	//   0x00  free flag (1 byte, 7 bytes padding)
	//   0x08  capacity  (uint64)
	//   0x10  size      (uint64)
	//   0x18  prev      (uint64 header offset, NoLink when none)
	//   0x20  next      (uint64 header offset, NoLink when none)
	HeaderSize = 0x28

	// HeaderFreeOffset is the offset of the free flag within a header.
	HeaderFreeOffset = 0x00

	// HeaderCapacityOffset is the offset of the capacity field within a header.
	HeaderCapacityOffset = 0x08

	// HeaderSizeOffset is the offset of the requested-size field within a header.
	HeaderSizeOffset = 0x10

	// HeaderPrevOffset is the offset of the predecessor link within a header.
	HeaderPrevOffset = 0x18

	// HeaderNextOffset is the offset of the successor link within a header.
	HeaderNextOffset = 0x20

	// NoLink marks an absent prev/next link in an encoded header.
	NoLink = ^uint64(0)

	// FlagFree and FlagInUse are the encoded values of the free flag.
	FlagFree  = 1
	FlagInUse = 0

	// GrowthQuantum is the default unit, in bytes, by which the pool is
	// extended. Every growth request is rounded up to a multiple of it.
	GrowthQuantum = 0x400
)
