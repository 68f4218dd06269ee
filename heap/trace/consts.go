package trace

// Trace syntax.
const (
	CommentPrefix = "#"
	Assignment    = "="
	Quote         = `"`
)

// Scanner buffer sizes. strdup lines can carry long strings.
const (
	ScannerInitialBufferSize = 64 * 1024
	ScannerMaxLineSize       = 1024 * 1024
)

// Kind names a trace operation.
type Kind string

const (
	KindAlloc   Kind = "alloc"
	KindCalloc  Kind = "calloc"
	KindStrdup  Kind = "strdup"
	KindRealloc Kind = "realloc"
	KindFree    Kind = "free"
	KindWrite   Kind = "write"
	KindPoke    Kind = "poke"
	KindReset   Kind = "reset"
	KindDump    Kind = "dump"
	KindCheck   Kind = "check"
)

// assigning reports whether k produces a pointer that must be bound to a name.
func (k Kind) assigning() bool {
	switch k {
	case KindAlloc, KindCalloc, KindStrdup, KindRealloc:
		return true
	}
	return false
}
