// Package trace parses and replays allocation scripts.
//
// A trace is line oriented. Blank lines and lines starting with # are
// ignored, and a # after the operands starts a trailing comment.
//
//	a = alloc 100
//	b = calloc 10 8
//	s = strdup "hello, world"
//	a = realloc a 300
//	write a 0xAB
//	poke a 100 0xFF
//	free b
//	check
//	dump
//	reset
//
// Names bind pointers returned by alloc, calloc, strdup and realloc; free
// unbinds its operand. poke writes one byte at an offset from a pointer
// without bounds checks against the block, simulating a client overrun.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("trace: syntax error")

// Op is one parsed trace line.
type Op struct {
	Line  int    // 1-based source line
	Kind  Kind
	Dest  string // Name bound to the result (assigning kinds only)
	Src   string // Operand name (realloc, free, write)
	Size  int    // alloc/realloc size, calloc count
	Elem  int    // calloc element size
	Value byte   // write fill byte, poke byte
	Off   int    // poke offset from Src
	Text  string // strdup payload
}

// ParseOptions controls decoding of trace input.
type ParseOptions struct {
	// Latin1 decodes the input as Windows-1252 instead of UTF-8, for traces
	// captured from tools that write strdup payloads in the local code page.
	Latin1 bool
}

// Parse reads a UTF-8 trace.
func Parse(r io.Reader) ([]Op, error) {
	return ParseWithOptions(r, ParseOptions{})
}

// ParseWithOptions reads a trace with explicit decoding options.
func ParseWithOptions(r io.Reader, opts ParseOptions) ([]Op, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, ScannerInitialBufferSize)
	scanner.Buffer(buf, ScannerMaxLineSize)

	var ops []Op
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		op, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, lineNo, err)
		}
		op.Line = lineNo
		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning trace: %w", err)
	}
	return ops, nil
}

// parseLine parses a single non-empty, non-comment line.
func parseLine(line string) (Op, error) {
	var op Op

	// Optional "name =" prefix.
	if lhs, rhs, ok := strings.Cut(line, Assignment); ok && !strings.ContainsAny(lhs, Quote+CommentPrefix) {
		op.Dest = strings.TrimSpace(lhs)
		if !validName(op.Dest) {
			return op, fmt.Errorf("invalid name %q", op.Dest)
		}
		line = strings.TrimSpace(rhs)
	}

	verb, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		verb, rest = line[:i], strings.TrimSpace(line[i:])
	}
	op.Kind = Kind(verb)

	if op.Kind == KindStrdup {
		text, err := parseText(rest)
		if err != nil {
			return op, err
		}
		op.Text = text
		return op, requireDest(op)
	}

	args := strings.Fields(stripComment(rest))

	switch op.Kind {
	case KindAlloc:
		if err := wantArgs(op.Kind, args, 1); err != nil {
			return op, err
		}
		n, err := parseSize(args[0])
		if err != nil {
			return op, err
		}
		op.Size = n

	case KindCalloc:
		if err := wantArgs(op.Kind, args, 2); err != nil {
			return op, err
		}
		n, err := parseSize(args[0])
		if err != nil {
			return op, err
		}
		elem, err := parseSize(args[1])
		if err != nil {
			return op, err
		}
		op.Size, op.Elem = n, elem

	case KindRealloc:
		if err := wantArgs(op.Kind, args, 2); err != nil {
			return op, err
		}
		n, err := parseSize(args[1])
		if err != nil {
			return op, err
		}
		op.Src, op.Size = args[0], n

	case KindFree:
		if err := wantArgs(op.Kind, args, 1); err != nil {
			return op, err
		}
		op.Src = args[0]

	case KindWrite:
		if err := wantArgs(op.Kind, args, 2); err != nil {
			return op, err
		}
		v, err := strconv.ParseUint(args[1], 0, 8)
		if err != nil {
			return op, fmt.Errorf("write value %q: %w", args[1], err)
		}
		op.Src, op.Value = args[0], byte(v)

	case KindPoke:
		if err := wantArgs(op.Kind, args, 3); err != nil {
			return op, err
		}
		off, err := parseSize(args[1])
		if err != nil {
			return op, err
		}
		v, err := strconv.ParseUint(args[2], 0, 8)
		if err != nil {
			return op, fmt.Errorf("poke value %q: %w", args[2], err)
		}
		op.Src, op.Off, op.Value = args[0], off, byte(v)

	case KindReset, KindDump, KindCheck:
		if err := wantArgs(op.Kind, args, 0); err != nil {
			return op, err
		}

	default:
		return op, fmt.Errorf("unknown operation %q", verb)
	}

	if op.Src != "" && !validName(op.Src) {
		return op, fmt.Errorf("invalid name %q", op.Src)
	}
	return op, requireDest(op)
}

// requireDest checks the assignment matches the operation kind.
func requireDest(op Op) error {
	if op.Kind.assigning() && op.Dest == "" {
		return fmt.Errorf("%s result must be assigned to a name", op.Kind)
	}
	if !op.Kind.assigning() && op.Dest != "" {
		return fmt.Errorf("%s does not produce a value", op.Kind)
	}
	return nil
}

// parseText reads a strdup payload: either a Go-quoted string or the rest
// of the line up to a comment.
func parseText(s string) (string, error) {
	if !strings.HasPrefix(s, Quote) {
		return strings.TrimSpace(stripComment(s)), nil
	}
	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", fmt.Errorf("strdup string: %w", err)
	}
	if tail := strings.TrimSpace(s[len(quoted):]); tail != "" && !strings.HasPrefix(tail, CommentPrefix) {
		return "", fmt.Errorf("unexpected %q after strdup string", tail)
	}
	return strconv.Unquote(quoted)
}

func stripComment(s string) string {
	if i := strings.Index(s, CommentPrefix); i >= 0 {
		return s[:i]
	}
	return s
}

func wantArgs(k Kind, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s takes %d operand(s), got %d", k, n, len(args))
	}
	return nil
}

// parseSize accepts decimal or 0x-prefixed non-negative sizes.
func parseSize(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("size %q is negative", s)
	}
	return int(v), nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
