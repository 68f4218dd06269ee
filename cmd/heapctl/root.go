package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	quantum  int
	limit    int64
	inMemory bool
	latin1   bool
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Replay and inspect allocation traces",
	Long: `heapctl replays allocation traces against the heapkit first-fit
allocator and reports the resulting heap map, counters and invariant checks.

A trace is a text file with one operation per line:
  a = alloc 100
  b = calloc 10 8
  s = strdup "hello"
  a = realloc a 300
  write a 0xAB
  free b
  dump
  check
  reset

Use "-" as the trace path to read from stdin.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every allocator operation to stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().IntVar(&quantum, "quantum", alloc.DefaultQuantum, "Heap growth quantum in bytes")
	rootCmd.PersistentFlags().Int64Var(&limit, "limit", heap.DefaultLimit, "Maximum heap size in bytes")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "in-memory", false, "Use a byte-slice heap instead of an mmap reservation")
	rootCmd.PersistentFlags().BoolVar(&latin1, "latin1", false, "Decode trace files as Windows-1252")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message to stderr if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// stdout returns os.Stdout, or io.Discard in quiet mode.
func stdout() io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stdout
}

// session is an allocator over a fresh heap, built from the global flags.
type session struct {
	heap  *heap.Heap
	alloc *alloc.Allocator
	ops   int // operations replayed
}

func newSession() (*session, error) {
	h, err := heap.New(heap.Options{Limit: limit, InMemory: inMemory})
	if err != nil {
		return nil, fmt.Errorf("failed to create heap: %w", err)
	}
	a := alloc.New(h, &alloc.Config{
		Quantum:   quantum,
		Verbose:   verbose && !quiet,
		LogOutput: os.Stderr,
	})
	printVerbose("Heap: limit %d bytes, mapped=%v, quantum %d\n", h.Limit(), h.Mapped(), a.Quantum())
	return &session{heap: h, alloc: a}, nil
}

func (s *session) Close() error { return s.heap.Close() }

// loadTrace parses the trace at path ("-" for stdin).
func loadTrace(path string) ([]trace.Op, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace: %w", err)
		}
		defer f.Close()
		r = f
	}

	ops, err := trace.ParseWithOptions(r, trace.ParseOptions{Latin1: latin1})
	if err != nil {
		return nil, fmt.Errorf("failed to parse trace %s: %w", path, err)
	}
	printVerbose("Parsed %d operations from %s\n", len(ops), path)
	return ops, nil
}

// replay parses path and runs it in a new session. The caller closes the
// returned session.
func replay(path string, opts trace.RunOptions) (*session, error) {
	ops, err := loadTrace(path)
	if err != nil {
		return nil, err
	}
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logger.New(logger.Options{Enabled: verbose && !quiet, Output: os.Stderr, JSON: jsonOut})
	}
	if err := trace.NewRunner(s.alloc, opts).Run(ops); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.ops = len(ops)
	return s, nil
}
