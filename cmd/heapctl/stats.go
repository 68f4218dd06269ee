package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/trace"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Show allocator counters after a trace",
		Long: `The stats command replays a trace and reports how allocations were
served (reuse, split, growth), how much memory was obtained from the heap,
how often blocks coalesced, and the final block totals.

Example:
  heapctl stats workload.trace
  heapctl stats workload.trace --quantum 4096
  heapctl stats workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

// HeapStats is the stats command's report.
type HeapStats struct {
	Operations int            `json:"operations"`
	Quantum    int            `json:"quantum"`
	MinHeap    int64          `json:"min_heap"`
	MaxHeap    int64          `json:"max_heap"`
	Committed  int64          `json:"committed"`
	Counters   alloc.Stats    `json:"counters"`
	Totals     printer.Totals `json:"totals"`
}

func runStats(args []string) error {
	s, err := replay(args[0], trace.RunOptions{})
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	defer s.Close()

	low, high := s.alloc.Watermarks()
	stats := HeapStats{
		Operations: s.ops,
		Quantum:    s.alloc.Quantum(),
		MinHeap:    low,
		MaxHeap:    high,
		Committed:  s.heap.Committed(),
		Counters:   s.alloc.Stats(),
		Totals:     printer.Summarize(s.alloc.Blocks()),
	}

	if jsonOut {
		return printJSON(stats)
	}

	c, t := stats.Counters, stats.Totals
	printInfo("Trace: %s (%s operations)\n\n", args[0], humanize.Comma(int64(stats.Operations)))

	printInfo("Heap\n")
	printInfo("  Span:        %s (0x%X-0x%X)\n", ibytes(high-low), low, high)
	printInfo("  Committed:   %s\n", ibytes(stats.Committed))
	printInfo("  Quantum:     %s\n", ibytes(int64(stats.Quantum)))
	printInfo("  Growths:     %d (%s)\n\n", c.GrowCalls, ibytes(c.GrowBytes))

	printInfo("Allocations\n")
	printInfo("  Calls:       %s\n", humanize.Comma(int64(c.AllocCalls)))
	printInfo("  Reused:      %s\n", humanize.Comma(int64(c.AllocReuse)))
	printInfo("  Split:       %s\n", humanize.Comma(int64(c.AllocSplit)))
	printInfo("  Grew:        %s\n", humanize.Comma(int64(c.AllocGrow)))
	printInfo("  Requested:   %s\n", ibytes(c.BytesRequested))
	printInfo("  Frees:       %s\n", humanize.Comma(int64(c.FreeCalls)))
	printInfo("  Reallocs:    %s (%d in place, %d moved)\n", humanize.Comma(int64(c.ReallocCalls)), c.ReallocInPlace, c.ReallocMoved)
	printInfo("  Coalesced:   %d forward, %d backward\n", c.CoalesceForward, c.CoalesceBackward)
	printInfo("  Resets:      %d\n\n", c.Resets)

	printInfo("Blocks\n")
	printInfo("  Used:        %d (%s in use)\n", t.UsedBlocks, ibytes(int64(t.UserBytes)))
	printInfo("  Free:        %d\n", t.FreeBlocks)
	printInfo("  Capacity:    %s\n", ibytes(int64(t.CapacityBytes)))
	printInfo("  Excess:      %s\n", ibytes(int64(t.ExcessBytes)))
	return nil
}

// ibytes formats a byte count with binary units.
func ibytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
