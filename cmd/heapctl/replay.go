package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/trace"
)

var (
	replayCheck bool
	replayGroup bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().BoolVar(&replayCheck, "check", false, "Verify heap invariants after every operation")
	cmd.Flags().BoolVar(&replayGroup, "group-digits", false, "Group digits in heap map totals")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Run an allocation trace",
		Long: `The replay command runs every operation in a trace. Heap maps requested
by "dump" lines are written to stdout.

Example:
  heapctl replay workload.trace
  heapctl replay workload.trace --check
  heapctl replay - --json < workload.trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

func runReplay(args []string) error {
	popts := printOptions(replayGroup)
	s, err := replay(args[0], trace.RunOptions{
		Output:    stdout(),
		Print:     &popts,
		CheckEach: replayCheck,
	})
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	defer s.Close()

	if jsonOut {
		return nil
	}
	low, high := s.alloc.Watermarks()
	printInfo("Replayed %d operations: %d blocks, heap 0x%X-0x%X\n", s.ops, s.alloc.Len(), low, high)
	return nil
}

// printOptions builds heap map options from the global flags.
func printOptions(group bool) printer.Options {
	opts := printer.DefaultOptions()
	opts.GroupDigits = group
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return opts
}
