package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/trace"
)

var (
	dumpGroup    bool
	dumpNoTotals bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpGroup, "group-digits", false, "Group digits in totals")
	cmd.Flags().BoolVar(&dumpNoTotals, "no-totals", false, "Omit the totals row and summary line")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Print the heap map after a trace",
		Long: `The dump command replays a trace silently and prints the final heap map:
one row per block with its offsets, sizes and status, followed by totals.

Example:
  heapctl dump workload.trace
  heapctl dump workload.trace --group-digits
  heapctl dump workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	s, err := replay(args[0], trace.RunOptions{})
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	defer s.Close()

	opts := printOptions(dumpGroup)
	opts.ShowTotals = !dumpNoTotals
	return printer.New(s.alloc, stdout(), opts).Print()
}
