package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/heap/verify"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <trace>",
		Short: "Check heap invariants after every trace operation",
		Long: `The verify command replays a trace and checks the block directory and
the encoded block headers after every operation. It stops at the first
violation and reports the offending line.

Example:
  heapctl verify workload.trace
  heapctl verify workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

// verifyResult is the JSON report of the verify command.
type verifyResult struct {
	Trace   string `json:"trace"`
	Valid   bool   `json:"valid"`
	Blocks  int    `json:"blocks,omitempty"`
	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
	Offset  *int   `json:"offset,omitempty"`
	Details any    `json:"details,omitempty"`
}

func runVerify(args []string) error {
	s, err := replay(args[0], trace.RunOptions{CheckEach: true})

	result := verifyResult{Trace: args[0], Valid: err == nil}
	if err != nil {
		result.Error = err.Error()
		var verr *verify.ValidationError
		if errors.As(err, &verr) {
			result.Type = verr.Type
			result.Details = verr.Details
			if verr.Offset >= 0 {
				off := verr.Offset
				result.Offset = &off
			}
		}
	} else {
		defer s.Close()
		result.Blocks = s.alloc.Len()
	}

	if jsonOut {
		if perr := printJSON(result); perr != nil {
			return perr
		}
	} else if result.Valid {
		printInfo("%s: OK (%d blocks)\n", args[0], result.Blocks)
	}

	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	return nil
}
