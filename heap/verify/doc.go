// Package verify checks the structural invariants of an allocator's block
// directory and of the headers it mirrors into the pool.
//
// # Overview
//
// The allocator keeps its directory as linked records and writes each
// record into the 40 bytes reserved before the block's data. A client that
// writes past the end of its region overwrites the next block's header;
// Headers detects that by decoding every header and comparing it with the
// directory. Directory checks the directory itself.
//
// Validation categories:
//   - Directory: ascending order, contiguity, links, size rules,
//     no two adjacent free blocks, capacity conservation
//   - Headers: encoded headers agree with the directory
//
// # Quick Start
//
//	if err := verify.AllInvariants(a); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return *ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string         // Error category ("Directory", "Headers")
//	    Message string         // Human-readable description
//	    Offset  int            // Pool offset where the error occurred (-1 if N/A)
//	    Details map[string]any // Additional context
//	}
//
// # Usage in Tests
//
//	func TestSomething(t *testing.T) {
//	    a := alloc.New(h, nil)
//	    // ... allocate, free, resize ...
//	    require.NoError(t, verify.AllInvariants(a))
//	}
//
// # Limitations
//
// verify does NOT check occupant data, and it cannot tell a corrupted
// header from one that happens to decode to the same values.
package verify
