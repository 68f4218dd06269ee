package alloc

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
)

func Test_VerboseLogging(t *testing.T) {
	a, _ := newTestAllocator(t)
	var out bytes.Buffer

	a.SetLogOutput(&out)
	require.Same(t, &out, a.LogOutput())
	require.False(t, a.Verbose())

	p, err := a.Alloc(10)
	require.NoError(t, err)
	require.Empty(t, out.String(), "quiet allocator must not log")

	a.SetVerbose(true)
	require.True(t, a.Verbose())
	require.Contains(t, out.String(), "verbose enabled")

	q, err := a.Alloc(20)
	require.NoError(t, err)
	require.NoError(t, a.Free(q))
	require.NoError(t, a.Free(p))

	logged := out.String()
	require.Contains(t, logged, "msg=alloc")
	require.Contains(t, logged, "path=split")
	require.Contains(t, logged, "msg=free")

	out.Reset()
	a.SetVerbose(false)
	_, err = a.Alloc(5000)
	require.NoError(t, err)
	require.Empty(t, out.String())
}

func Test_VerboseGrowthAndReset(t *testing.T) {
	var out bytes.Buffer
	a, _ := newTestAllocatorWith(t, heap.Options{Limit: 4 << 20}, &Config{
		Verbose:   true,
		LogOutput: &out,
	})
	require.Equal(t, DefaultQuantum, a.Quantum())

	_, err := a.Alloc(100)
	require.NoError(t, err)
	require.NoError(t, a.Reset())

	logged := out.String()
	require.Contains(t, logged, "msg=grow")
	require.Contains(t, logged, "bytes=1024")
	require.Contains(t, logged, "path=grow")
	require.Contains(t, logged, "msg=reset")
	require.NotContains(t, logged, "time=", "timestamps are stripped")
}

func Test_LogOutputNilRestoresStderr(t *testing.T) {
	a, _ := newTestAllocator(t)
	var out bytes.Buffer
	a.SetLogOutput(&out)
	a.SetLogOutput(nil)
	require.Equal(t, os.Stderr, a.LogOutput())
}

func Test_EnvEnablesVerbose(t *testing.T) {
	h, err := heap.New(heap.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	t.Setenv("HEAP_LOG_ALLOC", "1")
	var out bytes.Buffer
	a := New(h, &Config{LogOutput: &out})
	require.True(t, a.Verbose())

	_, err = a.Alloc(8)
	require.NoError(t, err)
	require.Contains(t, out.String(), "msg=alloc")
}

func Test_RejectedFreeIsLogged(t *testing.T) {
	var out bytes.Buffer
	a, _ := newTestAllocatorWith(t, heap.Options{Limit: 4 << 20}, &Config{Verbose: true, LogOutput: &out})

	require.ErrorIs(t, a.Free(Ptr(12345)), ErrBadPtr)
	require.Contains(t, out.String(), "free rejected")
}
