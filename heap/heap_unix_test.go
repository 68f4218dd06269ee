//go:build unix

package heap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestHeap_MappedCommitsPages(t *testing.T) {
	h := newTestHeap(t, Options{Limit: 1 << 20})
	require.True(t, h.Mapped())
	require.Zero(t, h.Committed())

	require.NoError(t, h.Append(1024))
	require.Equal(t, int64(pageSize()), h.Committed(), "first append commits one page")

	require.NoError(t, h.Append(int64(pageSize())))
	require.Equal(t, int64(2*pageSize()), h.Committed())

	require.NoError(t, h.Truncate(0))
	require.Zero(t, h.Committed(), "truncate to zero returns every page")
}

func TestHeap_MappedAddressStable(t *testing.T) {
	h := newTestHeap(t, Options{Limit: 1 << 20})
	require.NoError(t, h.Append(1024))
	before := unsafe.Pointer(&h.Bytes()[0])

	require.NoError(t, h.Append(64 << 10))
	after := unsafe.Pointer(&h.Bytes()[0])
	require.Equal(t, before, after, "mapped pool must not move on append")
}

func TestHeap_MappedLimitPageAligned(t *testing.T) {
	h := newTestHeap(t, Options{Limit: 5000})
	require.Zero(t, h.Limit()%int64(pageSize()))
	require.GreaterOrEqual(t, h.Limit(), int64(5000))
}
