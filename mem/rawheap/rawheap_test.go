package rawheap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SliceHeap_AcquireRelease(t *testing.T) {
	h := NewSlice()

	a, err := h.Acquire(64)
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := h.Acquire(128)
	require.NoError(t, err)
	require.Len(t, b, 128)

	require.Equal(t, 2, h.Outstanding())
	require.Equal(t, uint64(192), h.BytesOutstanding())

	require.NoError(t, h.Release(a))
	require.NoError(t, h.Release(b))
	require.Equal(t, 0, h.Outstanding())
	require.Equal(t, uint64(0), h.BytesOutstanding())
}

func Test_SliceHeap_ZeroSize(t *testing.T) {
	h := NewSlice()
	_, err := h.Acquire(0)
	require.ErrorIs(t, err, ErrZeroSize)
	require.Equal(t, 0, h.Outstanding())
}

func Test_SliceHeap_Limit(t *testing.T) {
	h := &SliceHeap{Limit: 100}

	a, err := h.Acquire(64)
	require.NoError(t, err)

	// 64 + 64 > 100: over the cap.
	_, err = h.Acquire(64)
	require.ErrorIs(t, err, ErrNoMemory)
	require.Equal(t, 1, h.Outstanding())

	// Releasing makes room again.
	require.NoError(t, h.Release(a))
	b, err := h.Acquire(64)
	require.NoError(t, err)
	require.NoError(t, h.Release(b))
}

func Test_SliceHeap_ReleaseForeign(t *testing.T) {
	h := NewSlice()
	require.ErrorIs(t, h.Release(nil), ErrForeignRegion)

	// Nothing acquired yet: any release is foreign.
	require.ErrorIs(t, h.Release(make([]byte, 8)), ErrForeignRegion)

	// Releasing more bytes than are outstanding is caught.
	a, err := h.Acquire(16)
	require.NoError(t, err)
	require.ErrorIs(t, h.Release(make([]byte, 64)), ErrForeignRegion)
	require.NoError(t, h.Release(a))
}
