package bank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem/rawheap"
)

func Test_Dynamic_LazyAcquisition(t *testing.T) {
	heap := rawheap.NewSlice()
	b, err := NewDynamic(64, 4, heap)
	require.NoError(t, err)

	// Nothing is acquired until the first allocation.
	require.Equal(t, 0, heap.Outstanding())
	require.Equal(t, uint16(0), b.FreeCount())

	idx, blk, err := b.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint32(0), idx)
	require.Len(t, blk, 64)
	require.Equal(t, 1, heap.Outstanding())
	require.Equal(t, 1, b.Acquired())
}

func Test_Dynamic_FreeListReuseBeforeAcquire(t *testing.T) {
	heap := rawheap.NewSlice()
	b, err := NewDynamic(64, 4, heap)
	require.NoError(t, err)

	idx, _, err := b.Allocate()
	require.NoError(t, err)
	require.NoError(t, b.Deallocate(idx))

	// The freed block is reused; the heap sees no second acquire.
	got, _, err := b.Allocate()
	require.NoError(t, err)
	require.Equal(t, idx, got)
	require.Equal(t, 1, heap.Outstanding())
}

func Test_Dynamic_CapacityLimit(t *testing.T) {
	heap := rawheap.NewSlice()
	b, err := NewDynamic(64, 2, heap)
	require.NoError(t, err)

	_, _, err = b.Allocate()
	require.NoError(t, err)
	_, _, err = b.Allocate()
	require.NoError(t, err)

	_, _, err = b.Allocate()
	require.ErrorIs(t, err, ErrBankFull)
	require.Equal(t, 2, heap.Outstanding())
}

func Test_Dynamic_HeapExhaustion(t *testing.T) {
	heap := &rawheap.SliceHeap{Limit: 100}
	b, err := NewDynamic(64, 4, heap)
	require.NoError(t, err)

	_, _, err = b.Allocate()
	require.NoError(t, err)

	// The second block would exceed the heap cap; the bank reports itself
	// full and its accounting is untouched.
	_, _, err = b.Allocate()
	require.ErrorIs(t, err, ErrBankFull)
	require.Equal(t, uint16(1), b.InUse())
	require.Equal(t, uint16(0), b.FreeCount())
}

func Test_Dynamic_CountInvariant(t *testing.T) {
	heap := rawheap.NewSlice()
	b, err := NewDynamic(32, 8, heap)
	require.NoError(t, err)

	var live []uint32
	for i := 0; i < 8; i++ {
		idx, _, allocErr := b.Allocate()
		require.NoError(t, allocErr)
		live = append(live, idx)
	}
	for _, idx := range live[:4] {
		require.NoError(t, b.Deallocate(idx))
	}

	// in_use + free <= capacity; the free-list holds only returned blocks.
	require.Equal(t, uint16(4), b.InUse())
	require.Equal(t, uint16(4), b.FreeCount())
	require.Equal(t, 8, b.Acquired())
}

func Test_Dynamic_DoubleFree(t *testing.T) {
	heap := rawheap.NewSlice()
	b, err := NewDynamic(32, 4, heap)
	require.NoError(t, err)

	idx, _, err := b.Allocate()
	require.NoError(t, err)
	require.NoError(t, b.Deallocate(idx))
	require.ErrorIs(t, b.Deallocate(idx), ErrBlockFree)
	require.ErrorIs(t, b.Deallocate(99), ErrBadBlock)
}

func Test_Dynamic_DestroyReleasesEverything(t *testing.T) {
	heap := rawheap.NewSlice()
	b, err := NewDynamic(64, 4, heap)
	require.NoError(t, err)

	// Two live, one freed: Destroy must hand all three regions back.
	_, _, err = b.Allocate()
	require.NoError(t, err)
	_, _, err = b.Allocate()
	require.NoError(t, err)
	idx, _, err := b.Allocate()
	require.NoError(t, err)
	require.NoError(t, b.Deallocate(idx))

	require.Equal(t, 3, heap.Outstanding())
	require.NoError(t, b.Destroy())
	require.Equal(t, 0, heap.Outstanding())

	_, _, err = b.Allocate()
	require.ErrorIs(t, err, ErrDestroyed)
}

func Test_Dynamic_ConfigErrors(t *testing.T) {
	heap := rawheap.NewSlice()

	_, err := NewDynamic(8, 4, heap)
	require.ErrorIs(t, err, ErrConfig)
	_, err = NewDynamic(64, 0, heap)
	require.ErrorIs(t, err, ErrConfig)
	_, err = NewDynamic(64, 4, nil)
	require.ErrorIs(t, err, ErrConfig)
}
