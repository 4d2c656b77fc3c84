package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/layout"
	"github.com/joshuapare/memkit/mem/rawheap"
)

// Default static bucket sizes with an 8-bank registry.
var defaultBucketSizes = []uint32{16, 32, 64, 128, 256, 300, 400, 500}

// newRouter builds a router and ties its teardown to the test.
func newRouter(t testing.TB, cfg Config) *Router {
	t.Helper()
	rt, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

// newSmallStatic builds the canonical test pool: a static pool with the
// default 8 buckets and 4 blocks per bank.
func newSmallStatic(t testing.TB) *Router {
	t.Helper()
	return newRouter(t, Config{Mode: StaticPool, MaxBanks: 8, BlocksPerBank: 4})
}

// fillPool allocates every block of every bank with exact-fit requests and
// returns the regions grouped by block size.
func fillPool(t testing.TB, rt *Router) map[uint32][][]byte {
	t.Helper()
	out := make(map[uint32][][]byte)
	for _, size := range defaultBucketSizes {
		for rt.HasFreeBlock(size) {
			p, err := rt.Alloc(size - layout.WordSize)
			require.NoError(t, err)
			out[size] = append(out[size], p)
		}
	}
	require.Equal(t, rt.TotalAvailable(), rt.TotalUsed())
	return out
}

// bucketOf recovers the block size a region came from.
func bucketOf(p []byte) uint32 {
	return uint32(cap(p)) + layout.WordSize
}

// onDemandConfig returns an on-demand config over a fresh accounting heap.
func onDemandConfig(maxBanks, blocksPerBank uint16) (Config, *rawheap.SliceHeap) {
	heap := rawheap.NewSlice()
	return Config{
		Mode:          OnDemand,
		MaxBanks:      maxBanks,
		BlocksPerBank: blocksPerBank,
		Heap:          heap,
	}, heap
}
