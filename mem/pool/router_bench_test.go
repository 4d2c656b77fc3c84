package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Benchmark_AllocFree_Static(b *testing.B) {
	rt, err := New(Config{Mode: StaticPool, MaxBanks: 8, BlocksPerBank: 64})
	require.NoError(b, err)
	defer rt.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, allocErr := rt.Alloc(24)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := rt.Free(p); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

func Benchmark_AllocFree_Dynamic(b *testing.B) {
	rt, err := New(Config{Mode: DynamicPool, MaxBanks: 8, BlocksPerBank: 64})
	require.NoError(b, err)
	defer rt.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, allocErr := rt.Alloc(24)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := rt.Free(p); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

func Benchmark_Realloc_GrowAcrossBuckets(b *testing.B) {
	rt, err := New(Config{Mode: StaticPool, MaxBanks: 8, BlocksPerBank: 64})
	require.NoError(b, err)
	defer rt.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, allocErr := rt.Alloc(10)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		p, allocErr = rt.Realloc(p, 100)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := rt.Free(p); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}
