// Package pool provides the public allocation surface of memkit: a
// fixed-block memory pool that carves raw memory into banks of equal-sized
// blocks and routes each request to the smallest bank whose block size fits.
//
// # Overview
//
// A Router owns a registry of banks sorted by ascending block size. Every
// block starts with a one-word provenance tag naming its bank, so Free is
// O(1) without a size argument: the router steps back from the client
// region to the tag, recovers the bank, and pushes the block onto that
// bank's free-list.
//
// # Router Interface
//
// The core operations:
//
//   - Alloc(n): allocate at least n client bytes
//   - Free(p): return a client region to its owning bank
//   - Realloc(p, n): resize, preserving min(old, n) bytes
//
// # Configurations
//
// Bootstrap picks one of three bank layouts:
//
//   - StaticPool: MaxBanks static banks, storage reserved up front
//   - DynamicPool: same bucket layout, blocks acquired from a raw heap lazily
//   - OnDemand: empty registry; banks constructed on first demand per bucket
//
// Pool-mode bucket sizes are powers of two starting at 2^4 = 16, with the
// 512/1024/2048 buckets clamped to 300/400/500 to bound waste on larger
// blocks. On-demand mode rounds requests to the next power of two with two
// override buckets, (256,396] -> 396 and (512,768] -> 768.
//
// # Usage Example
//
//	rt, err := pool.New(pool.ConfigStaticPool)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	p, err := rt.Alloc(24)
//	if err != nil {
//	    return err
//	}
//	copy(p, payload)
//	err = rt.Free(p)
//
// A process-wide router with reference-counted Init/Destroy is also
// provided for subsystems that share one pool.
//
// # Exhaustion and Spill-Up
//
// When the chosen bank has no free blocks the router spills up: it retries
// with the next larger bank in registry order (in on-demand mode, the next
// bucket size, constructing its bank if needed). Only when the largest
// bank is exhausted does Alloc fail. Failed operations leave the pool
// unchanged.
//
// # Thread Safety
//
// Routers are not thread-safe. Callers must serialize all calls, stats
// queries included. The expected failure mode of unserialized use is
// free-list corruption.
package pool
