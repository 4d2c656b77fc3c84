package pool

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/memkit/internal/layout"
	"github.com/joshuapare/memkit/mem/bank"
	"github.com/joshuapare/memkit/mem/rawheap"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime flag for allocation tracing - controlled by MEMKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// maxRequest is the largest client size any mode will consider; it keeps
// total-size arithmetic clear of uint32 overflow.
const maxRequest = MaxBlockSize - layout.WordSize

// Router is the public allocation surface. It computes the bucket for each
// request, hands the block's provenance word its bank id, spills to larger
// buckets on exhaustion, and on free reads the word back to return the
// block to its origin bank.
type Router struct {
	cfg  Config
	reg  *Registry
	heap rawheap.Heap

	stats opStats

	closed bool
}

// opStats counts router operations for introspection and tests.
type opStats struct {
	AllocCalls   uint64 // Total Alloc() calls
	FreeCalls    uint64 // Total Free() calls
	ReallocCalls uint64 // Total Realloc() calls
	SpillCount   uint64 // Allocations served by a larger bucket than computed
	FailedAllocs uint64 // Alloc() calls that returned an error
}

// New builds a router per the configuration: all banks for the pool modes,
// an empty registry for on-demand mode.
func New(cfg Config) (*Router, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	rt := &Router{
		cfg:  cfg,
		reg:  NewRegistry(int(cfg.MaxBanks)),
		heap: cfg.Heap,
	}
	if cfg.Mode == OnDemand {
		return rt, nil
	}
	for i := 0; i < int(cfg.MaxBanks); i++ {
		size := poolBlockSize(i)
		var b bank.Bank
		switch cfg.Mode {
		case StaticPool:
			b, err = bank.NewStatic(size, cfg.BlocksPerBank)
		case DynamicPool:
			b, err = bank.NewDynamic(size, cfg.BlocksPerBank, rt.heap)
		}
		if err == nil {
			_, err = rt.reg.Insert(b)
		}
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("pool: bootstrap bucket %d: %w", size, err)
		}
	}
	return rt, nil
}

// Alloc allocates at least n client bytes and returns the client region.
// The returned slice spans the block's full usable area, so its length may
// exceed n. Zero-size requests return a live block from the smallest
// bucket so the caller may still Free it.
func (rt *Router) Alloc(n uint32) ([]byte, error) {
	rt.stats.AllocCalls++
	p, err := rt.alloc(n)
	if err != nil {
		rt.stats.FailedAllocs++
		if debugAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] Alloc(%d) failed: %v\n", n, err)
		}
	}
	return p, err
}

func (rt *Router) alloc(n uint32) ([]byte, error) {
	if rt.closed {
		return nil, ErrClosed
	}
	if n > maxRequest {
		return nil, ErrTooLarge
	}
	total := n + layout.WordSize

	if rt.cfg.Mode == OnDemand {
		return rt.allocOnDemand(total)
	}

	pos := rt.reg.FindPos(total)
	if pos < 0 {
		return nil, ErrTooLarge
	}
	// Walk the sorted view upward: the first position is the computed
	// bucket, every further one is a spill.
	for ; pos < rt.reg.Len(); pos++ {
		id, bk := rt.reg.At(pos)
		idx, raw, err := bk.Allocate()
		if err == nil {
			if bk.BlockSize() > bucketForPos(rt.reg, total) {
				rt.stats.SpillCount++
			}
			return stamp(id, idx, raw), nil
		}
		if !errors.Is(err, bank.ErrBankFull) {
			return nil, err
		}
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] bucket %d exhausted, spilling up (total=%d)\n",
				bk.BlockSize(), total)
		}
	}
	return nil, ErrExhausted
}

// bucketForPos returns the block size of the smallest fitting bank, for
// spill accounting.
func bucketForPos(reg *Registry, total uint32) uint32 {
	_, bk := reg.At(reg.FindPos(total))
	return bk.BlockSize()
}

// allocOnDemand serves one request in on-demand mode: round to a bucket,
// construct the bucket's bank on first use, and advance to the next bucket
// size when a bank is exhausted.
func (rt *Router) allocOnDemand(total uint32) ([]byte, error) {
	first := true
	for size := bucketFor(total); size <= MaxBlockSize; size = nextBucketAfter(size) {
		id, bk, ok := rt.reg.FindExact(size)
		if !ok {
			nb, err := bank.NewDynamic(size, rt.cfg.BlocksPerBank, rt.heap)
			if err != nil {
				return nil, err
			}
			id, err = rt.reg.Insert(nb)
			if err != nil {
				// The transient bank has acquired nothing yet; destroy it
				// rather than leak it.
				_ = nb.Destroy()
				if errors.Is(err, ErrRegistryFull) {
					if logAlloc {
						fmt.Fprintf(os.Stderr,
							"[ALLOC] registry full, cannot create bucket %d\n", size)
					}
					return nil, ErrRegistryFull
				}
				return nil, err
			}
			bk = nb
		}
		idx, raw, err := bk.Allocate()
		if err == nil {
			if !first {
				rt.stats.SpillCount++
			}
			return stamp(id, idx, raw), nil
		}
		if !ok {
			// A bank created by this call that cannot serve a block holds
			// nothing; drop it so the registry is left as it was.
			_ = bk.Destroy()
			rt.reg.banks = rt.reg.banks[:id]
			for pos, oid := range rt.reg.order {
				if oid == id {
					rt.reg.order = append(rt.reg.order[:pos], rt.reg.order[pos+1:]...)
					break
				}
			}
		}
		if !errors.Is(err, bank.ErrBankFull) {
			return nil, err
		}
		first = false
	}
	return nil, ErrExhausted
}

// stamp writes the provenance tag and carves out the client region. The
// client slice is capped at the block end so it can never reach a
// neighboring block.
func stamp(id uint16, idx uint32, raw []byte) []byte {
	layout.PutLiveTag(raw, id, idx)
	return raw[layout.WordSize:len(raw):len(raw)]
}

// Free returns a client region to its owning bank. Freeing nil is a no-op.
// A region whose tag is poisoned or missing is rejected without touching
// any bank.
func (rt *Router) Free(p []byte) error {
	if p == nil {
		return nil
	}
	rt.stats.FreeCalls++
	if rt.closed {
		return ErrClosed
	}
	_, bankID, blockIdx, err := rt.readTag(p)
	if err != nil {
		return err
	}
	switch err := rt.reg.Bank(bankID).Deallocate(blockIdx); {
	case errors.Is(err, bank.ErrBlockFree):
		return ErrDoubleFree
	case errors.Is(err, bank.ErrBadBlock):
		return ErrBadPointer
	default:
		return err
	}
}

// Realloc resizes an allocation, preserving min(old usable, n) bytes.
// Realloc(nil, n) is Alloc(n); Realloc(p, 0) is Free(p) and returns nil.
// On failure the old region is untouched and still owned by the caller.
func (rt *Router) Realloc(p []byte, n uint32) ([]byte, error) {
	rt.stats.ReallocCalls++
	if p == nil {
		return rt.Alloc(n)
	}
	if n == 0 {
		return nil, rt.Free(p)
	}
	if rt.closed {
		return nil, ErrClosed
	}
	_, oldBank, _, err := rt.readTag(p)
	if err != nil {
		return nil, err
	}
	oldUsable := rt.reg.Bank(oldBank).BlockSize() - layout.WordSize

	newP, err := rt.Alloc(n)
	if err != nil {
		return nil, err
	}
	copied := min(oldUsable, n)
	copy(newP, p[:copied])
	if err := rt.Free(p); err != nil {
		return nil, err
	}
	return newP, nil
}

// readTag validates and decodes the provenance word behind a client region.
func (rt *Router) readTag(p []byte) (state layout.TagState, bankID uint16, blockIdx uint32, err error) {
	if len(p) == 0 {
		return layout.TagInvalid, 0, 0, ErrBadPointer
	}
	state, bankID, blockIdx = layout.ReadTag(layout.Prefix(p))
	switch {
	case state == layout.TagFree:
		return state, 0, 0, ErrDoubleFree
	case state != layout.TagLive:
		return state, 0, 0, ErrBadPointer
	case int(bankID) >= rt.reg.Len():
		return state, 0, 0, ErrBadPointer
	}
	return state, bankID, blockIdx, nil
}

// Close destroys every bank. Dynamic banks release all acquired blocks
// back to the raw heap, outstanding allocations included. The first
// destroy error is reported; the remaining banks are still destroyed.
func (rt *Router) Close() error {
	if rt.closed {
		return ErrClosed
	}
	rt.closed = true
	var firstErr error
	for id := 0; id < rt.reg.Len(); id++ {
		if err := rt.reg.Bank(uint16(id)).Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
