package pool

// Read-only introspection over the registry. All byte totals are computed
// from block sizes, so they report bucket-rounded usage, not client
// request sizes.

// BankStats is a point-in-time view of one bank.
type BankStats struct {
	BlockSize  uint32 // Bytes per block, provenance word included
	Capacity   uint16 // Total blocks the bank may hand out
	InUse      uint16 // Blocks currently handed out
	FreeBlocks uint16 // Blocks still available (capacity - in use)
}

// StatsSnapshot aggregates the router's operation counters and the state
// of every bank, in ascending block-size order.
type StatsSnapshot struct {
	AllocCalls   uint64
	FreeCalls    uint64
	ReallocCalls uint64
	SpillCount   uint64
	FailedAllocs uint64

	TotalUsed      uint32
	TotalAvailable uint32
	Banks          []BankStats
}

// TotalUsed returns the bytes currently handed out, rounded to bucket
// sizes: the sum over banks of in-use blocks times block size.
func (rt *Router) TotalUsed() uint32 {
	var total uint32
	for pos := 0; pos < rt.reg.Len(); pos++ {
		_, bk := rt.reg.At(pos)
		total += uint32(bk.InUse()) * bk.BlockSize()
	}
	return total
}

// TotalAvailable returns the pool's total byte capacity: the sum over
// banks of capacity times block size.
func (rt *Router) TotalAvailable() uint32 {
	var total uint32
	for pos := 0; pos < rt.reg.Len(); pos++ {
		_, bk := rt.reg.At(pos)
		total += uint32(bk.Capacity()) * bk.BlockSize()
	}
	return total
}

// IsSizeAvailable reports whether a bank with exactly this block size
// exists.
func (rt *Router) IsSizeAvailable(s uint32) bool {
	_, _, ok := rt.reg.FindExact(s)
	return ok
}

// HasFreeBlock reports whether a bank with exactly this block size exists
// and can still hand out a block.
func (rt *Router) HasFreeBlock(s uint32) bool {
	_, bk, ok := rt.reg.FindExact(s)
	return ok && bk.InUse() < bk.Capacity()
}

// FreeBlocksOf returns how many blocks of exactly this block size are
// still available.
func (rt *Router) FreeBlocksOf(s uint32) uint16 {
	_, bk, ok := rt.reg.FindExact(s)
	if !ok {
		return 0
	}
	return bk.Capacity() - bk.InUse()
}

// NumBlocksPerBank returns the configured per-bank capacity.
func (rt *Router) NumBlocksPerBank() uint16 {
	return rt.cfg.BlocksPerBank
}

// MaxBanks returns the registry's capacity.
func (rt *Router) MaxBanks() uint16 {
	return rt.cfg.MaxBanks
}

// SmallestBlockSize returns the block size of the smallest bank, or the
// smallest bucket any mode can create while the registry is still empty.
func (rt *Router) SmallestBlockSize() uint16 {
	if bk := rt.reg.Smallest(); bk != nil {
		return uint16(bk.BlockSize())
	}
	return MinBlockSize
}

// Stats returns a snapshot of the operation counters and every bank.
func (rt *Router) Stats() StatsSnapshot {
	snap := StatsSnapshot{
		AllocCalls:     rt.stats.AllocCalls,
		FreeCalls:      rt.stats.FreeCalls,
		ReallocCalls:   rt.stats.ReallocCalls,
		SpillCount:     rt.stats.SpillCount,
		FailedAllocs:   rt.stats.FailedAllocs,
		TotalUsed:      rt.TotalUsed(),
		TotalAvailable: rt.TotalAvailable(),
		Banks:          make([]BankStats, 0, rt.reg.Len()),
	}
	for pos := 0; pos < rt.reg.Len(); pos++ {
		_, bk := rt.reg.At(pos)
		snap.Banks = append(snap.Banks, BankStats{
			BlockSize:  bk.BlockSize(),
			Capacity:   bk.Capacity(),
			InUse:      bk.InUse(),
			FreeBlocks: bk.Capacity() - bk.InUse(),
		})
	}
	return snap
}
