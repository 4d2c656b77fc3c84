package pool

import (
	"github.com/joshuapare/memkit/internal/layout"
	"github.com/joshuapare/memkit/mem/rawheap"
)

// Mode selects how Bootstrap lays out the banks.
type Mode uint8

const (
	// StaticPool creates MaxBanks static banks up front; every byte is
	// reserved at construction.
	StaticPool Mode = iota

	// DynamicPool creates the same bucket layout, but banks acquire their
	// blocks from the raw heap lazily.
	DynamicPool

	// OnDemand starts with an empty registry; the router constructs a bank
	// the first time a bucket is requested.
	OnDemand
)

// Config carries the construction-time knobs of a pool. The zero value of
// a field means "use the default".
type Config struct {
	// Mode selects the bank layout strategy.
	Mode Mode

	// MaxBanks is the maximum number of banks in the registry. In pool
	// modes it is also the number of banks created at bootstrap.
	MaxBanks uint16

	// BlocksPerBank is the capacity of each bank.
	BlocksPerBank uint16

	// Heap supplies block storage for dynamic and on-demand banks. Nil
	// selects a rawheap.SliceHeap. Static banks never touch it.
	Heap rawheap.Heap
}

// Predefined configurations.
var (
	// ConfigStaticPool reserves everything up front. The right choice when
	// the worst-case working set is known and allocation may never fail
	// for lack of host memory.
	ConfigStaticPool = Config{
		Mode:          StaticPool,
		MaxBanks:      8,
		BlocksPerBank: 16,
	}

	// ConfigDynamicPool keeps the static bucket layout but defers storage
	// to the raw heap, paying for blocks only when they are first used.
	ConfigDynamicPool = Config{
		Mode:          DynamicPool,
		MaxBanks:      8,
		BlocksPerBank: 16,
	}

	// ConfigOnDemand builds no banks at bootstrap; bucket sizes follow the
	// requests actually made, with override buckets to reduce waste.
	ConfigOnDemand = Config{
		Mode:          OnDemand,
		MaxBanks:      8,
		BlocksPerBank: 16,
	}

	// DefaultConfig (used if none specified).
	DefaultConfig = ConfigStaticPool
)

const (
	// smallestExponent is the power of two of the smallest bucket:
	// the first exponent whose block leaves at least one client byte past
	// the provenance word.
	smallestExponent = 4 // ceil(log2(WordSize)) + 1 for an 8-byte word

	// MinBlockSize is the block size of the smallest possible bucket.
	MinBlockSize = 1 << smallestExponent

	// maxExponent bounds bucket growth; a block never exceeds 2^28 bytes.
	maxExponent = 28

	// MaxBlockSize is the largest bucket any mode will ever create.
	MaxBlockSize = 1 << maxExponent

	// clampBase is the first power-of-two exponent whose bucket is clamped
	// in pool modes.
	clampBase = 9
)

// clampSizes replaces the 2^9, 2^10 and 2^11 buckets in pool modes to
// bound worst-case waste on larger blocks.
var clampSizes = [3]uint32{300, 400, 500}

// poolBlockSize returns the block size of bucket i in pool modes.
func poolBlockSize(i int) uint32 {
	k := smallestExponent + i
	if off := k - clampBase; off >= 0 && off < len(clampSizes) {
		return clampSizes[off]
	}
	return uint32(1) << k
}

// bucketFor rounds a total size (client bytes plus provenance word) to the
// on-demand bucket that holds it: the next power of two, with two override
// buckets to reduce waste on common mid-range requests.
func bucketFor(total uint32) uint32 {
	switch {
	case total <= MinBlockSize:
		return MinBlockSize
	case total > 256 && total <= 396:
		return 396
	case total > 512 && total <= 768:
		return 768
	default:
		return layout.NextPow2(total)
	}
}

// nextBucketAfter returns the first bucket strictly larger than size.
func nextBucketAfter(size uint32) uint32 {
	return bucketFor(size + 1)
}

// withDefaults fills zero fields from DefaultConfig and validates ranges.
func (c Config) withDefaults() (Config, error) {
	if c.MaxBanks == 0 {
		c.MaxBanks = DefaultConfig.MaxBanks
	}
	if c.BlocksPerBank == 0 {
		c.BlocksPerBank = DefaultConfig.BlocksPerBank
	}
	if c.Heap == nil {
		c.Heap = rawheap.NewSlice()
	}
	if c.Mode > OnDemand {
		return c, ErrConfig
	}
	// Pool modes materialize every bucket; the largest must stay in range.
	if c.Mode != OnDemand && smallestExponent+int(c.MaxBanks)-1 > maxExponent {
		return c, ErrConfig
	}
	return c, nil
}
