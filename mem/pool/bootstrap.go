package pool

// Process-wide pool with reference-counted lifecycle, so independently
// initialized subsystems compose: the first Init builds the banks, later
// Inits only bump a counter, and only the matching last Destroy tears the
// pool down. Like the routers themselves, Init and Destroy are not
// thread-safe; serialize process startup and shutdown externally.

var (
	std     *Router
	stdRefs int
)

// Init initializes the process-wide pool. Only the first call's Config is
// honored; nested calls increment the reference count and return nil.
func Init(cfg Config) error {
	if stdRefs > 0 {
		stdRefs++
		return nil
	}
	rt, err := New(cfg)
	if err != nil {
		return err
	}
	std = rt
	stdRefs = 1
	return nil
}

// Destroy drops one reference to the process-wide pool and tears it down
// when the count reaches zero.
func Destroy() error {
	if stdRefs == 0 {
		return ErrNotInitialized
	}
	stdRefs--
	if stdRefs > 0 {
		return nil
	}
	err := std.Close()
	std = nil
	return err
}

// Alloc allocates from the process-wide pool.
func Alloc(n uint32) ([]byte, error) {
	if std == nil {
		return nil, ErrNotInitialized
	}
	return std.Alloc(n)
}

// Free returns a client region to the process-wide pool.
func Free(p []byte) error {
	if std == nil {
		return ErrNotInitialized
	}
	return std.Free(p)
}

// Realloc resizes an allocation from the process-wide pool.
func Realloc(p []byte, n uint32) ([]byte, error) {
	if std == nil {
		return nil, ErrNotInitialized
	}
	return std.Realloc(p, n)
}

// TotalUsed mirrors Router.TotalUsed on the process-wide pool.
func TotalUsed() uint32 {
	if std == nil {
		return 0
	}
	return std.TotalUsed()
}

// TotalAvailable mirrors Router.TotalAvailable on the process-wide pool.
func TotalAvailable() uint32 {
	if std == nil {
		return 0
	}
	return std.TotalAvailable()
}

// IsSizeAvailable mirrors Router.IsSizeAvailable on the process-wide pool.
func IsSizeAvailable(s uint32) bool {
	return std != nil && std.IsSizeAvailable(s)
}

// HasFreeBlock mirrors Router.HasFreeBlock on the process-wide pool.
func HasFreeBlock(s uint32) bool {
	return std != nil && std.HasFreeBlock(s)
}

// FreeBlocksOf mirrors Router.FreeBlocksOf on the process-wide pool.
func FreeBlocksOf(s uint32) uint16 {
	if std == nil {
		return 0
	}
	return std.FreeBlocksOf(s)
}

// NumBlocksPerBank mirrors Router.NumBlocksPerBank on the process-wide pool.
func NumBlocksPerBank() uint16 {
	if std == nil {
		return 0
	}
	return std.NumBlocksPerBank()
}

// MaxBanks mirrors Router.MaxBanks on the process-wide pool.
func MaxBanks() uint16 {
	if std == nil {
		return 0
	}
	return std.MaxBanks()
}

// SmallestBlockSize mirrors Router.SmallestBlockSize on the process-wide
// pool.
func SmallestBlockSize() uint16 {
	if std == nil {
		return MinBlockSize
	}
	return std.SmallestBlockSize()
}
