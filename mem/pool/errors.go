package pool

import "errors"

var (
	// ErrExhausted indicates no bank could satisfy the request after
	// spill-up.
	ErrExhausted = errors.New("pool: all banks exhausted")

	// ErrTooLarge indicates the request exceeds the largest bucket.
	ErrTooLarge = errors.New("pool: request exceeds largest block size")

	// ErrRegistryFull indicates an on-demand bank could not be inserted
	// because the registry is at MaxBanks.
	ErrRegistryFull = errors.New("pool: registry full")

	// ErrDuplicateSize indicates an insert of a bank whose block size is
	// already registered.
	ErrDuplicateSize = errors.New("pool: duplicate block size")

	// ErrBadPointer indicates a free or realloc of a region that carries no
	// valid provenance tag.
	ErrBadPointer = errors.New("pool: region was not allocated by this pool")

	// ErrDoubleFree indicates a free of a region whose tag is already
	// poisoned.
	ErrDoubleFree = errors.New("pool: region already freed")

	// ErrClosed indicates use of a router after Close.
	ErrClosed = errors.New("pool: closed")

	// ErrNotInitialized indicates use of the process-wide pool before Init.
	ErrNotInitialized = errors.New("pool: not initialized")

	// ErrConfig indicates an unusable Config.
	ErrConfig = errors.New("pool: bad configuration")
)
