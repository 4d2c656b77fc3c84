//go:build unix

package rawheap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapHeap obtains regions from the host with anonymous private mappings,
// keeping pool storage out of the Go heap entirely. Regions are
// page-granular on the host side; callers still see exactly the n bytes
// they asked for.
type MmapHeap struct {
	regions int
}

// NewMmap returns a Heap backed by anonymous mmap.
func NewMmap() (*MmapHeap, error) {
	return &MmapHeap{}, nil
}

// Acquire maps an n-byte anonymous region.
func (h *MmapHeap) Acquire(n uint32) ([]byte, error) {
	if n == 0 {
		return nil, ErrZeroSize
	}
	data, err := unix.Mmap(-1, 0, int(n),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap: %v", ErrNoMemory, err)
	}
	h.regions++
	return data, nil
}

// Release unmaps a region previously returned from Acquire. The slice must
// be the exact one Acquire handed out; munmap of anything else fails.
func (h *MmapHeap) Release(region []byte) error {
	if region == nil || h.regions == 0 {
		return ErrForeignRegion
	}
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("%w: munmap: %v", ErrForeignRegion, err)
	}
	h.regions--
	return nil
}

// Outstanding reports the number of mapped regions not yet released.
func (h *MmapHeap) Outstanding() int {
	return h.regions
}

// Compile-time interface check
var _ Heap = (*MmapHeap)(nil)
