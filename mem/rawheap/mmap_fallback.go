//go:build !unix

package rawheap

import "errors"

// ErrMmapUnsupported indicates the platform has no anonymous mmap support.
var ErrMmapUnsupported = errors.New("rawheap: mmap not supported on this platform")

// MmapHeap is unavailable on this platform; NewMmap always fails and the
// methods exist only to satisfy the Heap interface.
type MmapHeap struct{}

// NewMmap reports that anonymous mmap is unavailable.
func NewMmap() (*MmapHeap, error) {
	return nil, ErrMmapUnsupported
}

// Acquire always fails on this platform.
func (h *MmapHeap) Acquire(n uint32) ([]byte, error) {
	return nil, ErrMmapUnsupported
}

// Release always fails on this platform.
func (h *MmapHeap) Release(region []byte) error {
	return ErrMmapUnsupported
}

// Outstanding reports zero; no regions can exist.
func (h *MmapHeap) Outstanding() int {
	return 0
}

// Compile-time interface check
var _ Heap = (*MmapHeap)(nil)
