package bank

import (
	"errors"

	"github.com/joshuapare/memkit/internal/layout"
	"github.com/joshuapare/memkit/mem/rawheap"
)

// Dynamic is a bank that reserves no bytes up front. Each block is its own
// region acquired from a rawheap.Heap the first time it is needed; freed
// blocks go onto the free-list and are only returned to the heap when the
// bank is destroyed. The free-list is threaded through the blocks' first
// words exactly as in Static, with indices into the acquired-region table.
type Dynamic struct {
	blockSize uint32
	capacity  uint16
	heap      rawheap.Heap

	// regions holds every block ever acquired, in acquisition order. A
	// block's index is its position here and never changes.
	regions [][]byte

	freeHead  uint32
	freeLen   uint16
	inUse     uint16
	destroyed bool
}

// NewDynamic creates a dynamic bank drawing blocks from heap. Nothing is
// acquired until the first Allocate.
func NewDynamic(blockSize uint32, capacity uint16, heap rawheap.Heap) (*Dynamic, error) {
	if blockSize <= layout.WordSize || capacity == 0 || heap == nil {
		return nil, ErrConfig
	}
	return &Dynamic{
		blockSize: blockSize,
		capacity:  capacity,
		heap:      heap,
		freeHead:  layout.NilBlock,
	}, nil
}

// Allocate pops the free-list head, acquiring a fresh block from the heap
// when the list is empty and the bank is under capacity.
func (b *Dynamic) Allocate() (uint32, []byte, error) {
	if b.destroyed {
		return 0, nil, ErrDestroyed
	}
	if b.freeHead != layout.NilBlock {
		idx := b.freeHead
		blk := b.regions[idx]
		b.freeHead = layout.FreeLink(blk)
		b.freeLen--
		b.inUse++
		layout.PutLiveTag(blk, 0, idx)
		return idx, blk, nil
	}
	if len(b.regions) >= int(b.capacity) {
		return 0, nil, ErrBankFull
	}
	blk, err := b.heap.Acquire(b.blockSize)
	if err != nil {
		if errors.Is(err, rawheap.ErrNoMemory) {
			return 0, nil, ErrBankFull
		}
		return 0, nil, err
	}
	b.regions = append(b.regions, blk)
	idx := uint32(len(b.regions) - 1)
	b.inUse++
	layout.PutLiveTag(blk, 0, idx)
	return idx, blk, nil
}

// Deallocate pushes the block onto the free-list head. The block stays
// acquired; the heap sees it again only at Destroy.
func (b *Dynamic) Deallocate(blockIdx uint32) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if blockIdx >= uint32(len(b.regions)) {
		return ErrBadBlock
	}
	blk := b.regions[blockIdx]
	if state, _, _ := layout.ReadTag(blk); state == layout.TagFree {
		return ErrBlockFree
	}
	layout.PutFreeLink(blk, b.freeHead)
	b.freeHead = blockIdx
	b.freeLen++
	b.inUse--
	return nil
}

// Block returns the raw bytes of a block by index.
func (b *Dynamic) Block(blockIdx uint32) ([]byte, error) {
	if b.destroyed {
		return nil, ErrDestroyed
	}
	if blockIdx >= uint32(len(b.regions)) {
		return nil, ErrBadBlock
	}
	return b.regions[blockIdx], nil
}

// BlockSize returns the size of one block in bytes.
func (b *Dynamic) BlockSize() uint32 { return b.blockSize }

// Capacity returns the total number of blocks the bank may acquire.
func (b *Dynamic) Capacity() uint16 { return b.capacity }

// InUse returns the number of blocks currently handed out.
func (b *Dynamic) InUse() uint16 { return b.inUse }

// FreeCount returns the number of blocks on the free-list.
func (b *Dynamic) FreeCount() uint16 { return b.freeLen }

// Acquired returns the number of blocks obtained from the heap so far.
func (b *Dynamic) Acquired() int { return len(b.regions) }

// Destroy releases every acquired block back to the heap, outstanding
// allocations included. The first release error is reported; release of
// the remaining regions is still attempted.
func (b *Dynamic) Destroy() error {
	if b.destroyed {
		return ErrDestroyed
	}
	b.destroyed = true
	var firstErr error
	for _, blk := range b.regions {
		if err := b.heap.Release(blk); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.regions = nil
	b.freeHead = layout.NilBlock
	b.freeLen = 0
	b.inUse = 0
	return firstErr
}

// Compile-time interface check
var _ Bank = (*Dynamic)(nil)
