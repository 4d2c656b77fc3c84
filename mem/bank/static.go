package bank

import (
	"github.com/joshuapare/memkit/internal/layout"
)

// Static is a bank whose full byte region is reserved at construction.
// Block i occupies storage[i*blockSize : (i+1)*blockSize]; the free-list
// is threaded through the first word of each free block as a block index.
type Static struct {
	blockSize uint32
	capacity  uint16
	storage   []byte

	freeHead  uint32 // layout.NilBlock when empty
	freeLen   uint16
	inUse     uint16
	destroyed bool
}

// NewStatic reserves capacity*blockSize bytes and threads the free-list
// through every block. The block size must leave at least one client byte
// past the provenance word.
func NewStatic(blockSize uint32, capacity uint16) (*Static, error) {
	if blockSize <= layout.WordSize || capacity == 0 {
		return nil, ErrConfig
	}
	if uint64(blockSize)*uint64(capacity) > 1<<31 {
		return nil, ErrConfig
	}
	b := &Static{
		blockSize: blockSize,
		capacity:  capacity,
		storage:   make([]byte, uint32(capacity)*blockSize),
		freeHead:  0,
		freeLen:   capacity,
	}
	for i := uint32(0); i < uint32(capacity); i++ {
		next := i + 1
		if next == uint32(capacity) {
			next = layout.NilBlock
		}
		layout.PutFreeLink(b.block(i), next)
	}
	return b, nil
}

func (b *Static) block(idx uint32) []byte {
	off := idx * b.blockSize
	return b.storage[off : off+b.blockSize : off+b.blockSize]
}

// Allocate pops the free-list head.
func (b *Static) Allocate() (uint32, []byte, error) {
	if b.destroyed {
		return 0, nil, ErrDestroyed
	}
	if b.freeHead == layout.NilBlock {
		return 0, nil, ErrBankFull
	}
	idx := b.freeHead
	blk := b.block(idx)
	b.freeHead = layout.FreeLink(blk)
	b.freeLen--
	b.inUse++
	// Stamp a live tag so the free signature never survives on a handed-out
	// block; the router overwrites the bank id field with the real one.
	layout.PutLiveTag(blk, 0, idx)
	return idx, blk, nil
}

// Deallocate pushes the block onto the free-list head.
func (b *Static) Deallocate(blockIdx uint32) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if blockIdx >= uint32(b.capacity) {
		return ErrBadBlock
	}
	blk := b.block(blockIdx)
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
func (b *Static) Block(blockIdx uint32) ([]byte, error) {
	if b.destroyed {
		return nil, ErrDestroyed
	}
	if blockIdx >= uint32(b.capacity) {
		return nil, ErrBadBlock
	}
	return b.block(blockIdx), nil
}

// BlockSize returns the size of one block in bytes.
func (b *Static) BlockSize() uint32 { return b.blockSize }

// Capacity returns the total number of blocks.
func (b *Static) Capacity() uint16 { return b.capacity }

// InUse returns the number of blocks currently handed out.
func (b *Static) InUse() uint16 { return b.inUse }

// FreeCount returns the number of blocks on the free-list.
func (b *Static) FreeCount() uint16 { return b.freeLen }

// Destroy drops the reserved region. Any outstanding blocks become dead.
func (b *Static) Destroy() error {
	if b.destroyed {
		return ErrDestroyed
	}
	b.destroyed = true
	b.storage = nil
	b.freeHead = layout.NilBlock
	b.freeLen = 0
	b.inUse = 0
	return nil
}

// Compile-time interface check
var _ Bank = (*Static)(nil)
