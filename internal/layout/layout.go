// Package layout houses the low-level block layout of the memory pool: the
// machine-word provenance tag at the start of every block, the free-list
// link word that replaces it while a block sits on a bank's free-list, and
// the size arithmetic used when carving banks. Higher-level packages never
// touch block bytes directly; they go through the codecs here so the tag
// format stays in one place.
package layout

import "encoding/binary"

const (
	// WordSize is the size in bytes of the provenance word that prefixes
	// every block. The word is fixed at 8 bytes regardless of GOARCH so
	// bucket layouts are identical on every host.
	WordSize = 8

	// NilBlock is the free-list terminator stored in the link word of the
	// last free block.
	NilBlock = ^uint32(0)
)

// Provenance word layout (little-endian):
//
//	0x00  2-byte state signature ("mk" = live, "fb" = free)
//	0x02  uint16 bank id (position in the registry's bank table)
//	0x04  uint32 block index within the owning bank
//
// While a block is free, the block-index field is reused as the next-free
// link, threading the bank's free-list through the blocks themselves.
var (
	// LiveSignature marks a block currently handed out to a client.
	LiveSignature = []byte{'m', 'k'}

	// FreeSignature marks a block sitting on a bank free-list. Writing it
	// on deallocation doubles as tag poisoning, so a repeated free of the
	// same client region is detectable instead of corrupting the list.
	FreeSignature = []byte{'f', 'b'}
)

// TagState classifies the provenance word of a block.
type TagState uint8

const (
	// TagInvalid means the word carries neither signature. The bytes were
	// never written by the router, or the client scribbled on them.
	TagInvalid TagState = iota

	// TagLive means the block is currently allocated.
	TagLive

	// TagFree means the block is on its bank's free-list.
	TagFree
)

const (
	sigOff   = 0
	bankOff  = 2
	blockOff = 4
)

// PutLiveTag stamps the provenance word at the start of block, recording
// the owning bank and the block's index within it.
func PutLiveTag(block []byte, bankID uint16, blockIdx uint32) {
	copy(block[sigOff:sigOff+2], LiveSignature)
	PutU16(block, bankOff, bankID)
	PutU32(block, blockOff, blockIdx)
}

// PutFreeLink overwrites the provenance word with the free-list link:
// the free signature plus the index of the next free block (NilBlock
// terminates the list). The bank id bytes are left untouched, so a
// poisoned tag still names its last owner.
func PutFreeLink(block []byte, next uint32) {
	copy(block[sigOff:sigOff+2], FreeSignature)
	PutU32(block, blockOff, next)
}

// ReadTag decodes the provenance word at the start of block. For TagLive
// the second result is the block index; for TagFree it is the next-free
// link.
func ReadTag(block []byte) (state TagState, bankID uint16, word uint32) {
	switch {
	case block[sigOff] == LiveSignature[0] && block[sigOff+1] == LiveSignature[1]:
		state = TagLive
	case block[sigOff] == FreeSignature[0] && block[sigOff+1] == FreeSignature[1]:
		state = TagFree
	default:
		return TagInvalid, 0, 0
	}
	return state, ReadU16(block, bankOff), ReadU32(block, blockOff)
}

// FreeLink returns the next-free index stored in a free block's link word.
func FreeLink(block []byte) uint32 {
	return ReadU32(block, blockOff)
}

// PutU16 writes a uint16 to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU16 reads a uint16 from the buffer at the specified offset in little-endian format.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// NextPow2 returns the next power of two >= v.
//
// Example:
//
//	NextPow2(12) = 16
//	NextPow2(16) = 16
//	NextPow2(17) = 32
func NextPow2(v uint32) uint32 {
	if v <= 1 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}

// Log2Ceil returns ceil(log2(v)) for v >= 1.
//
// Example:
//
//	Log2Ceil(8)  = 3
//	Log2Ceil(9)  = 4
//	Log2Ceil(16) = 4
func Log2Ceil(v uint32) int {
	n := 0
	for p := uint32(1); p < v; p <<= 1 {
		n++
	}
	return n
}
