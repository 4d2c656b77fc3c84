package layout

import "unsafe"

// Prefix returns the provenance word that sits immediately before a client
// region handed out by the router. The client slice is a sub-slice of the
// raw block, so the word lives WordSize bytes before its first element
// within the same backing region.
//
// Precondition: p must be a client region previously returned by the
// router's Alloc and must not be empty. Passing any other slice reads
// memory outside its bounds.
func Prefix(p []byte) []byte {
	base := unsafe.Pointer(unsafe.SliceData(p))
	return unsafe.Slice((*byte)(unsafe.Add(base, -WordSize)), WordSize)
}
