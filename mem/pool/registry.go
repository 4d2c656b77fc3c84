package pool

import (
	"github.com/joshuapare/memkit/mem/bank"
)

// Registry holds the pool's banks. A bank's id is its position in the
// append-order table and never changes, so the provenance tags in live
// blocks stay valid when on-demand mode inserts new banks later. Lookups
// go through a separate view sorted by ascending block size.
type Registry struct {
	banks []bank.Bank // append order; index is the bank id
	order []uint16    // bank ids sorted by ascending block size
	max   int
}

// NewRegistry creates an empty registry holding at most max banks.
func NewRegistry(max int) *Registry {
	return &Registry{
		banks: make([]bank.Bank, 0, max),
		order: make([]uint16, 0, max),
		max:   max,
	}
}

// Len returns the number of registered banks.
func (r *Registry) Len() int {
	return len(r.banks)
}

// Insert registers a bank and returns its id. Block sizes must be unique;
// the sorted view is maintained on insert.
func (r *Registry) Insert(b bank.Bank) (uint16, error) {
	if len(r.banks) >= r.max {
		return 0, ErrRegistryFull
	}
	size := b.BlockSize()
	pos := 0
	for ; pos < len(r.order); pos++ {
		s := r.banks[r.order[pos]].BlockSize()
		if s == size {
			return 0, ErrDuplicateSize
		}
		if s > size {
			break
		}
	}
	id := uint16(len(r.banks))
	r.banks = append(r.banks, b)
	r.order = append(r.order, 0)
	copy(r.order[pos+1:], r.order[pos:])
	r.order[pos] = id
	return id, nil
}

// Bank returns a bank by id.
func (r *Registry) Bank(id uint16) bank.Bank {
	return r.banks[id]
}

// At returns the bank at a position in the size-sorted view.
func (r *Registry) At(pos int) (uint16, bank.Bank) {
	id := r.order[pos]
	return id, r.banks[id]
}

// FindPos returns the position in the sorted view of the smallest bank
// whose block size is >= total, or -1 if none fits.
func (r *Registry) FindPos(total uint32) int {
	for pos, id := range r.order {
		if r.banks[id].BlockSize() >= total {
			return pos
		}
	}
	return -1
}

// FindExact returns the bank with exactly the given block size.
func (r *Registry) FindExact(size uint32) (uint16, bank.Bank, bool) {
	for _, id := range r.order {
		s := r.banks[id].BlockSize()
		if s == size {
			return id, r.banks[id], true
		}
		if s > size {
			break
		}
	}
	return 0, nil, false
}

// Smallest returns the bank with the smallest block size, or nil when the
// registry is empty.
func (r *Registry) Smallest() bank.Bank {
	if len(r.order) == 0 {
		return nil
	}
	return r.banks[r.order[0]]
}

// Largest returns the bank with the largest block size, or nil when the
// registry is empty.
func (r *Registry) Largest() bank.Bank {
	if len(r.order) == 0 {
		return nil
	}
	return r.banks[r.order[len(r.order)-1]]
}
