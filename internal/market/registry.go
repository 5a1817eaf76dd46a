// internal/market/registry.go
package market

import (
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
)

// Registry owns the listing records. Identifiers are assigned monotonically
// and never reused, so a stale reference to a consumed listing can never be
// confused with a fresh one. A secondary insertion-ordered slice of live ids
// serves enumeration; removing a listing shifts later entries down one slot
// but never reorders survivors relative to each other.
//
// The registry carries no lock of its own: the Controller serializes every
// mutation behind a single global lock (see controller.go).
type Registry struct {
	nextID   uint64
	listings map[uint64]*Listing
	order    []uint64
}

func NewRegistry() *Registry {
	return &Registry{
		nextID:   1,
		listings: make(map[uint64]*Listing),
	}
}

// Create registers a new listing and returns its id.
func (r *Registry) Create(owner Account, collection uuid.UUID, kind Kind, quantity uint64, unitPrice *big.Int) (uint64, error) {
	if quantity == 0 {
		return 0, fmt.Errorf("%w: cannot list zero quantity", ErrInvalidQuantity)
	}
	if unitPrice == nil || unitPrice.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative unit price", ErrInvalidQuantity)
	}

	id := r.nextID
	r.nextID++
	r.listings[id] = &Listing{
		ID:         id,
		Collection: collection,
		Kind:       kind,
		Quantity:   quantity,
		UnitPrice:  new(big.Int).Set(unitPrice),
		Owner:      owner,
	}
	r.order = append(r.order, id)
	return id, nil
}

// Get returns a copy of the listing. Previously deleted ids report ErrNotFound
// exactly like ids that never existed.
func (r *Registry) Get(id uint64) (Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return Listing{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return l.clone(), nil
}

// IncreaseQuantity adds quantity to an existing listing. The caller must be
// the owner and must name the stored item kind, so a top-up can never mix a
// different collection's goods into the listing.
func (r *Registry) IncreaseQuantity(id uint64, caller Account, byAmount uint64, expectedKind Kind) error {
	l, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if l.Owner != caller {
		return fmt.Errorf("%w: listing %d", ErrUnauthorized, id)
	}
	if l.Kind != expectedKind {
		return fmt.Errorf("%w: listing %d holds kind %d, got %d", ErrKindMismatch, id, l.Kind, expectedKind)
	}
	if byAmount == 0 {
		return fmt.Errorf("%w: cannot add zero quantity", ErrInvalidQuantity)
	}
	if byAmount > math.MaxUint64-l.Quantity {
		return fmt.Errorf("%w: listing %d quantity would overflow", ErrInvalidQuantity, id)
	}
	l.Quantity += byAmount
	return nil
}

// DecreaseQuantity removes quantity from a listing, deleting it and
// compacting the enumerable view when it reaches exactly zero.
func (r *Registry) DecreaseQuantity(id uint64, byAmount uint64) error {
	l, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if byAmount == 0 || byAmount > l.Quantity {
		return fmt.Errorf("%w: listing %d has %d, requested %d", ErrInvalidQuantity, id, l.Quantity, byAmount)
	}
	l.Quantity -= byAmount
	if l.Quantity == 0 {
		delete(r.listings, id)
		r.removeFromOrder(id)
	}
	return nil
}

// UpdatePrice replaces the unit price. Owner only.
func (r *Registry) UpdatePrice(id uint64, caller Account, newPrice *big.Int) error {
	l, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if l.Owner != caller {
		return fmt.Errorf("%w: listing %d", ErrUnauthorized, id)
	}
	if newPrice == nil || newPrice.Sign() < 0 {
		return fmt.Errorf("%w: negative unit price", ErrInvalidQuantity)
	}
	l.UnitPrice = new(big.Int).Set(newPrice)
	return nil
}

// ListAll returns copies of all live listings in insertion order.
func (r *Registry) ListAll() []Listing {
	out := make([]Listing, 0, len(r.order))
	for _, id := range r.order {
		if l, ok := r.listings[id]; ok {
			out = append(out, l.clone())
		}
	}
	return out
}

// Len reports the number of live listings.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) removeFromOrder(id uint64) {
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
