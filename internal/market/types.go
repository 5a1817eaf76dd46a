// internal/market/types.go
package market

import (
	"math/big"

	"github.com/google/uuid"
)

// Account identifies a balance holder on the platform ledgers: either a user
// id or one of the fixed system accounts (custody, staking pool, foundation).
type Account string

// Kind identifies an item kind within a collection.
type Kind uint64

// Listing is a live offer of `Quantity` units of one item kind at `UnitPrice`
// of the payment asset per unit. Quantity is strictly positive for as long as
// the listing exists; a listing that reaches zero is removed from the
// registry.
type Listing struct {
	ID         uint64    `json:"id"`
	Collection uuid.UUID `json:"collection_id"`
	Kind       Kind      `json:"item_kind"`
	Quantity   uint64    `json:"quantity"`
	UnitPrice  *big.Int  `json:"unit_price"`
	Owner      Account   `json:"owner"`
}

// clone returns a defensive copy so callers can never mutate registry state
// through a returned Listing.
func (l *Listing) clone() Listing {
	c := *l
	c.UnitPrice = new(big.Int).Set(l.UnitPrice)
	return c
}
