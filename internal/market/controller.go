// internal/market/controller.go
package market

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// Config fixes the settlement parties and fee rate for the lifetime of the
// controller. Mirrors the deployment constants of the production setup:
// 4% platform fee, split evenly between staking pool and foundation.
type Config struct {
	PlatformFeeBps uint32
	// RoyaltyCapBps is the highest royalty rate the item ledger may register;
	// used only to reject impossible fee configurations at setup.
	RoyaltyCapBps uint32
	Custody       Account
	StakingPool   Account
	Foundation    Account
}

func (c Config) validate() error {
	if err := ValidateFeeBps(c.PlatformFeeBps, c.RoyaltyCapBps); err != nil {
		return err
	}
	if c.Custody == "" || c.StakingPool == "" || c.Foundation == "" {
		return fmt.Errorf("%w: custody, staking pool and foundation accounts are required", ErrConfiguration)
	}
	return nil
}

// Controller is the marketplace state machine. Every public operation either
// fully applies (registry mutation plus external transfers) or fully fails
// with no observable partial effect.
//
// A single lock serializes all operations. Listings never touch disjoint
// state in a way that would make per-listing locking safe: enumeration order
// and the custody account are shared across every listing.
type Controller struct {
	mu       sync.RWMutex
	cfg      Config
	registry *Registry
	payments PaymentLedger
	items    ItemLedger
}

func NewController(cfg Config, payments PaymentLedger, items ItemLedger) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:      cfg,
		registry: NewRegistry(),
		payments: payments,
		items:    items,
	}, nil
}

// List moves quantity of the caller's items into marketplace custody and
// creates the listing. The item transfer runs first; when the item ledger
// rejects it (insufficient balance, missing operator approval) no listing is
// created.
func (c *Controller) List(caller Account, collection uuid.UUID, kind Kind, quantity uint64, unitPrice *big.Int) (Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity == 0 {
		return Listing{}, fmt.Errorf("%w: cannot list zero quantity", ErrInvalidQuantity)
	}
	if unitPrice == nil || unitPrice.Sign() < 0 {
		return Listing{}, fmt.Errorf("%w: negative unit price", ErrInvalidQuantity)
	}

	if err := c.items.TransferBatch(caller, c.cfg.Custody, collection, kind, quantity); err != nil {
		return Listing{}, fmt.Errorf("%w: listing deposit: %v", ErrExternalTransfer, err)
	}
	id, err := c.registry.Create(caller, collection, kind, quantity, unitPrice)
	if err != nil {
		// Unreachable after the checks above; kept so a registry error can
		// never strand deposited items in custody.
		_ = c.items.TransferBatch(c.cfg.Custody, caller, collection, kind, quantity)
		return Listing{}, err
	}
	return c.registry.Get(id)
}

// UpdatePrice replaces the listing's unit price. Pure registry mutation.
func (c *Controller) UpdatePrice(caller Account, listingID uint64, newPrice *big.Int) (Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.UpdatePrice(listingID, caller, newPrice); err != nil {
		return Listing{}, err
	}
	return c.registry.Get(listingID)
}

// AddQuantity tops up a listing with more of the same item kind. The caller
// must own the listing and name the stored kind; the deposit transfer runs
// before the registry mutation.
func (c *Controller) AddQuantity(caller Account, listingID uint64, extraQuantity uint64, expectedKind Kind) (Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, err := c.registry.Get(listingID)
	if err != nil {
		return Listing{}, err
	}
	if l.Owner != caller {
		return Listing{}, fmt.Errorf("%w: listing %d", ErrUnauthorized, listingID)
	}
	if l.Kind != expectedKind {
		return Listing{}, fmt.Errorf("%w: listing %d holds kind %d, got %d", ErrKindMismatch, listingID, l.Kind, expectedKind)
	}
	if extraQuantity == 0 {
		return Listing{}, fmt.Errorf("%w: cannot add zero quantity", ErrInvalidQuantity)
	}

	if err := c.items.TransferBatch(caller, c.cfg.Custody, l.Collection, l.Kind, extraQuantity); err != nil {
		return Listing{}, fmt.Errorf("%w: top-up deposit: %v", ErrExternalTransfer, err)
	}
	if err := c.registry.IncreaseQuantity(listingID, caller, extraQuantity, expectedKind); err != nil {
		_ = c.items.TransferBatch(c.cfg.Custody, caller, l.Collection, l.Kind, extraQuantity)
		return Listing{}, err
	}
	return c.registry.Get(listingID)
}

// RemoveQuantity returns quantity from custody to the owner, deleting the
// listing when it is fully drained. Returns the listing state after the
// removal; remaining == 0 signals deletion.
func (c *Controller) RemoveQuantity(caller Account, listingID uint64, quantity uint64) (remaining uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, err := c.registry.Get(listingID)
	if err != nil {
		return 0, err
	}
	if l.Owner != caller {
		return 0, fmt.Errorf("%w: listing %d", ErrUnauthorized, listingID)
	}
	if quantity == 0 || quantity > l.Quantity {
		return 0, fmt.Errorf("%w: listing %d has %d, requested %d", ErrInvalidQuantity, listingID, l.Quantity, quantity)
	}

	if err := c.items.TransferBatch(c.cfg.Custody, caller, l.Collection, l.Kind, quantity); err != nil {
		return 0, fmt.Errorf("%w: withdrawal: %v", ErrExternalTransfer, err)
	}
	if err := c.registry.DecreaseQuantity(listingID, quantity); err != nil {
		_ = c.items.TransferBatch(caller, c.cfg.Custody, l.Collection, l.Kind, quantity)
		return 0, err
	}
	return l.Quantity - quantity, nil
}

// Receipt describes one settled purchase: the listing as it stood at
// settlement, the quantity bought, what remains listed, and the payment
// split that was applied.
type Receipt struct {
	Listing   Listing `json:"listing"`
	Quantity  uint64  `json:"quantity"`
	Remaining uint64  `json:"remaining"`
	Split     Split   `json:"split"`
}

// Buy settles a purchase of quantity units: payment legs in fixed order
// (seller net, royalty, staking pool, foundation) as one all-or-nothing
// batch, then the item transfer out of custody, then the registry decrement.
func (c *Controller) Buy(buyer Account, listingID uint64, quantity uint64) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, err := c.registry.Get(listingID)
	if err != nil {
		return Receipt{}, err
	}
	if quantity == 0 || quantity > l.Quantity {
		return Receipt{}, fmt.Errorf("%w: listing %d has %d, requested %d", ErrInvalidQuantity, listingID, l.Quantity, quantity)
	}

	gross := new(big.Int).Mul(l.UnitPrice, new(big.Int).SetUint64(quantity))

	royalty := big.NewInt(0)
	var royaltyRecipient Account
	if info, ok, err := c.items.Royalty(l.Collection, l.Kind, gross); err != nil {
		return Receipt{}, fmt.Errorf("%w: royalty lookup: %v", ErrExternalTransfer, err)
	} else if ok {
		royalty = info.Amount
		royaltyRecipient = info.Recipient
	}

	split, err := ComputeSplit(gross, c.cfg.PlatformFeeBps, royalty, royaltyRecipient)
	if err != nil {
		return Receipt{}, err
	}

	// The registry invariant guarantees custody holds the listed quantity;
	// checking up front keeps even a misbehaving item ledger from leaving a
	// half-settled sale behind.
	held, err := c.items.BalanceOf(c.cfg.Custody, l.Collection, l.Kind)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: custody balance: %v", ErrExternalTransfer, err)
	}
	if held < quantity {
		return Receipt{}, fmt.Errorf("%w: custody holds %d of kind %d, listing claims %d",
			ErrExternalTransfer, held, l.Kind, quantity)
	}

	legs := make([]PaymentLeg, 0, 4)
	legs = append(legs, PaymentLeg{From: buyer, To: l.Owner, Amount: split.SellerNet})
	if split.HasRoyalty() {
		legs = append(legs, PaymentLeg{From: buyer, To: split.RoyaltyRecipient, Amount: split.Royalty})
	}
	legs = append(legs,
		PaymentLeg{From: buyer, To: c.cfg.StakingPool, Amount: split.Staking},
		PaymentLeg{From: buyer, To: c.cfg.Foundation, Amount: split.Foundation},
	)
	if err := c.payments.BatchTransfer(legs); err != nil {
		return Receipt{}, fmt.Errorf("%w: payment settlement: %v", ErrExternalTransfer, err)
	}

	if err := c.items.TransferBatch(c.cfg.Custody, buyer, l.Collection, l.Kind, quantity); err != nil {
		// Cannot happen after the custody check; reverse the payment legs so
		// the failure is still all-or-nothing.
		reversed := make([]PaymentLeg, len(legs))
		for i, leg := range legs {
			reversed[i] = PaymentLeg{From: leg.To, To: leg.From, Amount: leg.Amount}
		}
		_ = c.payments.BatchTransfer(reversed)
		return Receipt{}, fmt.Errorf("%w: item delivery: %v", ErrExternalTransfer, err)
	}

	if err := c.registry.DecreaseQuantity(listingID, quantity); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Listing:   l,
		Quantity:  quantity,
		Remaining: l.Quantity - quantity,
		Split:     split,
	}, nil
}

// Get returns a copy of one listing.
func (c *Controller) Get(listingID uint64) (Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Get(listingID)
}

// ListAll returns all live listings in insertion order.
func (c *Controller) ListAll() []Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.ListAll()
}

// FeeBps exposes the configured platform fee rate.
func (c *Controller) FeeBps() uint32 {
	return c.cfg.PlatformFeeBps
}
