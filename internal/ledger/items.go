// internal/ledger/items.go
package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"

	"github.com/javajoker/marketplace-backend/internal/market"
)

var (
	ErrUnknownKind       = errors.New("unknown item kind")
	ErrNotApproved       = errors.New("marketplace not approved as transfer agent")
	ErrRoyaltyOverCap    = errors.New("royalty rate above configured cap")
	ErrInsufficientItems = errors.New("insufficient item balance")
	ErrUnknownCollection = errors.New("unknown collection")
)

type kindKey struct {
	collection uuid.UUID
	kind       market.Kind
}

type royaltyPolicy struct {
	recipient market.Account
	bps       uint32
}

// ItemLedger is the platform's custodial multi-token ledger: per-kind
// balances, operator approvals granting the marketplace transfer rights over
// an owner's items, and an optional royalty policy per kind fixed at mint.
type ItemLedger struct {
	mu            sync.RWMutex
	operator      market.Account
	royaltyCapBps uint32
	nextKind      map[uuid.UUID]market.Kind
	supply        map[kindKey]uint64
	balances      map[kindKey]map[market.Account]uint64
	operators     map[market.Account]bool
	royalties     map[kindKey]royaltyPolicy
}

// NewItemLedger creates an empty ledger. operator is the marketplace identity;
// royaltyCapBps bounds the royalty rate any kind may register.
func NewItemLedger(operator market.Account, royaltyCapBps uint32) *ItemLedger {
	return &ItemLedger{
		operator:      operator,
		royaltyCapBps: royaltyCapBps,
		nextKind:      make(map[uuid.UUID]market.Kind),
		supply:        make(map[kindKey]uint64),
		balances:      make(map[kindKey]map[market.Account]uint64),
		operators:     make(map[market.Account]bool),
		royalties:     make(map[kindKey]royaltyPolicy),
	}
}

// RegisterCollection makes a collection id known to the ledger. Kind ids are
// assigned per collection, starting at 1.
func (l *ItemLedger) RegisterCollection(collection uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.nextKind[collection]; !ok {
		l.nextKind[collection] = 1
	}
}

// RestoreCollection re-registers a collection after a restart so that kind
// ids resume past the ones already handed out. lastKind is the highest kind
// id recorded for the collection; zero means none were minted yet.
func (l *ItemLedger) RestoreCollection(collection uuid.UUID, lastKind market.Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if next, ok := l.nextKind[collection]; !ok || next <= lastKind {
		l.nextKind[collection] = lastKind + 1
	}
}

// Mint issues quantity units of a new item kind to an owner and fixes its
// royalty policy. A zero rate or empty recipient means no royalty leg ever.
func (l *ItemLedger) Mint(collection uuid.UUID, to market.Account, quantity uint64, royaltyRecipient market.Account, royaltyBps uint32) (market.Kind, error) {
	if quantity == 0 {
		return 0, fmt.Errorf("%w: mint quantity must be positive", ErrInvalidAmount)
	}
	if royaltyBps > l.royaltyCapBps {
		return 0, fmt.Errorf("%w: %d bps > cap %d bps", ErrRoyaltyOverCap, royaltyBps, l.royaltyCapBps)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next, ok := l.nextKind[collection]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	l.nextKind[collection] = next + 1

	key := kindKey{collection: collection, kind: next}
	l.supply[key] = quantity
	l.balances[key] = map[market.Account]uint64{to: quantity}
	if royaltyRecipient != "" && royaltyBps > 0 {
		l.royalties[key] = royaltyPolicy{recipient: royaltyRecipient, bps: royaltyBps}
	}
	return next, nil
}

// SetApprovalForAll grants or revokes the marketplace's right to move the
// owner's items.
func (l *ItemLedger) SetApprovalForAll(owner market.Account, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if approved {
		l.operators[owner] = true
	} else {
		delete(l.operators, owner)
	}
}

// IsApprovedForAll reports whether the owner has approved the marketplace.
func (l *ItemLedger) IsApprovedForAll(owner market.Account) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.operators[owner]
}

// TransferBatch moves quantity of one item kind between accounts. Moving
// items out of any account other than the marketplace itself requires that
// account's operator approval.
func (l *ItemLedger) TransferBatch(from, to market.Account, collection uuid.UUID, kind market.Kind, quantity uint64) error {
	if quantity == 0 {
		return fmt.Errorf("%w: transfer quantity must be positive", ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := kindKey{collection: collection, kind: kind}
	holders, ok := l.balances[key]
	if !ok {
		return fmt.Errorf("%w: collection %s kind %d", ErrUnknownKind, collection, kind)
	}
	if from != l.operator && !l.operators[from] {
		return fmt.Errorf("%w: account %s", ErrNotApproved, from)
	}
	if holders[from] < quantity {
		return fmt.Errorf("%w: account %s holds %d of kind %d, needs %d",
			ErrInsufficientItems, from, holders[from], kind, quantity)
	}

	holders[from] -= quantity
	if holders[from] == 0 {
		delete(holders, from)
	}
	holders[to] += quantity
	return nil
}

// Royalty resolves the royalty leg for a sale of the given kind, ERC-2981
// shape: the amount is floor(salePrice * bps / 10000).
func (l *ItemLedger) Royalty(collection uuid.UUID, kind market.Kind, salePrice *big.Int) (market.RoyaltyInfo, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key := kindKey{collection: collection, kind: kind}
	if _, ok := l.balances[key]; !ok {
		return market.RoyaltyInfo{}, false, fmt.Errorf("%w: collection %s kind %d", ErrUnknownKind, collection, kind)
	}
	policy, ok := l.royalties[key]
	if !ok {
		return market.RoyaltyInfo{}, false, nil
	}
	return market.RoyaltyInfo{
		Recipient: policy.recipient,
		Amount:    market.RateShare(salePrice, policy.bps),
	}, true, nil
}

// BalanceOf reports how much of a kind an account holds.
func (l *ItemLedger) BalanceOf(owner market.Account, collection uuid.UUID, kind market.Kind) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key := kindKey{collection: collection, kind: kind}
	holders, ok := l.balances[key]
	if !ok {
		return 0, fmt.Errorf("%w: collection %s kind %d", ErrUnknownKind, collection, kind)
	}
	return holders[owner], nil
}

// Supply reports the minted supply of a kind.
func (l *ItemLedger) Supply(collection uuid.UUID, kind market.Kind) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key := kindKey{collection: collection, kind: kind}
	supply, ok := l.supply[key]
	if !ok {
		return 0, fmt.Errorf("%w: collection %s kind %d", ErrUnknownKind, collection, kind)
	}
	return supply, nil
}
