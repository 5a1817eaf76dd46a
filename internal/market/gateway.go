// internal/market/gateway.go
package market

import (
	"math/big"

	"github.com/google/uuid"
)

// PaymentLeg is a single payment-asset movement inside a settlement.
type PaymentLeg struct {
	From   Account
	To     Account
	Amount *big.Int
}

// PaymentLedger is the fungible payment-asset ledger the marketplace settles
// against. The core never implements balance accounting itself; it only
// sequences calls against this boundary.
type PaymentLedger interface {
	// Transfer moves amount from one account to another. Fails when the
	// payer lacks balance or has not granted the marketplace an allowance
	// covering the amount.
	Transfer(from, to Account, amount *big.Int) error

	// BatchTransfer applies every leg or none. Implementations must
	// validate all debits against a scratch view before committing the
	// first leg, so a failed settlement leaves no observable effect.
	BatchTransfer(legs []PaymentLeg) error

	// BalanceOf reports the current balance of an account.
	BalanceOf(account Account) *big.Int
}

// RoyaltyInfo names the recipient and amount of the royalty leg for a sale,
// resolved per item kind from its collection metadata.
type RoyaltyInfo struct {
	Recipient Account
	Amount    *big.Int
}

// ItemLedger is the multi-quantity item ledger holding listed goods. Listing
// moves quantity into marketplace custody; buys and removals move it back out.
type ItemLedger interface {
	// TransferBatch moves quantity of one item kind between accounts.
	// Fails on insufficient balance or missing operator approval.
	TransferBatch(from, to Account, collection uuid.UUID, kind Kind, quantity uint64) error

	// Royalty resolves the royalty leg for selling an item kind at the
	// given gross price. ok is false when the kind carries no royalty.
	Royalty(collection uuid.UUID, kind Kind, salePrice *big.Int) (info RoyaltyInfo, ok bool, err error)

	// BalanceOf reports how much of an item kind an account holds.
	BalanceOf(owner Account, collection uuid.UUID, kind Kind) (uint64, error)
}
