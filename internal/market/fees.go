// internal/market/fees.go
package market

import (
	"fmt"
	"math/big"
)

// BpsDenominator is the basis-point scale used for all rate math.
const BpsDenominator = 10_000

// Split is the outcome of dividing a gross sale amount between the seller,
// an optional royalty recipient and the two platform fee accounts. It is
// computed per buy and never persisted by the core.
//
// Invariants, enforced by ComputeSplit:
//
//	Royalty + PlatformFee + SellerNet == Gross
//	Staking + Foundation == PlatformFee
type Split struct {
	Gross            *big.Int
	Royalty          *big.Int
	RoyaltyRecipient Account
	PlatformFee      *big.Int
	Staking          *big.Int
	Foundation       *big.Int
	SellerNet        *big.Int
}

// HasRoyalty reports whether the split carries a royalty leg.
func (s Split) HasRoyalty() bool {
	return s.RoyaltyRecipient != "" && s.Royalty.Sign() > 0
}

// ValidateFeeBps rejects fee configurations that could make a seller's net
// amount negative. royaltyCapBps is the largest royalty rate the item ledger
// will register; together the two rates must stay below 100%.
func ValidateFeeBps(platformFeeBps, royaltyCapBps uint32) error {
	if platformFeeBps >= BpsDenominator {
		return fmt.Errorf("%w: platform fee %d bps >= 100%%", ErrConfiguration, platformFeeBps)
	}
	if uint64(platformFeeBps)+uint64(royaltyCapBps) >= BpsDenominator {
		return fmt.Errorf("%w: platform fee %d bps + royalty cap %d bps >= 100%%",
			ErrConfiguration, platformFeeBps, royaltyCapBps)
	}
	return nil
}

// RateShare returns floor(amount * bps / 10000) without mutating amount.
// Integer division only; no floating point anywhere in fee math.
func RateShare(amount *big.Int, bps uint32) *big.Int {
	share := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return share.Div(share, big.NewInt(BpsDenominator))
}

// ComputeSplit divides gross between seller, royalty recipient and the
// platform fee accounts. The royalty is taken as an amount (the item ledger
// resolves the per-kind rate, ERC-2981 style); pass a zero amount or an empty
// recipient for royalty-free sales. The platform fee splits as evenly as
// integer division allows, with the foundation absorbing the odd unit.
//
// For fixed inputs the result is always identical: pure integer arithmetic,
// deterministic tie-break.
func ComputeSplit(gross *big.Int, platformFeeBps uint32, royalty *big.Int, royaltyRecipient Account) (Split, error) {
	if gross == nil || gross.Sign() < 0 {
		return Split{}, fmt.Errorf("%w: negative gross amount", ErrConfiguration)
	}
	if platformFeeBps >= BpsDenominator {
		return Split{}, fmt.Errorf("%w: platform fee %d bps >= 100%%", ErrConfiguration, platformFeeBps)
	}

	royaltyAmount := big.NewInt(0)
	if royaltyRecipient != "" && royalty != nil && royalty.Sign() > 0 {
		royaltyAmount = new(big.Int).Set(royalty)
	} else {
		royaltyRecipient = ""
	}

	platformFee := RateShare(gross, platformFeeBps)

	sellerNet := new(big.Int).Set(gross)
	sellerNet.Sub(sellerNet, platformFee)
	sellerNet.Sub(sellerNet, royaltyAmount)
	if sellerNet.Sign() < 0 {
		// Reachable only when a royalty rate was registered above the
		// configured cap; ValidateFeeBps keeps honest setups out of here.
		return Split{}, fmt.Errorf("%w: fee plus royalty exceeds gross amount", ErrConfiguration)
	}

	staking := new(big.Int).Rsh(platformFee, 1)
	foundation := new(big.Int).Sub(platformFee, staking)

	return Split{
		Gross:            new(big.Int).Set(gross),
		Royalty:          royaltyAmount,
		RoyaltyRecipient: royaltyRecipient,
		PlatformFee:      platformFee,
		Staking:          staking,
		Foundation:       foundation,
		SellerNet:        sellerNet,
	}, nil
}
