// internal/services/market_service_test.go
package services

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
)

func TestTradeFromReceipt(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	collectionID := uuid.New()

	receipt := market.Receipt{
		Listing: market.Listing{
			ID:         7,
			Collection: collectionID,
			Kind:       3,
			Quantity:   45,
			UnitPrice:  big.NewInt(10),
			Owner:      "seller",
		},
		Quantity:  10,
		Remaining: 35,
		Split: market.Split{
			Gross:            big.NewInt(100),
			Royalty:          big.NewInt(4),
			RoyaltyRecipient: "artist",
			PlatformFee:      big.NewInt(4),
			Staking:          big.NewInt(2),
			Foundation:       big.NewInt(2),
			SellerNet:        big.NewInt(92),
		},
	}

	trade := tradeFromReceipt(buyerID, sellerID, receipt)

	assert.Equal(t, uint64(7), trade.ListingID)
	assert.Equal(t, buyerID, trade.BuyerID)
	assert.Equal(t, sellerID, trade.SellerID)
	assert.Equal(t, collectionID, trade.CollectionID)
	assert.Equal(t, uint64(3), trade.Kind)
	assert.Equal(t, uint64(10), trade.Quantity)
	assert.Equal(t, "10", trade.UnitPrice)
	assert.Equal(t, "100", trade.GrossAmount)
	assert.Equal(t, "92", trade.SellerNet)
	assert.Equal(t, "4", trade.RoyaltyAmount)
	assert.Equal(t, "artist", trade.RoyaltyRecipient)
	assert.Equal(t, "2", trade.StakingAmount)
	assert.Equal(t, "2", trade.FoundationAmount)
	assert.Equal(t, models.TradeStatusSettled, trade.Status)
	require.NotNil(t, trade.SettledAt)
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("12345678901234567890123456789")
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890123456789", amount.String())

	_, err = parseAmount("-1")
	assert.Error(t, err)

	_, err = parseAmount("12.5")
	assert.Error(t, err)

	_, err = parseAmount("")
	assert.Error(t, err)
}
