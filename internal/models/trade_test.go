// internal/models/trade_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTradeInvolvesPartiesOnly(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	strangerID := uuid.New()

	trade := &Trade{
		BuyerID:  buyerID,
		SellerID: sellerID,
	}

	assert.True(t, trade.Involves(buyerID))
	assert.True(t, trade.Involves(sellerID))
	assert.False(t, trade.Involves(strangerID))
	assert.False(t, trade.Involves(uuid.Nil))
}
