// internal/models/trade.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Trade is the settlement record persisted for every completed buy. Amounts
// are decimal strings: settlement math runs on arbitrary-precision integers
// and must not round-trip through floats.
type Trade struct {
	BaseModel
	ListingID        uint64      `json:"listing_id" gorm:"not null;index"`
	BuyerID          uuid.UUID   `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID         uuid.UUID   `json:"seller_id" gorm:"type:uuid;not null;index"`
	CollectionID     uuid.UUID   `json:"collection_id" gorm:"type:uuid;not null;index"`
	Kind             uint64      `json:"kind" gorm:"not null"`
	Quantity         uint64      `json:"quantity" gorm:"not null"`
	UnitPrice        string      `json:"unit_price" gorm:"type:numeric(78,0);not null"`
	GrossAmount      string      `json:"gross_amount" gorm:"type:numeric(78,0);not null"`
	SellerNet        string      `json:"seller_net" gorm:"type:numeric(78,0);not null"`
	RoyaltyAmount    string      `json:"royalty_amount" gorm:"type:numeric(78,0);not null"`
	RoyaltyRecipient string      `json:"royalty_recipient,omitempty" gorm:"size:50"`
	StakingAmount    string      `json:"staking_amount" gorm:"type:numeric(78,0);not null"`
	FoundationAmount string      `json:"foundation_amount" gorm:"type:numeric(78,0);not null"`
	Status           TradeStatus `json:"status" gorm:"type:varchar(20);default:'settled';index"`
	SettledAt        *time.Time  `json:"settled_at"`

	// Relationships
	Buyer      User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller     User       `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Collection Collection `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
}

// Involves reports whether the user is a party to the trade. Trade records
// are visible only to their buyer and seller; platform-wide access goes
// through the admin surface.
func (t *Trade) Involves(userID uuid.UUID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}
