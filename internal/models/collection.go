// internal/models/collection.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Collection struct {
	BaseModel
	CreatorID   uuid.UUID        `json:"creator_id" gorm:"type:uuid;not null;index"`
	Name        string           `json:"name" gorm:"size:255;not null"`
	Symbol      string           `json:"symbol" gorm:"size:20;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Category    string           `json:"category" gorm:"size:100;index"`
	MediaURLs   pq.StringArray   `json:"media_urls" gorm:"type:text[]"`
	Tags        pq.StringArray   `json:"tags" gorm:"type:text[]"`
	Metadata    JSONB            `json:"metadata" gorm:"type:jsonb"`
	Status      CollectionStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Creator User       `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Kinds   []ItemKind `json:"kinds,omitempty" gorm:"foreignKey:CollectionID"`
}

// ItemKind is the catalog row for one fungible item kind minted into a
// collection. The authoritative balances live on the item ledger; this row
// records the mint parameters for listing and display.
type ItemKind struct {
	BaseModel
	CollectionID     uuid.UUID `json:"collection_id" gorm:"type:uuid;not null;uniqueIndex:idx_collection_kind"`
	Kind             uint64    `json:"kind" gorm:"not null;uniqueIndex:idx_collection_kind"`
	Name             string    `json:"name" gorm:"size:255;not null"`
	MintedSupply     uint64    `json:"minted_supply" gorm:"not null"`
	RoyaltyBps       uint32    `json:"royalty_bps" gorm:"default:0"`
	RoyaltyRecipient string    `json:"royalty_recipient,omitempty" gorm:"size:50"`
	MediaURL         string    `json:"media_url,omitempty" gorm:"size:1024"`
	Metadata         JSONB     `json:"metadata" gorm:"type:jsonb"`

	// Relationships
	Collection Collection `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
}
