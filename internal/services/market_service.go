// internal/services/market_service.go
package services

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/marketplace-backend/internal/config"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

// MarketService fronts the in-memory order book. Settlement itself runs on
// the controller; this layer parses amounts, resolves users to ledger
// accounts, and persists a Trade row for every completed buy.
type MarketService struct {
	db         *gorm.DB
	cfg        *config.Config
	controller *market.Controller
	auth       *AuthService
}

type ListItemRequest struct {
	CollectionID string `json:"collection_id" validate:"required,uuid"`
	Kind         uint64 `json:"kind" validate:"required"`
	Quantity     uint64 `json:"quantity" validate:"required"`
	UnitPrice    string `json:"unit_price" validate:"required,amount"`
}

type UpdatePriceRequest struct {
	UnitPrice string `json:"unit_price" validate:"required,amount"`
}

type AddQuantityRequest struct {
	Quantity uint64 `json:"quantity" validate:"required"`
	Kind     uint64 `json:"kind" validate:"required"`
}

type RemoveQuantityRequest struct {
	Quantity uint64 `json:"quantity" validate:"required"`
}

type BuyRequest struct {
	Quantity uint64 `json:"quantity" validate:"required"`
}

func NewMarketService(db *gorm.DB, cfg *config.Config, controller *market.Controller, auth *AuthService) *MarketService {
	return &MarketService{
		db:         db,
		cfg:        cfg,
		controller: controller,
		auth:       auth,
	}
}

func (s *MarketService) ListItem(user *models.User, req *ListItemRequest) (*market.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	collectionID, err := uuid.Parse(req.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("invalid collection id: %w", err)
	}
	unitPrice, err := parseAmount(req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if unitPrice.Sign() == 0 {
		logrus.WithFields(logrus.Fields{
			"user":       user.Username,
			"collection": collectionID,
			"kind":       req.Kind,
		}).Warn("Listing created with zero unit price")
	}

	listing, err := s.controller.List(user.Account(), collectionID, market.Kind(req.Kind), req.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *MarketService) UpdatePrice(user *models.User, listingID uint64, req *UpdatePriceRequest) (*market.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unitPrice, err := parseAmount(req.UnitPrice)
	if err != nil {
		return nil, err
	}

	listing, err := s.controller.UpdatePrice(user.Account(), listingID, unitPrice)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *MarketService) AddQuantity(user *models.User, listingID uint64, req *AddQuantityRequest) (*market.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	listing, err := s.controller.AddQuantity(user.Account(), listingID, req.Quantity, market.Kind(req.Kind))
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// RemoveQuantity withdraws items from the listing back to the owner's
// wallet. Returns the quantity still listed; zero means the listing is gone.
func (s *MarketService) RemoveQuantity(user *models.User, listingID uint64, req *RemoveQuantityRequest) (uint64, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	return s.controller.RemoveQuantity(user.Account(), listingID, req.Quantity)
}

func (s *MarketService) GetListing(listingID uint64) (*market.Listing, error) {
	listing, err := s.controller.Get(listingID)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListListings pages the order book. The book lives in memory and keeps
// insertion order, so pagination is a slice window rather than a query.
func (s *MarketService) ListListings(params utils.PaginationParams) utils.PaginationResult {
	return utils.PaginateSlice(s.controller.ListAll(), params)
}

func (s *MarketService) FeeBps() uint32 {
	return s.controller.FeeBps()
}

// Buy settles the purchase on the controller and records the trade. Once the
// ledgers have settled, the buy is done: a failed Trade insert is logged with
// the full split so the row can be reconstructed, never surfaced as an error
// that would invite retrying an already-completed purchase.
func (s *MarketService) Buy(buyer *models.User, listingID uint64, req *BuyRequest) (*models.Trade, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	receipt, err := s.controller.Buy(buyer.Account(), listingID, req.Quantity)
	if err != nil {
		return nil, err
	}

	trade := s.recordTrade(buyer, receipt)

	logrus.WithFields(logrus.Fields{
		"trade_id":   trade.ID,
		"listing_id": receipt.Listing.ID,
		"buyer":      buyer.Username,
		"seller":     receipt.Listing.Owner,
		"quantity":   receipt.Quantity,
		"gross":      receipt.Split.Gross.String(),
	}).Info("Trade settled")

	return trade, nil
}

func (s *MarketService) recordTrade(buyer *models.User, receipt market.Receipt) *models.Trade {
	trade := tradeFromReceipt(buyer.ID, uuid.Nil, receipt)

	seller, err := s.auth.GetUserByAccount(string(receipt.Listing.Owner))
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"listing_id": receipt.Listing.ID,
			"seller":     receipt.Listing.Owner,
			"gross":      receipt.Split.Gross.String(),
		}).Error("Failed to resolve seller for trade record")
		return trade
	}
	trade.SellerID = seller.ID

	if err := s.db.Create(trade).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"listing_id": receipt.Listing.ID,
			"buyer":      buyer.Username,
			"seller":     receipt.Listing.Owner,
			"gross":      receipt.Split.Gross.String(),
			"seller_net": receipt.Split.SellerNet.String(),
			"royalty":    receipt.Split.Royalty.String(),
			"staking":    receipt.Split.Staking.String(),
			"foundation": receipt.Split.Foundation.String(),
		}).Error("Failed to persist trade record")
	}
	return trade
}

// tradeFromReceipt maps a settlement receipt onto the persisted row shape.
// Amounts become decimal strings so the numeric(78,0) columns round-trip
// without floats.
func tradeFromReceipt(buyerID, sellerID uuid.UUID, receipt market.Receipt) *models.Trade {
	now := time.Now()
	return &models.Trade{
		ListingID:        receipt.Listing.ID,
		BuyerID:          buyerID,
		SellerID:         sellerID,
		CollectionID:     receipt.Listing.Collection,
		Kind:             uint64(receipt.Listing.Kind),
		Quantity:         receipt.Quantity,
		UnitPrice:        receipt.Listing.UnitPrice.String(),
		GrossAmount:      receipt.Split.Gross.String(),
		SellerNet:        receipt.Split.SellerNet.String(),
		RoyaltyAmount:    receipt.Split.Royalty.String(),
		RoyaltyRecipient: string(receipt.Split.RoyaltyRecipient),
		StakingAmount:    receipt.Split.Staking.String(),
		FoundationAmount: receipt.Split.Foundation.String(),
		Status:           models.TradeStatusSettled,
		SettledAt:        &now,
	}
}

// ListTrades pages a user's settled trades, most recent first.
func (s *MarketService) ListTrades(userID uuid.UUID, params utils.PaginationParams) (utils.PaginationResult, error) {
	var trades []models.Trade
	var total int64

	query := s.db.Model(&models.Trade{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count trades: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "gross_amount", "listing_id"})
	if err := utils.ApplyPagination(query, params).
		Preload("Buyer").Preload("Seller").
		Find(&trades).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to list trades: %w", err)
	}

	return utils.CreatePaginationResult(trades, total, params), nil
}

// GetTrade returns one of the user's own trades. A trade the user is not a
// party to reports not-found rather than confirming the id exists.
func (s *MarketService) GetTrade(userID uuid.UUID, tradeID uuid.UUID) (*models.Trade, error) {
	var trade models.Trade
	if err := s.db.Preload("Buyer").Preload("Seller").First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("trade not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !trade.Involves(userID) {
		return nil, errors.New("trade not found")
	}
	return &trade, nil
}

// parseAmount reads a non-negative integer amount in base units.
func parseAmount(value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	return amount, nil
}
