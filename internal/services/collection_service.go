// internal/services/collection_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/marketplace-backend/internal/ledger"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

// accountResolver maps a ledger account name back to its user row. Satisfied
// by AuthService.
type accountResolver interface {
	GetUserByAccount(account string) (*models.User, error)
}

// CollectionService manages the item catalog: collection rows in PostgreSQL,
// kind registration and minting on the item ledger, and media in S3.
type CollectionService struct {
	db       *gorm.DB
	items    *ledger.ItemLedger
	storage  *StorageService
	accounts accountResolver
}

type CreateCollectionRequest struct {
	Name        string                 `json:"name" validate:"required,max=255"`
	Symbol      string                 `json:"symbol" validate:"required,max=20"`
	Description string                 `json:"description,omitempty"`
	Category    string                 `json:"category,omitempty" validate:"max=100"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type MintKindRequest struct {
	Name             string                 `json:"name" validate:"required,max=255"`
	Quantity         uint64                 `json:"quantity" validate:"required"`
	RoyaltyBps       uint32                 `json:"royalty_bps"`
	RoyaltyRecipient string                 `json:"royalty_recipient,omitempty"`
	MediaURL         string                 `json:"media_url,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

func NewCollectionService(db *gorm.DB, items *ledger.ItemLedger, storage *StorageService, accounts accountResolver) *CollectionService {
	return &CollectionService{
		db:       db,
		items:    items,
		storage:  storage,
		accounts: accounts,
	}
}

func (s *CollectionService) CreateCollection(creator *models.User, req *CreateCollectionRequest) (*models.Collection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	collection := &models.Collection{
		CreatorID:   creator.ID,
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Metadata:    models.JSONB(req.Metadata),
		Status:      models.CollectionStatusActive,
	}

	if err := s.db.Create(collection).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	// The ledger keys kinds by collection id, so register as soon as the row
	// exists.
	s.items.RegisterCollection(collection.ID)

	logrus.WithFields(logrus.Fields{
		"collection_id": collection.ID,
		"creator":       creator.Username,
		"name":          collection.Name,
	}).Info("Collection created")

	return collection, nil
}

// MintKind issues a new fungible item kind into the collection. Only the
// collection's creator may mint; the royalty policy is fixed at mint and the
// recipient defaults to the creator.
func (s *CollectionService) MintKind(creator *models.User, collectionID uuid.UUID, req *MintKindRequest) (*models.ItemKind, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	collection, err := s.GetCollection(collectionID)
	if err != nil {
		return nil, err
	}
	if collection.CreatorID != creator.ID {
		return nil, errors.New("only the collection creator can mint")
	}

	royaltyRecipient, err := resolveRoyaltyRecipient(creator, req, s.accounts)
	if err != nil {
		return nil, err
	}

	kind, err := s.items.Mint(
		collection.ID,
		creator.Account(),
		req.Quantity,
		market.Account(royaltyRecipient),
		req.RoyaltyBps,
	)
	if err != nil {
		return nil, err
	}

	itemKind := &models.ItemKind{
		CollectionID:     collection.ID,
		Kind:             uint64(kind),
		Name:             req.Name,
		MintedSupply:     req.Quantity,
		RoyaltyBps:       req.RoyaltyBps,
		RoyaltyRecipient: royaltyRecipient,
		MediaURL:         req.MediaURL,
		Metadata:         models.JSONB(req.Metadata),
	}

	if err := s.db.Create(itemKind).Error; err != nil {
		// The mint on the ledger stands; the catalog row is display metadata
		// and can be re-created by an admin.
		logrus.WithError(err).WithFields(logrus.Fields{
			"collection_id": collection.ID,
			"kind":          kind,
		}).Error("Failed to persist item kind catalog row")
		return nil, fmt.Errorf("failed to create item kind: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"collection_id": collection.ID,
		"kind":          kind,
		"quantity":      req.Quantity,
		"royalty_bps":   req.RoyaltyBps,
	}).Info("Item kind minted")

	return itemKind, nil
}

// resolveRoyaltyRecipient settles who royalties accrue to. No royalty means
// no recipient; an omitted recipient defaults to the creator; anyone else
// must resolve to a registered user, or the royalty leg would pay an account
// nobody can ever access.
func resolveRoyaltyRecipient(creator *models.User, req *MintKindRequest, accounts accountResolver) (string, error) {
	if req.RoyaltyBps == 0 {
		return "", nil
	}
	if req.RoyaltyRecipient == "" || req.RoyaltyRecipient == creator.Username {
		return creator.Username, nil
	}
	if _, err := accounts.GetUserByAccount(req.RoyaltyRecipient); err != nil {
		return "", fmt.Errorf("royalty recipient %q is not a registered user", req.RoyaltyRecipient)
	}
	return req.RoyaltyRecipient, nil
}

func (s *CollectionService) GetCollection(collectionID uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	if err := s.db.Preload("Kinds").First(&collection, collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("collection not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &collection, nil
}

func (s *CollectionService) ListCollections(params utils.PaginationParams) (utils.PaginationResult, error) {
	var collections []models.Collection
	var total int64

	query := s.db.Model(&models.Collection{}).Where("status = ?", models.CollectionStatusActive)
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ? OR description ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count collections: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "category"})
	if err := utils.ApplyPagination(query, params).Preload("Kinds").Find(&collections).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to list collections: %w", err)
	}

	return utils.CreatePaginationResult(collections, total, params), nil
}

// UploadMedia stores a media file for the collection and appends its URL.
func (s *CollectionService) UploadMedia(creator *models.User, collectionID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	collection, err := s.GetCollection(collectionID)
	if err != nil {
		return nil, err
	}
	if collection.CreatorID != creator.ID {
		return nil, errors.New("only the collection creator can upload media")
	}

	result, err := s.storage.UploadFile(file, header, s.storage.GetDefaultUploadOptions("collections"))
	if err != nil {
		return nil, fmt.Errorf("failed to upload media: %w", err)
	}

	collection.MediaURLs = append(collection.MediaURLs, result.URL)
	if err := s.db.Save(collection).Error; err != nil {
		return nil, fmt.Errorf("failed to save collection media: %w", err)
	}

	return result, nil
}
