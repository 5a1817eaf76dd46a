// internal/handlers/market.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/marketplace-backend/internal/i18n"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
	"github.com/javajoker/marketplace-backend/internal/services"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

type MarketHandler struct {
	marketService *services.MarketService
	authService   *services.AuthService
}

func NewMarketHandler(marketService *services.MarketService, authService *services.AuthService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		authService:   authService,
	}
}

// currentUser loads the authenticated user's row; AuthRequired has already
// put the id in the context.
func currentUser(c *gin.Context, authService *services.AuthService) (*models.User, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return nil, false
	}
	user, err := authService.GetUserByID(userID)
	if err != nil {
		utils.NotFoundResponse(c, "user")
		return nil, false
	}
	return user, true
}

func listingIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return 0, false
	}
	return id, true
}

// marketErrorResponse maps controller errors onto HTTP statuses.
func marketErrorResponse(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, market.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyListingNotFound), nil)
	case errors.Is(err, market.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", i18n.T(lang, i18n.KeyListingNotOwner), nil)
	case errors.Is(err, market.ErrKindMismatch):
		utils.ErrorResponse(c, http.StatusConflict, "KIND_MISMATCH", i18n.T(lang, i18n.KeyListingKindMismatch), err.Error())
	case errors.Is(err, market.ErrInvalidQuantity):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_QUANTITY", i18n.T(lang, i18n.KeyListingInvalidQuantity), err.Error())
	case errors.Is(err, market.ErrExternalTransfer):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "TRANSFER_DENIED", i18n.T(lang, i18n.KeyTradeTransferDenied), err.Error())
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}

// GET /listings
func (h *MarketHandler) ListListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	utils.PaginatedResponse(c, h.marketService.ListListings(params))
}

// GET /listings/:id
func (h *MarketHandler) GetListing(c *gin.Context) {
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	listing, err := h.marketService.GetListing(id)
	if err != nil {
		marketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"listing": listing})
}

// POST /listings
func (h *MarketHandler) CreateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req services.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	listing, err := h.marketService.ListItem(user, &req)
	if err != nil {
		marketErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCreated),
		"listing": listing,
	})
}

// PUT /listings/:id/price
func (h *MarketHandler) UpdatePrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	var req services.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	listing, err := h.marketService.UpdatePrice(user, id, &req)
	if err != nil {
		marketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingUpdated),
		"listing": listing,
	})
}

// POST /listings/:id/quantity
func (h *MarketHandler) AddQuantity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	var req services.AddQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	listing, err := h.marketService.AddQuantity(user, id, &req)
	if err != nil {
		marketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingUpdated),
		"listing": listing,
	})
}

// DELETE /listings/:id/quantity
func (h *MarketHandler) RemoveQuantity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	var req services.RemoveQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	remaining, err := h.marketService.RemoveQuantity(user, id, &req)
	if err != nil {
		marketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyListingRemoved),
		"remaining": remaining,
	})
}

// POST /listings/:id/buy
func (h *MarketHandler) Buy(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	var req services.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	trade, err := h.marketService.Buy(user, id, &req)
	if err != nil {
		marketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyTradeSettled),
		"trade":   trade,
	})
}

// GET /trades
func (h *MarketHandler) ListTrades(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.marketService.ListTrades(user.ID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, result)
}

// GET /trades/:id
func (h *MarketHandler) GetTrade(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trade ID", nil)
		return
	}

	trade, err := h.marketService.GetTrade(user.ID, tradeID)
	if err != nil {
		utils.NotFoundResponse(c, "trade")
		return
	}

	utils.SuccessResponse(c, gin.H{"trade": trade})
}

// GET /market/config
func (h *MarketHandler) GetMarketConfig(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"fee_bps": h.marketService.FeeBps(),
	})
}
