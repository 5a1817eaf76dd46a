// internal/handlers/wallet.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/marketplace-backend/internal/i18n"
	"github.com/javajoker/marketplace-backend/internal/services"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

type WalletHandler struct {
	ledgerService *services.LedgerService
	authService   *services.AuthService
}

func NewWalletHandler(ledgerService *services.LedgerService, authService *services.AuthService) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
		authService:   authService,
	}
}

// GET /wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{"wallet": h.ledgerService.Wallet(user)})
}

// POST /wallet/approve
func (h *WalletHandler) Approve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req services.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	wallet, err := h.ledgerService.Approve(user, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWalletApproved),
		"wallet":  wallet,
	})
}

// POST /wallet/operator
func (h *WalletHandler) SetOperatorApproval(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req services.OperatorApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWalletApproved),
		"wallet":  h.ledgerService.SetOperatorApproval(user, &req),
	})
}

// GET /wallet/items/:collection_id/:kind
func (h *WalletHandler) GetItemBalance(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	collectionID, err := uuid.Parse(c.Param("collection_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid collection ID", nil)
		return
	}
	kind, err := strconv.ParseUint(c.Param("kind"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item kind", nil)
		return
	}

	holding, err := h.ledgerService.ItemBalance(user, collectionID, kind)
	if err != nil {
		utils.NotFoundResponse(c, "collection")
		return
	}

	utils.SuccessResponse(c, gin.H{"holding": holding})
}
