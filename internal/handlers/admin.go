// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/marketplace-backend/internal/i18n"
	"github.com/javajoker/marketplace-backend/internal/services"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

type AdminHandler struct {
	adminService  *services.AdminService
	ledgerService *services.LedgerService
	authService   *services.AuthService
}

func NewAdminHandler(adminService *services.AdminService, ledgerService *services.LedgerService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		ledgerService: ledgerService,
		authService:   authService,
	}
}

// GET /admin/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /admin/trades
func (h *AdminHandler) ListAllTrades(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.adminService.ListAllTrades(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, result)
}

// GET /admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.adminService.ListAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, result)
}

// POST /admin/faucet
func (h *AdminHandler) Faucet(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.FaucetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.ledgerService.Faucet(&req); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWalletMinted),
	})
}

// POST /admin/users/:id/suspend
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	h.setUserStatus(c, h.adminService.SuspendUser, i18n.KeyAdminUserSuspended)
}

// POST /admin/users/:id/unsuspend
func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	h.setUserStatus(c, h.adminService.UnsuspendUser, i18n.KeyAdminUserUnsuspended)
}

func (h *AdminHandler) setUserStatus(c *gin.Context, action func(uuid.UUID, uuid.UUID) error, messageKey string) {
	lang := utils.GetLangFromContext(c)

	admin, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := action(userID, admin.ID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
	})
}
