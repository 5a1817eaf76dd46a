// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/marketplace-backend/internal/config"
	"github.com/javajoker/marketplace-backend/internal/ledger"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

type AdminService struct {
	db       *gorm.DB
	cfg      *config.Config
	payments *ledger.TokenLedger
}

// DashboardStats is the admin overview: row counts from PostgreSQL plus live
// balances from the payment ledger.
type DashboardStats struct {
	TotalUsers        int64  `json:"total_users"`
	TotalCollections  int64  `json:"total_collections"`
	TotalTrades       int64  `json:"total_trades"`
	TokenSupply       string `json:"token_supply"`
	StakingBalance    string `json:"staking_balance"`
	FoundationBalance string `json:"foundation_balance"`
}

func NewAdminService(db *gorm.DB, cfg *config.Config, payments *ledger.TokenLedger) *AdminService {
	return &AdminService{
		db:       db,
		cfg:      cfg,
		payments: payments,
	}
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.Collection{}).Count(&stats.TotalCollections).Error; err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}
	if err := s.db.Model(&models.Trade{}).Count(&stats.TotalTrades).Error; err != nil {
		return nil, fmt.Errorf("failed to count trades: %w", err)
	}

	stats.TokenSupply = s.payments.TotalSupply().String()
	stats.StakingBalance = s.payments.BalanceOf(market.Account(s.cfg.Market.StakingPoolAccount)).String()
	stats.FoundationBalance = s.payments.BalanceOf(market.Account(s.cfg.Market.FoundationAccount)).String()

	return stats, nil
}

// ListAllTrades pages every settled trade on the platform.
func (s *AdminService) ListAllTrades(params utils.PaginationParams) (utils.PaginationResult, error) {
	var trades []models.Trade
	var total int64

	query := s.db.Model(&models.Trade{})
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

func (s *AdminService) SuspendUser(userID uuid.UUID, adminID uuid.UUID) error {
	return s.setUserStatus(userID, adminID, models.UserStatusSuspended, "user_suspended")
}

func (s *AdminService) UnsuspendUser(userID uuid.UUID, adminID uuid.UUID) error {
	return s.setUserStatus(userID, adminID, models.UserStatusActive, "user_unsuspended")
}

func (s *AdminService) setUserStatus(userID, adminID uuid.UUID, status models.UserStatus, action string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.UserType == models.UserTypeAdmin {
		return errors.New("cannot change status of an admin account")
	}

	oldStatus := user.Status
	user.Status = status
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       action,
		ResourceType: "users",
		ResourceID:   userID.String(),
		OldValues:    models.JSONB{"status": string(oldStatus)},
		NewValues:    models.JSONB{"status": string(status)},
	}
	if err := s.db.Create(audit).Error; err != nil {
		logrus.WithError(err).Error("Failed to create audit log")
	}

	return nil
}

// ListAuditLogs pages the audit trail, most recent first.
func (s *AdminService) ListAuditLogs(params utils.PaginationParams) (utils.PaginationResult, error) {
	var logs []models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if params.Search != "" {
		query = query.Where("action ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "action"})
	if err := utils.ApplyPagination(query, params).Preload("User").Find(&logs).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return utils.CreatePaginationResult(logs, total, params), nil
}
