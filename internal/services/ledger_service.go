// internal/services/ledger_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/marketplace-backend/internal/ledger"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

// LedgerService is the wallet surface over the two in-process ledgers:
// payment balance and allowance on one side, item holdings and operator
// approval on the other.
type LedgerService struct {
	payments *ledger.TokenLedger
	items    *ledger.ItemLedger
}

type WalletSummary struct {
	Account          string `json:"account"`
	Balance          string `json:"balance"`
	Allowance        string `json:"allowance"`
	OperatorApproved bool   `json:"operator_approved"`
}

type ApproveRequest struct {
	Amount string `json:"amount" validate:"required,amount"`
}

type OperatorApprovalRequest struct {
	Approved bool `json:"approved"`
}

type FaucetRequest struct {
	Account string `json:"account" validate:"required,username"`
	Amount  string `json:"amount" validate:"required,amount"`
}

type ItemHolding struct {
	CollectionID uuid.UUID `json:"collection_id"`
	Kind         uint64    `json:"kind"`
	Quantity     uint64    `json:"quantity"`
}

func NewLedgerService(payments *ledger.TokenLedger, items *ledger.ItemLedger) *LedgerService {
	return &LedgerService{
		payments: payments,
		items:    items,
	}
}

func (s *LedgerService) Wallet(user *models.User) *WalletSummary {
	account := user.Account()
	return &WalletSummary{
		Account:          string(account),
		Balance:          s.payments.BalanceOf(account).String(),
		Allowance:        s.payments.Allowance(account).String(),
		OperatorApproved: s.items.IsApprovedForAll(account),
	}
}

// Approve sets the allowance the user grants the marketplace for settlement
// debits. Replaces the previous allowance.
func (s *LedgerService) Approve(user *models.User, req *ApproveRequest) (*WalletSummary, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Approve(user.Account(), amount); err != nil {
		return nil, err
	}
	return s.Wallet(user), nil
}

// SetOperatorApproval grants or revokes the marketplace's right to move the
// user's items into custody.
func (s *LedgerService) SetOperatorApproval(user *models.User, req *OperatorApprovalRequest) *WalletSummary {
	s.items.SetApprovalForAll(user.Account(), req.Approved)
	return s.Wallet(user)
}

// ItemBalance reports the user's holdings of one item kind.
func (s *LedgerService) ItemBalance(user *models.User, collectionID uuid.UUID, kind uint64) (*ItemHolding, error) {
	quantity, err := s.items.BalanceOf(user.Account(), collectionID, market.Kind(kind))
	if err != nil {
		return nil, err
	}
	return &ItemHolding{
		CollectionID: collectionID,
		Kind:         kind,
		Quantity:     quantity,
	}, nil
}

// Faucet credits payment asset to an account. Admin surface only; the router
// guards it behind AdminRequired.
func (s *LedgerService) Faucet(req *FaucetRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	if err := s.payments.Mint(market.Account(req.Account), amount); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"account": req.Account,
		"amount":  req.Amount,
	}).Info("Faucet credit issued")
	return nil
}

// TotalSupply reports the minted payment asset supply.
func (s *LedgerService) TotalSupply() string {
	return s.payments.TotalSupply().String()
}
