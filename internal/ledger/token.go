// internal/ledger/token.go
package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/javajoker/marketplace-backend/internal/market"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("marketplace not authorized for amount")
	ErrInvalidAmount         = errors.New("invalid amount")
)

// TokenLedger is the platform's custodial payment-asset ledger: balances per
// account, plus allowances each account grants the marketplace operator for
// settlement debits. Conservation holds at all times:
// sum(balances) == totalSupply.
type TokenLedger struct {
	mu          sync.RWMutex
	operator    market.Account
	totalSupply *big.Int
	balances    map[market.Account]*big.Int
	allowances  map[market.Account]*big.Int
}

// NewTokenLedger creates an empty ledger. operator is the marketplace
// identity allowed to debit accounts that granted it an allowance.
func NewTokenLedger(operator market.Account) *TokenLedger {
	return &TokenLedger{
		operator:    operator,
		totalSupply: big.NewInt(0),
		balances:    make(map[market.Account]*big.Int),
		allowances:  make(map[market.Account]*big.Int),
	}
}

// Mint credits newly issued payment asset to an account. Admin surface only.
func (t *TokenLedger) Mint(to market.Account, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: mint amount must be positive", ErrInvalidAmount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	t.totalSupply.Add(t.totalSupply, amount)
	return nil
}

// Approve sets the allowance the owner grants the marketplace operator.
// Replaces any previous allowance, ERC-20 approve semantics.
func (t *TokenLedger) Approve(owner market.Account, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: negative allowance", ErrInvalidAmount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.allowances[owner] = new(big.Int).Set(amount)
	return nil
}

// Allowance reports the remaining allowance an owner has granted.
func (t *TokenLedger) Allowance(owner market.Account) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if a, ok := t.allowances[owner]; ok {
		return new(big.Int).Set(a)
	}
	return big.NewInt(0)
}

// Transfer moves amount between accounts. Debits from any account other than
// the operator consume the owner's allowance.
func (t *TokenLedger) Transfer(from, to market.Account, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apply([]market.PaymentLeg{{From: from, To: to, Amount: amount}})
}

// BatchTransfer applies every leg or none: all debits and allowances are
// validated against a scratch view before the first balance moves.
func (t *TokenLedger) BatchTransfer(legs []market.PaymentLeg) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apply(legs)
}

// BalanceOf reports an account's balance.
func (t *TokenLedger) BalanceOf(account market.Account) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

// TotalSupply reports the minted supply.
func (t *TokenLedger) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.totalSupply)
}

// apply validates all legs against scratch copies, then commits. Caller holds
// the write lock.
func (t *TokenLedger) apply(legs []market.PaymentLeg) error {
	scratchBalances := make(map[market.Account]*big.Int, len(legs))
	scratchAllowances := make(map[market.Account]*big.Int, len(legs))

	balance := func(a market.Account) *big.Int {
		if b, ok := scratchBalances[a]; ok {
			return b
		}
		b := big.NewInt(0)
		if cur, ok := t.balances[a]; ok {
			b.Set(cur)
		}
		scratchBalances[a] = b
		return b
	}
	allowance := func(a market.Account) *big.Int {
		if al, ok := scratchAllowances[a]; ok {
			return al
		}
		al := big.NewInt(0)
		if cur, ok := t.allowances[a]; ok {
			al.Set(cur)
		}
		scratchAllowances[a] = al
		return al
	}

	for _, leg := range legs {
		if leg.Amount == nil || leg.Amount.Sign() < 0 {
			return fmt.Errorf("%w: transfer %s -> %s", ErrInvalidAmount, leg.From, leg.To)
		}
		if leg.Amount.Sign() == 0 {
			continue
		}
		from := balance(leg.From)
		if from.Cmp(leg.Amount) < 0 {
			return fmt.Errorf("%w: account %s has %s, needs %s",
				ErrInsufficientBalance, leg.From, from, leg.Amount)
		}
		if leg.From != t.operator {
			al := allowance(leg.From)
			if al.Cmp(leg.Amount) < 0 {
				return fmt.Errorf("%w: account %s allowed %s, needs %s",
					ErrInsufficientAllowance, leg.From, al, leg.Amount)
			}
			al.Sub(al, leg.Amount)
		}
		from.Sub(from, leg.Amount)
		balance(leg.To).Add(balance(leg.To), leg.Amount)
	}

	for account, b := range scratchBalances {
		t.balances[account] = b
	}
	for account, al := range scratchAllowances {
		t.allowances[account] = al
	}
	return nil
}

func (t *TokenLedger) credit(to market.Account, amount *big.Int) {
	if b, ok := t.balances[to]; ok {
		b.Add(b, amount)
		return
	}
	t.balances[to] = new(big.Int).Set(amount)
}
