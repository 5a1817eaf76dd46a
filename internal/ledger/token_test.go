// internal/ledger/token_test.go
package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/marketplace-backend/internal/market"
)

const operator = market.Account("marketplace")

func newFundedLedger(t *testing.T) *TokenLedger {
	t.Helper()
	l := NewTokenLedger(operator)
	require.NoError(t, l.Mint("alice", big.NewInt(1000)))
	require.NoError(t, l.Mint("bob", big.NewInt(500)))
	return l
}

func TestMintAndTotalSupply(t *testing.T) {
	l := newFundedLedger(t)

	assert.Equal(t, int64(1000), l.BalanceOf("alice").Int64())
	assert.Equal(t, int64(500), l.BalanceOf("bob").Int64())
	assert.Equal(t, int64(1500), l.TotalSupply().Int64())
}

func TestMintRejectsNonPositive(t *testing.T) {
	l := NewTokenLedger(operator)

	assert.ErrorIs(t, l.Mint("alice", big.NewInt(0)), ErrInvalidAmount)
	assert.ErrorIs(t, l.Mint("alice", big.NewInt(-5)), ErrInvalidAmount)
	assert.ErrorIs(t, l.Mint("alice", nil), ErrInvalidAmount)
}

func TestApproveReplacesAllowance(t *testing.T) {
	l := newFundedLedger(t)

	require.NoError(t, l.Approve("alice", big.NewInt(300)))
	require.NoError(t, l.Approve("alice", big.NewInt(100)))
	assert.Equal(t, int64(100), l.Allowance("alice").Int64())
}

func TestTransferConsumesAllowance(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Approve("alice", big.NewInt(300)))

	require.NoError(t, l.Transfer("alice", "bob", big.NewInt(200)))

	assert.Equal(t, int64(800), l.BalanceOf("alice").Int64())
	assert.Equal(t, int64(700), l.BalanceOf("bob").Int64())
	assert.Equal(t, int64(100), l.Allowance("alice").Int64())
}

func TestTransferWithoutAllowance(t *testing.T) {
	l := newFundedLedger(t)

	err := l.Transfer("alice", "bob", big.NewInt(1))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)
	assert.Equal(t, int64(1000), l.BalanceOf("alice").Int64())
}

func TestOperatorBypassesAllowance(t *testing.T) {
	l := NewTokenLedger(operator)
	require.NoError(t, l.Mint(operator, big.NewInt(100)))

	require.NoError(t, l.Transfer(operator, "bob", big.NewInt(60)))
	assert.Equal(t, int64(60), l.BalanceOf("bob").Int64())
}

func TestTransferInsufficientBalance(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Approve("bob", big.NewInt(10_000)))

	err := l.Transfer("bob", "alice", big.NewInt(501))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(500), l.BalanceOf("bob").Int64())
}

func TestBatchTransferAllOrNothing(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Approve("alice", big.NewInt(2000)))

	// Third leg overdraws alice; the first two must not stick.
	err := l.BatchTransfer([]market.PaymentLeg{
		{From: "alice", To: "bob", Amount: big.NewInt(400)},
		{From: "alice", To: "carol", Amount: big.NewInt(400)},
		{From: "alice", To: "dave", Amount: big.NewInt(400)},
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	assert.Equal(t, int64(1000), l.BalanceOf("alice").Int64())
	assert.Equal(t, int64(500), l.BalanceOf("bob").Int64())
	assert.Equal(t, int64(0), l.BalanceOf("carol").Int64())
	assert.Equal(t, int64(2000), l.Allowance("alice").Int64())
}

func TestBatchTransferAllowanceSpansLegs(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Approve("alice", big.NewInt(500)))

	// Each leg fits the allowance alone but not together.
	err := l.BatchTransfer([]market.PaymentLeg{
		{From: "alice", To: "bob", Amount: big.NewInt(300)},
		{From: "alice", To: "carol", Amount: big.NewInt(300)},
	})
	require.ErrorIs(t, err, ErrInsufficientAllowance)

	assert.Equal(t, int64(1000), l.BalanceOf("alice").Int64())
	assert.Equal(t, int64(500), l.Allowance("alice").Int64())
}

func TestBatchTransferCommitsAllLegs(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Approve("alice", big.NewInt(1000)))

	require.NoError(t, l.BatchTransfer([]market.PaymentLeg{
		{From: "alice", To: "bob", Amount: big.NewInt(600)},
		{From: "alice", To: "carol", Amount: big.NewInt(300)},
	}))

	assert.Equal(t, int64(100), l.BalanceOf("alice").Int64())
	assert.Equal(t, int64(1100), l.BalanceOf("bob").Int64())
	assert.Equal(t, int64(300), l.BalanceOf("carol").Int64())
	assert.Equal(t, int64(100), l.Allowance("alice").Int64())
	assert.Equal(t, int64(1500), l.TotalSupply().Int64())
}

func TestBatchTransferZeroLegIsNoop(t *testing.T) {
	l := newFundedLedger(t)

	require.NoError(t, l.BatchTransfer([]market.PaymentLeg{
		{From: "alice", To: "bob", Amount: big.NewInt(0)},
	}))
	assert.Equal(t, int64(1000), l.BalanceOf("alice").Int64())
}

func TestBatchTransferRejectsNegativeLeg(t *testing.T) {
	l := newFundedLedger(t)

	err := l.BatchTransfer([]market.PaymentLeg{
		{From: "alice", To: "bob", Amount: big.NewInt(-1)},
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	l := newFundedLedger(t)

	l.BalanceOf("alice").SetInt64(0)
	assert.Equal(t, int64(1000), l.BalanceOf("alice").Int64())
}
