// internal/ledger/items_test.go
package ledger

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/marketplace-backend/internal/market"
)

func newItemLedger(t *testing.T) (*ItemLedger, uuid.UUID) {
	t.Helper()
	l := NewItemLedger(operator, 1000)
	col := uuid.New()
	l.RegisterCollection(col)
	return l, col
}

func TestMintAssignsSequentialKinds(t *testing.T) {
	l, col := newItemLedger(t)

	k1, err := l.Mint(col, "alice", 10, "", 0)
	require.NoError(t, err)
	k2, err := l.Mint(col, "alice", 5, "", 0)
	require.NoError(t, err)

	assert.Equal(t, market.Kind(1), k1)
	assert.Equal(t, market.Kind(2), k2)

	qty, err := l.BalanceOf("alice", col, k1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), qty)

	supply, err := l.Supply(col, k2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), supply)
}

func TestMintUnknownCollection(t *testing.T) {
	l, _ := newItemLedger(t)

	_, err := l.Mint(uuid.New(), "alice", 1, "", 0)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestMintRejectsRoyaltyOverCap(t *testing.T) {
	l, col := newItemLedger(t)

	_, err := l.Mint(col, "alice", 1, "artist", 1001)
	assert.ErrorIs(t, err, ErrRoyaltyOverCap)
}

func TestMintRejectsZeroQuantity(t *testing.T) {
	l, col := newItemLedger(t)

	_, err := l.Mint(col, "alice", 0, "", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransferRequiresApproval(t *testing.T) {
	l, col := newItemLedger(t)
	kind, err := l.Mint(col, "alice", 10, "", 0)
	require.NoError(t, err)

	err = l.TransferBatch("alice", operator, col, kind, 4)
	assert.ErrorIs(t, err, ErrNotApproved)

	l.SetApprovalForAll("alice", true)
	require.NoError(t, l.TransferBatch("alice", operator, col, kind, 4))

	qty, err := l.BalanceOf("alice", col, kind)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), qty)
	qty, err = l.BalanceOf(operator, col, kind)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), qty)
}

func TestOperatorTransfersWithoutApproval(t *testing.T) {
	l, col := newItemLedger(t)
	kind, err := l.Mint(col, operator, 10, "", 0)
	require.NoError(t, err)

	require.NoError(t, l.TransferBatch(operator, "bob", col, kind, 3))

	qty, err := l.BalanceOf("bob", col, kind)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), qty)
}

func TestTransferInsufficientItems(t *testing.T) {
	l, col := newItemLedger(t)
	kind, err := l.Mint(col, "alice", 2, "", 0)
	require.NoError(t, err)
	l.SetApprovalForAll("alice", true)

	err = l.TransferBatch("alice", "bob", col, kind, 3)
	assert.ErrorIs(t, err, ErrInsufficientItems)

	qty, err := l.BalanceOf("alice", col, kind)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), qty)
}

func TestTransferUnknownKind(t *testing.T) {
	l, col := newItemLedger(t)
	l.SetApprovalForAll("alice", true)

	err := l.TransferBatch("alice", "bob", col, 7, 1)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestApprovalRevocation(t *testing.T) {
	l, col := newItemLedger(t)
	kind, err := l.Mint(col, "alice", 10, "", 0)
	require.NoError(t, err)

	l.SetApprovalForAll("alice", true)
	assert.True(t, l.IsApprovedForAll("alice"))
	l.SetApprovalForAll("alice", false)
	assert.False(t, l.IsApprovedForAll("alice"))

	err = l.TransferBatch("alice", "bob", col, kind, 1)
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestRoyaltyResolution(t *testing.T) {
	l, col := newItemLedger(t)
	kind, err := l.Mint(col, "alice", 1, "artist", 400)
	require.NoError(t, err)

	info, ok, err := l.Royalty(col, kind, big.NewInt(100))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, market.Account("artist"), info.Recipient)
	assert.Equal(t, int64(4), info.Amount.Int64())

	// floor(99 * 400 / 10000) == 3
	info, _, err = l.Royalty(col, kind, big.NewInt(99))
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Amount.Int64())
}

func TestRoyaltyAbsentForPlainKind(t *testing.T) {
	l, col := newItemLedger(t)
	kind, err := l.Mint(col, "alice", 1, "", 0)
	require.NoError(t, err)

	_, ok, err := l.Royalty(col, kind, big.NewInt(100))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoyaltyUnknownKind(t *testing.T) {
	l, col := newItemLedger(t)

	_, _, err := l.Royalty(col, 9, big.NewInt(100))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
