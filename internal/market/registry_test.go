// internal/market/registry_test.go
package market

import (
	"math"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, uuid.UUID) {
	t.Helper()
	return NewRegistry(), uuid.New()
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	r, col := newTestRegistry(t)

	id1, err := r.Create("seller", col, 1, 5, big.NewInt(100))
	require.NoError(t, err)
	id2, err := r.Create("seller", col, 2, 3, big.NewInt(50))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	r, col := newTestRegistry(t)

	_, err := r.Create("seller", col, 1, 0, big.NewInt(100))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Zero(t, r.Len())
}

func TestGetUnknownID(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletedIDsAreNeverReused(t *testing.T) {
	r, col := newTestRegistry(t)

	id1, err := r.Create("seller", col, 1, 2, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, r.DecreaseQuantity(id1, 2))

	_, err = r.Get(id1)
	assert.ErrorIs(t, err, ErrNotFound)

	id2, err := r.Create("seller", col, 1, 2, big.NewInt(10))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)
}

func TestIncreaseQuantity(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 7, 25, big.NewInt(75))
	require.NoError(t, err)

	require.NoError(t, r.IncreaseQuantity(id, "seller", 5, 7))

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), l.Quantity)
}

func TestIncreaseQuantityKindMismatch(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 2, 25, big.NewInt(75))
	require.NoError(t, err)

	err = r.IncreaseQuantity(id, "seller", 5, 1)
	assert.ErrorIs(t, err, ErrKindMismatch)

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), l.Quantity)
}

func TestIncreaseQuantityUnauthorized(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 2, 25, big.NewInt(75))
	require.NoError(t, err)

	err = r.IncreaseQuantity(id, "intruder", 5, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), l.Quantity)
}

func TestIncreaseQuantityOverflow(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 1, math.MaxUint64-2, big.NewInt(75))
	require.NoError(t, err)

	err = r.IncreaseQuantity(id, "seller", 3, 1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-2), l.Quantity)

	require.NoError(t, r.IncreaseQuantity(id, "seller", 2, 1))
	l, err = r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), l.Quantity)
}

func TestDecreaseQuantityPartial(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 1, 45, big.NewInt(25))
	require.NoError(t, err)

	require.NoError(t, r.DecreaseQuantity(id, 10))

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), l.Quantity)
	assert.Equal(t, 1, r.Len())
}

func TestDecreaseQuantityBeyondAvailable(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 1, 5, big.NewInt(25))
	require.NoError(t, err)

	err = r.DecreaseQuantity(id, 6)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), l.Quantity)
}

func TestUpdatePrice(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 1, 5, big.NewInt(75))
	require.NoError(t, err)

	require.NoError(t, r.UpdatePrice(id, "seller", big.NewInt(150)))

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(150), l.UnitPrice.Int64())
}

func TestUpdatePriceUnauthorized(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 1, 5, big.NewInt(75))
	require.NoError(t, err)

	err = r.UpdatePrice(id, "intruder", big.NewInt(150))
	assert.ErrorIs(t, err, ErrUnauthorized)

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(75), l.UnitPrice.Int64())
}

func TestListAllInsertionOrder(t *testing.T) {
	r, col := newTestRegistry(t)

	for i := uint64(1); i <= 4; i++ {
		_, err := r.Create("seller", col, Kind(i), i, big.NewInt(int64(i*10)))
		require.NoError(t, err)
	}

	all := r.ListAll()
	require.Len(t, all, 4)
	for i, l := range all {
		assert.Equal(t, uint64(i+1), l.ID)
	}
}

func TestRemoveCompactsEnumeration(t *testing.T) {
	// Deleting an interior listing shifts later entries down but preserves
	// the survivors' relative order.
	r, col := newTestRegistry(t)

	for i := 0; i < 5; i++ {
		_, err := r.Create("seller", col, 1, 10, big.NewInt(10))
		require.NoError(t, err)
	}

	require.NoError(t, r.DecreaseQuantity(3, 10))

	all := r.ListAll()
	require.Len(t, all, 4)
	ids := []uint64{all[0].ID, all[1].ID, all[2].ID, all[3].ID}
	assert.Equal(t, []uint64{1, 2, 4, 5}, ids)
}

func TestListAllReturnsCopies(t *testing.T) {
	r, col := newTestRegistry(t)

	id, err := r.Create("seller", col, 1, 5, big.NewInt(100))
	require.NoError(t, err)

	all := r.ListAll()
	all[0].Quantity = 999
	all[0].UnitPrice.SetInt64(1)

	l, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), l.Quantity)
	assert.Equal(t, int64(100), l.UnitPrice.Int64())
}
