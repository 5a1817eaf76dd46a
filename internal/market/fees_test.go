// internal/market/fees_test.go
package market

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSplitSimpleSale(t *testing.T) {
	// 4% platform fee, no royalty: 100 -> seller 96, staking 2, foundation 2.
	split, err := ComputeSplit(big.NewInt(100), 400, nil, "")
	require.NoError(t, err)

	assert.Equal(t, int64(96), split.SellerNet.Int64())
	assert.Equal(t, int64(4), split.PlatformFee.Int64())
	assert.Equal(t, int64(2), split.Staking.Int64())
	assert.Equal(t, int64(2), split.Foundation.Int64())
	assert.Equal(t, int64(0), split.Royalty.Int64())
	assert.False(t, split.HasRoyalty())
}

func TestComputeSplitWithRoyalty(t *testing.T) {
	// 4% platform fee plus a 4% royalty: 100 -> royalty 4, seller 92, 2/2.
	royalty := RateShare(big.NewInt(100), 400)
	split, err := ComputeSplit(big.NewInt(100), 400, royalty, "artist")
	require.NoError(t, err)

	assert.Equal(t, int64(4), split.Royalty.Int64())
	assert.Equal(t, Account("artist"), split.RoyaltyRecipient)
	assert.Equal(t, int64(92), split.SellerNet.Int64())
	assert.Equal(t, int64(2), split.Staking.Int64())
	assert.Equal(t, int64(2), split.Foundation.Int64())
	assert.True(t, split.HasRoyalty())
}

func TestComputeSplitConservation(t *testing.T) {
	// Rounding must never create or lose a unit of value, including odd
	// gross amounts and odd platform fees.
	rates := []uint32{0, 1, 25, 250, 400, 999, 5000, 9999}
	royaltyRates := []uint32{0, 1, 400, 777}

	for _, feeBps := range rates {
		for _, royaltyBps := range royaltyRates {
			if feeBps+royaltyBps >= BpsDenominator {
				continue
			}
			for gross := int64(0); gross < 2000; gross += 7 {
				g := big.NewInt(gross)
				royalty := RateShare(g, royaltyBps)
				recipient := Account("")
				if royaltyBps > 0 {
					recipient = "artist"
				}
				split, err := ComputeSplit(g, feeBps, royalty, recipient)
				require.NoError(t, err)

				sum := new(big.Int).Add(split.Royalty, split.PlatformFee)
				sum.Add(sum, split.SellerNet)
				require.Zero(t, sum.Cmp(g),
					"gross=%d fee=%d royalty=%d: split does not sum to gross", gross, feeBps, royaltyBps)

				fee := new(big.Int).Add(split.Staking, split.Foundation)
				require.Zero(t, fee.Cmp(split.PlatformFee),
					"gross=%d fee=%d: staking+foundation != platform fee", gross, feeBps)
			}
		}
	}
}

func TestComputeSplitOddFeeTieBreak(t *testing.T) {
	// Odd platform fee: foundation takes the extra unit, staking floors.
	split, err := ComputeSplit(big.NewInt(175), 400, nil, "")
	require.NoError(t, err)

	assert.Equal(t, int64(7), split.PlatformFee.Int64())
	assert.Equal(t, int64(3), split.Staking.Int64())
	assert.Equal(t, int64(4), split.Foundation.Int64())
}

func TestComputeSplitZeroGross(t *testing.T) {
	split, err := ComputeSplit(big.NewInt(0), 400, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), split.SellerNet.Int64())
	assert.Equal(t, int64(0), split.PlatformFee.Int64())
}

func TestComputeSplitRejectsExcessiveRoyalty(t *testing.T) {
	_, err := ComputeSplit(big.NewInt(100), 400, big.NewInt(99), "artist")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestComputeSplitRejectsFeeAtHundredPercent(t *testing.T) {
	_, err := ComputeSplit(big.NewInt(100), BpsDenominator, nil, "")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestValidateFeeBps(t *testing.T) {
	assert.NoError(t, ValidateFeeBps(400, 1000))
	assert.ErrorIs(t, ValidateFeeBps(10_000, 0), ErrConfiguration)
	assert.ErrorIs(t, ValidateFeeBps(400, 9600), ErrConfiguration)
}

func TestRateShareFloors(t *testing.T) {
	// floor(99 * 400 / 10000) == 3
	assert.Equal(t, int64(3), RateShare(big.NewInt(99), 400).Int64())
	assert.Equal(t, int64(0), RateShare(big.NewInt(24), 400).Int64())
}
