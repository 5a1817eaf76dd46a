// internal/market/controller_test.go
package market_test

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/marketplace-backend/internal/ledger"
	"github.com/javajoker/marketplace-backend/internal/market"
)

const (
	custody    = market.Account("marketplace")
	staking    = market.Account("staking_pool")
	foundation = market.Account("foundation")
	seller     = market.Account("seller")
	buyer      = market.Account("buyer")
	artist     = market.Account("artist")
	intruder   = market.Account("intruder")
)

type ControllerTestSuite struct {
	suite.Suite
	payments   *ledger.TokenLedger
	items      *ledger.ItemLedger
	controller *market.Controller
	collection uuid.UUID
}

func (s *ControllerTestSuite) SetupTest() {
	s.payments = ledger.NewTokenLedger(custody)
	s.items = ledger.NewItemLedger(custody, 1000)
	s.collection = uuid.New()
	s.items.RegisterCollection(s.collection)

	var err error
	s.controller, err = market.NewController(market.Config{
		PlatformFeeBps: 400,
		RoyaltyCapBps:  1000,
		Custody:        custody,
		StakingPool:    staking,
		Foundation:     foundation,
	}, s.payments, s.items)
	s.Require().NoError(err)

	// Fund the buyer and authorize the marketplace on both ledgers.
	s.Require().NoError(s.payments.Mint(buyer, big.NewInt(2000)))
	s.Require().NoError(s.payments.Approve(buyer, big.NewInt(2000)))
	s.items.SetApprovalForAll(seller, true)
}

// mint issues quantity of a fresh kind to the seller.
func (s *ControllerTestSuite) mint(quantity uint64, royaltyBps uint32) market.Kind {
	recipient := market.Account("")
	if royaltyBps > 0 {
		recipient = artist
	}
	kind, err := s.items.Mint(s.collection, seller, quantity, recipient, royaltyBps)
	s.Require().NoError(err)
	return kind
}

func (s *ControllerTestSuite) itemBalance(owner market.Account, kind market.Kind) uint64 {
	qty, err := s.items.BalanceOf(owner, s.collection, kind)
	s.Require().NoError(err)
	return qty
}

func (s *ControllerTestSuite) TestListMovesItemsToCustody() {
	kind := s.mint(10, 0)

	l, err := s.controller.List(seller, s.collection, kind, 10, big.NewInt(500))
	s.Require().NoError(err)

	s.Equal(uint64(1), l.ID)
	s.Equal(uint64(10), l.Quantity)
	s.Equal(seller, l.Owner)
	s.Equal(uint64(0), s.itemBalance(seller, kind))
	s.Equal(uint64(10), s.itemBalance(custody, kind))
}

func (s *ControllerTestSuite) TestListWithoutApprovalFails() {
	kind := s.mint(10, 0)
	s.items.SetApprovalForAll(seller, false)

	_, err := s.controller.List(seller, s.collection, kind, 10, big.NewInt(500))
	s.Require().ErrorIs(err, market.ErrExternalTransfer)

	s.Empty(s.controller.ListAll())
	s.Equal(uint64(10), s.itemBalance(seller, kind))
}

func (s *ControllerTestSuite) TestListZeroQuantityFails() {
	kind := s.mint(10, 0)

	_, err := s.controller.List(seller, s.collection, kind, 0, big.NewInt(500))
	s.Require().ErrorIs(err, market.ErrInvalidQuantity)
	s.Equal(uint64(10), s.itemBalance(seller, kind))
}

func (s *ControllerTestSuite) TestUpdatePrice() {
	kind := s.mint(1, 0)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(75))
	s.Require().NoError(err)

	updated, err := s.controller.UpdatePrice(seller, l.ID, big.NewInt(150))
	s.Require().NoError(err)
	s.Equal(int64(150), updated.UnitPrice.Int64())
}

func (s *ControllerTestSuite) TestUpdatePriceByNonOwner() {
	kind := s.mint(1, 0)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(75))
	s.Require().NoError(err)

	_, err = s.controller.UpdatePrice(intruder, l.ID, big.NewInt(150))
	s.Require().ErrorIs(err, market.ErrUnauthorized)

	got, err := s.controller.Get(l.ID)
	s.Require().NoError(err)
	s.Equal(int64(75), got.UnitPrice.Int64())
}

func (s *ControllerTestSuite) TestAddQuantity() {
	kind := s.mint(30, 0)
	l, err := s.controller.List(seller, s.collection, kind, 25, big.NewInt(75))
	s.Require().NoError(err)

	updated, err := s.controller.AddQuantity(seller, l.ID, 5, kind)
	s.Require().NoError(err)
	s.Equal(uint64(30), updated.Quantity)
	s.Equal(uint64(0), s.itemBalance(seller, kind))
	s.Equal(uint64(30), s.itemBalance(custody, kind))
}

func (s *ControllerTestSuite) TestAddQuantityKindMismatch() {
	kind := s.mint(30, 0)
	other := s.mint(5, 0)

	l, err := s.controller.List(seller, s.collection, kind, 25, big.NewInt(75))
	s.Require().NoError(err)

	_, err = s.controller.AddQuantity(seller, l.ID, 5, other)
	s.Require().ErrorIs(err, market.ErrKindMismatch)

	got, err := s.controller.Get(l.ID)
	s.Require().NoError(err)
	s.Equal(uint64(25), got.Quantity)
}

func (s *ControllerTestSuite) TestAddQuantityByNonOwner() {
	kind := s.mint(30, 0)
	l, err := s.controller.List(seller, s.collection, kind, 25, big.NewInt(75))
	s.Require().NoError(err)

	_, err = s.controller.AddQuantity(intruder, l.ID, 5, kind)
	s.Require().ErrorIs(err, market.ErrUnauthorized)
}

func (s *ControllerTestSuite) TestRemoveQuantityReturnsItems() {
	kind := s.mint(1, 0)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(500))
	s.Require().NoError(err)

	remaining, err := s.controller.RemoveQuantity(seller, l.ID, 1)
	s.Require().NoError(err)
	s.Equal(uint64(0), remaining)
	s.Equal(uint64(1), s.itemBalance(seller, kind))

	// Full removal deletes the listing.
	_, err = s.controller.Get(l.ID)
	s.Require().ErrorIs(err, market.ErrNotFound)
	s.Empty(s.controller.ListAll())
}

func (s *ControllerTestSuite) TestRemoveQuantityBeyondListed() {
	kind := s.mint(5, 0)
	l, err := s.controller.List(seller, s.collection, kind, 5, big.NewInt(500))
	s.Require().NoError(err)

	_, err = s.controller.RemoveQuantity(seller, l.ID, 6)
	s.Require().ErrorIs(err, market.ErrInvalidQuantity)

	got, err := s.controller.Get(l.ID)
	s.Require().NoError(err)
	s.Equal(uint64(5), got.Quantity)
}

func (s *ControllerTestSuite) TestRemoveQuantityByNonOwner() {
	kind := s.mint(5, 0)
	l, err := s.controller.List(seller, s.collection, kind, 5, big.NewInt(500))
	s.Require().NoError(err)

	_, err = s.controller.RemoveQuantity(intruder, l.ID, 1)
	s.Require().ErrorIs(err, market.ErrUnauthorized)
	s.Equal(uint64(5), s.itemBalance(custody, kind))
}

func (s *ControllerTestSuite) TestBuySimpleNoRoyalty() {
	// List 1 at 100, fee 4% split 2%/2%:
	// seller +96, staking +2, foundation +2, buyer -100.
	kind := s.mint(1, 0)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(100))
	s.Require().NoError(err)

	rcpt, err := s.controller.Buy(buyer, l.ID, 1)
	s.Require().NoError(err)

	s.Equal(int64(96), rcpt.Split.SellerNet.Int64())
	s.Equal(uint64(0), rcpt.Remaining)
	s.Equal(int64(96), s.payments.BalanceOf(seller).Int64())
	s.Equal(int64(2), s.payments.BalanceOf(staking).Int64())
	s.Equal(int64(2), s.payments.BalanceOf(foundation).Int64())
	s.Equal(int64(1900), s.payments.BalanceOf(buyer).Int64())
	s.Equal(uint64(1), s.itemBalance(buyer, kind))
}

func (s *ControllerTestSuite) TestBuyWithRoyalty() {
	// Royalty rate 4%, price 100: artist +4, seller +92, 2/2, buyer -100.
	kind := s.mint(1, 400)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(100))
	s.Require().NoError(err)

	rcpt, err := s.controller.Buy(buyer, l.ID, 1)
	s.Require().NoError(err)

	s.Equal(int64(4), rcpt.Split.Royalty.Int64())
	s.Equal(int64(4), s.payments.BalanceOf(artist).Int64())
	s.Equal(int64(92), s.payments.BalanceOf(seller).Int64())
	s.Equal(int64(2), s.payments.BalanceOf(staking).Int64())
	s.Equal(int64(2), s.payments.BalanceOf(foundation).Int64())
	s.Equal(int64(1900), s.payments.BalanceOf(buyer).Int64())
}

func (s *ControllerTestSuite) TestBuyPartOfCollection() {
	// List 45 at 25, buy 10: listing drops to 35, buyer holds 10.
	kind := s.mint(45, 0)
	l, err := s.controller.List(seller, s.collection, kind, 45, big.NewInt(25))
	s.Require().NoError(err)

	_, err = s.controller.Buy(buyer, l.ID, 10)
	s.Require().NoError(err)

	got, err := s.controller.Get(l.ID)
	s.Require().NoError(err)
	s.Equal(uint64(35), got.Quantity)
	s.Equal(uint64(10), s.itemBalance(buyer, kind))
	s.Equal(uint64(35), s.itemBalance(custody, kind))
}

func (s *ControllerTestSuite) TestBuyWholeListingDeletesIt() {
	kind := s.mint(3, 0)
	l, err := s.controller.List(seller, s.collection, kind, 3, big.NewInt(10))
	s.Require().NoError(err)

	_, err = s.controller.Buy(buyer, l.ID, 3)
	s.Require().NoError(err)

	_, err = s.controller.Get(l.ID)
	s.Require().ErrorIs(err, market.ErrNotFound)
	s.Empty(s.controller.ListAll())
}

func (s *ControllerTestSuite) TestBuyMoreThanListed() {
	kind := s.mint(3, 0)
	l, err := s.controller.List(seller, s.collection, kind, 3, big.NewInt(10))
	s.Require().NoError(err)

	_, err = s.controller.Buy(buyer, l.ID, 4)
	s.Require().ErrorIs(err, market.ErrInvalidQuantity)

	got, err := s.controller.Get(l.ID)
	s.Require().NoError(err)
	s.Equal(uint64(3), got.Quantity)
	s.Equal(int64(2000), s.payments.BalanceOf(buyer).Int64())
}

func (s *ControllerTestSuite) TestBuyUnknownListing() {
	_, err := s.controller.Buy(buyer, 99, 1)
	s.Require().ErrorIs(err, market.ErrNotFound)
}

func (s *ControllerTestSuite) TestBuyInsufficientAllowanceLeavesNoTrace() {
	kind := s.mint(1, 400)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(100))
	s.Require().NoError(err)

	// Allowance below gross: the whole settlement must be rejected with no
	// leg applied, even though the first legs alone would fit.
	s.Require().NoError(s.payments.Approve(buyer, big.NewInt(97)))

	_, err = s.controller.Buy(buyer, l.ID, 1)
	s.Require().ErrorIs(err, market.ErrExternalTransfer)

	s.Equal(int64(2000), s.payments.BalanceOf(buyer).Int64())
	s.Equal(int64(0), s.payments.BalanceOf(seller).Int64())
	s.Equal(int64(0), s.payments.BalanceOf(artist).Int64())
	s.Equal(int64(0), s.payments.BalanceOf(staking).Int64())
	s.Equal(int64(0), s.payments.BalanceOf(foundation).Int64())
	s.Equal(uint64(1), s.itemBalance(custody, kind))

	got, err := s.controller.Get(l.ID)
	s.Require().NoError(err)
	s.Equal(uint64(1), got.Quantity)
}

func (s *ControllerTestSuite) TestBuyInsufficientBalanceLeavesNoTrace() {
	kind := s.mint(1, 0)
	l, err := s.controller.List(seller, s.collection, kind, 1, big.NewInt(5000))
	s.Require().NoError(err)
	s.Require().NoError(s.payments.Approve(buyer, big.NewInt(5000)))

	_, err = s.controller.Buy(buyer, l.ID, 1)
	s.Require().ErrorIs(err, market.ErrExternalTransfer)

	s.Equal(int64(2000), s.payments.BalanceOf(buyer).Int64())
	s.Equal(uint64(1), s.itemBalance(custody, kind))
}

func (s *ControllerTestSuite) TestEnumerationAfterMixedLifecycle() {
	k1 := s.mint(1, 0)
	k2 := s.mint(45, 0)
	k3 := s.mint(2, 0)

	l1, err := s.controller.List(seller, s.collection, k1, 1, big.NewInt(500))
	s.Require().NoError(err)
	l2, err := s.controller.List(seller, s.collection, k2, 45, big.NewInt(25))
	s.Require().NoError(err)
	l3, err := s.controller.List(seller, s.collection, k3, 2, big.NewInt(10))
	s.Require().NoError(err)

	// Consume the first listing entirely, shrink the second.
	_, err = s.controller.Buy(buyer, l1.ID, 1)
	s.Require().NoError(err)
	_, err = s.controller.Buy(buyer, l2.ID, 10)
	s.Require().NoError(err)

	all := s.controller.ListAll()
	s.Require().Len(all, 2)
	s.Equal(l2.ID, all[0].ID)
	s.Equal(uint64(35), all[0].Quantity)
	s.Equal(l3.ID, all[1].ID)
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestNewControllerRejectsBadConfig(t *testing.T) {
	payments := ledger.NewTokenLedger("marketplace")
	items := ledger.NewItemLedger("marketplace", 1000)

	_, err := market.NewController(market.Config{
		PlatformFeeBps: 10_000,
		Custody:        "marketplace",
		StakingPool:    "staking_pool",
		Foundation:     "foundation",
	}, payments, items)
	require.ErrorIs(t, err, market.ErrConfiguration)

	_, err = market.NewController(market.Config{
		PlatformFeeBps: 400,
	}, payments, items)
	require.ErrorIs(t, err, market.ErrConfiguration)
}
