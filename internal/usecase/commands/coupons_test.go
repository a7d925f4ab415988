//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/pkg/clock"
	"loyalty-core/internal/pkg/config"
	"loyalty-core/internal/pkg/couponcode"
	"loyalty-core/internal/usecase/commands"
	"loyalty-core/internal/usecase/shared"
	"loyalty-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CouponCommandsTestSuite struct {
	suite.Suite
	ledger  *MockLedgerRepository
	offers  *MockOfferRepository
	coupons *MockCouponRepository
	persons *MockPersonRepository
	outbox  *MockOutboxRepository
	clock   *clock.MockClock
	sut     commands.CouponCommands

	personID uuid.UUID
}

func TestCouponCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(CouponCommandsTestSuite))
}

func (s *CouponCommandsTestSuite) SetupTest() {
	s.ledger = new(MockLedgerRepository)
	s.offers = new(MockOfferRepository)
	s.coupons = new(MockCouponRepository)
	s.persons = new(MockPersonRepository)
	s.outbox = new(MockOutboxRepository)
	s.clock = clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	tx := &stubTx{
		ledger:  s.ledger,
		offers:  s.offers,
		coupons: s.coupons,
		persons: s.persons,
		outbox:  s.outbox,
	}
	loyalty := config.LoyaltyConfig{ReservationTTL: 15 * time.Minute, CouponCodeBytes: 16}
	s.sut = commands.NewCouponCommands(&stubUoW{tx: tx}, s.clock, loyalty)

	s.personID = uuid.New()
}

func (s *CouponCommandsTestSuite) TestIssueCoupon() {
	s.Run("free offer issues a coupon and decrements stock", func() {
		s.SetupTest()
		off, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(s.T(), err)

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.coupons.On("CountHeldByPerson", mock.Anything, off.ID(), s.personID).Return(0, nil)
		s.offers.On("UpdateStock", mock.Anything, off).Return(nil)

		var created *coupon.Coupon
		s.coupons.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*coupon.Coupon)
		}).Return(nil)
		s.outbox.On("Enqueue", mock.Anything, "coupon.issued", mock.Anything).Return(nil)

		result, err := s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  off.ID(),
			PersonID: s.personID,
		})
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 99, off.CurrentQuantity())
		require.NotNil(s.T(), created)
		assert.Equal(s.T(), coupon.StatusIssued, created.Status())
		// The returned plaintext must verify against the stored hash.
		assert.True(s.T(), couponcode.Verify(result.Code, created.CodeHash()))
		s.ledger.AssertNotCalled(s.T(), "Append", mock.Anything, mock.Anything)
	})

	s.Run("paid offer charges points in the same transaction", func() {
		s.SetupTest()
		b := builder.NewOfferBuilder()
		b.PointsCost = 50
		off, err := b.BuildDomain()
		require.NoError(s.T(), err)
		entityID := off.EntityID()

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.coupons.On("CountHeldByPerson", mock.Anything, off.ID(), s.personID).Return(0, nil)
		s.ledger.On("Balance", mock.Anything, s.personID, off.EntityScope(), &entityID, s.clock.Now()).Return(int64(80), nil)
		s.offers.On("UpdateStock", mock.Anything, off).Return(nil)
		s.coupons.On("Create", mock.Anything, mock.Anything).Return(nil)

		var charged *ledger.Entry
		s.ledger.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			charged = args.Get(1).(*ledger.Entry)
		}).Return(int64(1), nil)
		s.outbox.On("Enqueue", mock.Anything, "coupon.issued", mock.Anything).Return(nil)

		_, err = s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  off.ID(),
			PersonID: s.personID,
		})
		require.NoError(s.T(), err)
		require.NotNil(s.T(), charged)
		assert.Equal(s.T(), int64(-50), charged.Delta())
	})

	s.Run("insufficient points", func() {
		s.SetupTest()
		b := builder.NewOfferBuilder()
		b.PointsCost = 50
		off, err := b.BuildDomain()
		require.NoError(s.T(), err)
		entityID := off.EntityID()

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.coupons.On("CountHeldByPerson", mock.Anything, off.ID(), s.personID).Return(0, nil)
		s.ledger.On("Balance", mock.Anything, s.personID, off.EntityScope(), &entityID, s.clock.Now()).Return(int64(49), nil)

		_, err = s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  off.ID(),
			PersonID: s.personID,
		})
		assert.ErrorIs(s.T(), err, commands.ErrInsufficientPoints)
		assert.Equal(s.T(), 100, off.CurrentQuantity())
		s.coupons.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})

	s.Run("per-person cap reached", func() {
		s.SetupTest()
		off, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(s.T(), err)

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.coupons.On("CountHeldByPerson", mock.Anything, off.ID(), s.personID).Return(2, nil)

		_, err = s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  off.ID(),
			PersonID: s.personID,
		})
		assert.ErrorIs(s.T(), err, commands.ErrPerPersonLimitReached)
	})

	s.Run("out of stock", func() {
		s.SetupTest()
		b := builder.NewOfferBuilder()
		b.InitialQuantity = 0
		off, err := b.BuildDomain()
		require.NoError(s.T(), err)

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.coupons.On("CountHeldByPerson", mock.Anything, off.ID(), s.personID).Return(0, nil)

		_, err = s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  off.ID(),
			PersonID: s.personID,
		})
		assert.ErrorIs(s.T(), err, commands.ErrOutOfStock)
	})

	s.Run("unknown offer", func() {
		s.SetupTest()
		offerID := uuid.New()
		s.offers.On("FindByIDForUpdate", mock.Anything, offerID).Return(nil, notFoundErr())

		_, err := s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  offerID,
			PersonID: s.personID,
		})
		assert.ErrorIs(s.T(), err, commands.ErrOfferNotFound)
	})

	s.Run("inactive window", func() {
		s.SetupTest()
		now := s.clock.Now()
		off, err := builder.NewOfferBuilder().WithWindow(now.Add(time.Hour), now.Add(2*time.Hour)).BuildDomain()
		require.NoError(s.T(), err)

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.coupons.On("CountHeldByPerson", mock.Anything, off.ID(), s.personID).Return(0, nil)

		_, err = s.sut.IssueCoupon(context.Background(), commands.IssueCouponInput{
			OfferID:  off.ID(),
			PersonID: s.personID,
		})
		assert.ErrorIs(s.T(), err, commands.ErrOfferNotYetAvailable)
	})
}

func (s *CouponCommandsTestSuite) TestBulkIssue() {
	s.Run("issues one coupon per distinct recipient", func() {
		s.SetupTest()
		off, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(s.T(), err)
		recipients := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("ListIDsForSegment", mock.Anything, off.CustomerSegment(), 3).Return(recipients, nil)
		s.offers.On("UpdateStock", mock.Anything, off).Return(nil)
		s.coupons.On("Create", mock.Anything, mock.Anything).Return(nil)
		s.outbox.On("Enqueue", mock.Anything, "coupon.bulk_issued", mock.Anything).Return(nil)

		result, err := s.sut.BulkIssue(context.Background(), commands.BulkIssueInput{
			OfferID: off.ID(),
			Count:   3,
		})
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 3, result.IssuedCount)
		assert.Equal(s.T(), 97, off.CurrentQuantity())
		s.coupons.AssertNumberOfCalls(s.T(), "Create", 3)
	})

	s.Run("short audience rejects the whole batch", func() {
		s.SetupTest()
		off, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(s.T(), err)

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)
		s.persons.On("ListIDsForSegment", mock.Anything, off.CustomerSegment(), 10).Return([]uuid.UUID{uuid.New()}, nil)

		_, err = s.sut.BulkIssue(context.Background(), commands.BulkIssueInput{
			OfferID: off.ID(),
			Count:   10,
		})
		assert.ErrorIs(s.T(), err, commands.ErrInsufficientAudience)
		assert.Equal(s.T(), 100, off.CurrentQuantity())
		s.coupons.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})

	s.Run("count beyond stock", func() {
		s.SetupTest()
		b := builder.NewOfferBuilder()
		b.InitialQuantity = 5
		off, err := b.BuildDomain()
		require.NoError(s.T(), err)

		s.offers.On("FindByIDForUpdate", mock.Anything, off.ID()).Return(off, nil)

		_, err = s.sut.BulkIssue(context.Background(), commands.BulkIssueInput{
			OfferID: off.ID(),
			Count:   6,
		})
		assert.ErrorIs(s.T(), err, commands.ErrOutOfStock)
	})

	s.Run("non-positive count", func() {
		s.SetupTest()
		_, err := s.sut.BulkIssue(context.Background(), commands.BulkIssueInput{
			OfferID: uuid.New(),
			Count:   0,
		})
		assert.ErrorIs(s.T(), err, commands.ErrInvalidIssueRequest)
	})
}
