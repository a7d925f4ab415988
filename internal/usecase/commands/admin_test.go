//go:build unit

package commands_test

import (
	"context"
	"testing"

	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminSut(offers *MockOfferRepository, rules *MockRuleRepository) commands.AdminCommands {
	tx := &stubTx{offers: offers, rules: rules}
	return commands.NewAdminCommands(&stubUoW{tx: tx})
}

func TestCreateRule(t *testing.T) {
	t.Run("persists a valid rule", func(t *testing.T) {
		rules := new(MockRuleRepository)
		sut := newAdminSut(nil, rules)
		rate := decimal.RequireFromString("1.5")
		ownerID := uuid.New()

		rules.On("Create", mock.Anything, mock.Anything).Return(nil)

		id, err := sut.CreateRule(context.Background(), commands.CreateRuleInput{
			Scope:        scope.Store,
			OwnerID:      &ownerID,
			PointsPerBRL: &rate,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("rejects a global rule with an owner", func(t *testing.T) {
		sut := newAdminSut(nil, new(MockRuleRepository))
		rate := decimal.RequireFromString("1")
		ownerID := uuid.New()

		_, err := sut.CreateRule(context.Background(), commands.CreateRuleInput{
			Scope:        scope.Global,
			OwnerID:      &ownerID,
			PointsPerBRL: &rate,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidRule)
	})
}

func TestCreateCouponType(t *testing.T) {
	t.Run("persists a percentage type", func(t *testing.T) {
		offers := new(MockOfferRepository)
		sut := newAdminSut(offers, nil)
		pct := decimal.NewFromInt(15)

		offers.On("CreateType", mock.Anything, mock.Anything).Return(nil)

		id, err := sut.CreateCouponType(context.Background(), commands.CreateCouponTypeInput{
			RedeemType: offer.RedeemPercentage,
			Percentage: &pct,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("rejects an ambiguous spec", func(t *testing.T) {
		sut := newAdminSut(new(MockOfferRepository), nil)
		pct := decimal.NewFromInt(15)
		amount := decimal.NewFromInt(10)

		_, err := sut.CreateCouponType(context.Background(), commands.CreateCouponTypeInput{
			RedeemType: offer.RedeemPercentage,
			Percentage: &pct,
			AmountBRL:  &amount,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCouponType)
	})
}

func TestCreateOffer(t *testing.T) {
	t.Run("validates the coupon type before inserting", func(t *testing.T) {
		offers := new(MockOfferRepository)
		sut := newAdminSut(offers, nil)
		typeID := uuid.New()
		spec, err := offer.NewFixedDiscount(decimal.NewFromInt(10))
		require.NoError(t, err)

		offers.On("FindTypeByID", mock.Anything, typeID).Return(offer.ReconstructCouponType(typeID, spec), nil)
		offers.On("Create", mock.Anything, mock.Anything).Return(nil)

		id, err := sut.CreateOffer(context.Background(), commands.CreateOfferInput{
			EntityScope:     scope.Customer,
			EntityID:        uuid.New(),
			CouponTypeID:    typeID,
			InitialQuantity: 100,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("unknown coupon type", func(t *testing.T) {
		offers := new(MockOfferRepository)
		sut := newAdminSut(offers, nil)
		typeID := uuid.New()

		offers.On("FindTypeByID", mock.Anything, typeID).Return(nil, notFoundErr())

		_, err := sut.CreateOffer(context.Background(), commands.CreateOfferInput{
			EntityScope:     scope.Customer,
			EntityID:        uuid.New(),
			CouponTypeID:    typeID,
			InitialQuantity: 100,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidOffer)
	})

	t.Run("global scope is forbidden", func(t *testing.T) {
		sut := newAdminSut(new(MockOfferRepository), nil)

		_, err := sut.CreateOffer(context.Background(), commands.CreateOfferInput{
			EntityScope:     scope.Global,
			EntityID:        uuid.New(),
			CouponTypeID:    uuid.New(),
			InitialQuantity: 100,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidOffer)
	})
}
