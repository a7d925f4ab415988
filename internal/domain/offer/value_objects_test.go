//go:build unit

package offer_test

import (
	"testing"

	"loyalty-core/internal/domain/offer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscountSpec(t *testing.T) {
	ten := decimal.NewFromInt(10)
	fifteen := decimal.NewFromInt(15)

	cases := []struct {
		name       string
		redeemType offer.RedeemType
		amount     *decimal.Decimal
		percentage *decimal.Decimal
		skus       []string
		errIs      error
	}{
		{name: "fixed amount", redeemType: offer.RedeemBRL, amount: &ten},
		{name: "percentage", redeemType: offer.RedeemPercentage, percentage: &fifteen},
		{name: "free sku", redeemType: offer.RedeemFreeSKU, skus: []string{"SKU-1"}},
		{name: "fixed missing amount", redeemType: offer.RedeemBRL, errIs: offer.ErrAmbiguousDiscount},
		{name: "fixed with stray percentage", redeemType: offer.RedeemBRL, amount: &ten, percentage: &fifteen, errIs: offer.ErrAmbiguousDiscount},
		{name: "percentage with stray skus", redeemType: offer.RedeemPercentage, percentage: &fifteen, skus: []string{"SKU-1"}, errIs: offer.ErrAmbiguousDiscount},
		{name: "free sku with empty list", redeemType: offer.RedeemFreeSKU, errIs: offer.ErrAmbiguousDiscount},
		{name: "unknown type", redeemType: offer.RedeemType("BOGUS"), errIs: offer.ErrInvalidRedeemType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := offer.NewDiscountSpec(tc.redeemType, tc.amount, tc.percentage, tc.skus)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.redeemType, spec.RedeemType())
		})
	}

	t.Run("percentage bounds", func(t *testing.T) {
		_, err := offer.NewPercentageDiscount(decimal.NewFromInt(101))
		assert.ErrorIs(t, err, offer.ErrInvalidPercentage)

		_, err = offer.NewPercentageDiscount(decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, offer.ErrInvalidPercentage)

		_, err = offer.NewPercentageDiscount(decimal.NewFromInt(100))
		assert.NoError(t, err)
	})

	t.Run("negative fixed amount", func(t *testing.T) {
		_, err := offer.NewFixedDiscount(decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, offer.ErrNegativeDiscount)
	})
}

func TestCompute(t *testing.T) {
	t.Run("fixed amount ignores the order total", func(t *testing.T) {
		spec, err := offer.NewFixedDiscount(decimal.NewFromInt(10))
		require.NoError(t, err)

		discount, err := spec.Compute(decimal.NewFromInt(500), nil)
		require.NoError(t, err)
		assert.Equal(t, offer.RedeemBRL, discount.Type)
		require.NotNil(t, discount.AmountBRL)
		assert.True(t, discount.AmountBRL.Equal(decimal.NewFromInt(10)))
	})

	t.Run("percentage of the order total", func(t *testing.T) {
		spec, err := offer.NewPercentageDiscount(decimal.NewFromInt(15))
		require.NoError(t, err)

		discount, err := spec.Compute(decimal.NewFromInt(200), nil)
		require.NoError(t, err)
		assert.Equal(t, offer.RedeemPercentage, discount.Type)
		require.NotNil(t, discount.AmountBRL)
		assert.True(t, discount.AmountBRL.Equal(decimal.NewFromInt(30)))
	})

	t.Run("free sku with an eligible item", func(t *testing.T) {
		spec, err := offer.NewFreeSKUDiscount([]string{"SKU-1", "SKU-2"})
		require.NoError(t, err)

		discount, err := spec.Compute(decimal.NewFromInt(100), []string{"SKU-9", "SKU-2"})
		require.NoError(t, err)
		assert.Equal(t, offer.RedeemFreeSKU, discount.Type)
		assert.Equal(t, []string{"SKU-1", "SKU-2"}, discount.FreeSKUs)
	})

	t.Run("free sku with no eligible items", func(t *testing.T) {
		spec, err := offer.NewFreeSKUDiscount([]string{"SKU-1"})
		require.NoError(t, err)

		_, err = spec.Compute(decimal.NewFromInt(100), []string{"SKU-9"})
		assert.ErrorIs(t, err, offer.ErrNoEligibleItems)
	})

	t.Run("free sku with no items at all", func(t *testing.T) {
		spec, err := offer.NewFreeSKUDiscount([]string{"SKU-1"})
		require.NoError(t, err)

		_, err = spec.Compute(decimal.NewFromInt(100), nil)
		assert.ErrorIs(t, err, offer.ErrNoEligibleItems)
	})
}
