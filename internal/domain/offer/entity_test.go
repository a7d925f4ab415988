//go:build unit

package offer_test

import (
	"testing"
	"time"

	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOffer(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, actual.IsActive())
		assert.Equal(t, 100, actual.InitialQuantity())
		assert.Equal(t, 100, actual.CurrentQuantity())
		assert.False(t, actual.HasPointsCost())
	})

	cases := []struct {
		name   string
		mutate func(*builder.OfferBuilder)
		errIs  error
	}{
		{
			name:   "global scope is forbidden",
			mutate: func(b *builder.OfferBuilder) { b.EntityScope = scope.Global },
			errIs:  offer.ErrGlobalOfferScope,
		},
		{
			name:   "negative quantity",
			mutate: func(b *builder.OfferBuilder) { b.InitialQuantity = -1 },
			errIs:  offer.ErrInvalidQuantity,
		},
		{
			name:   "negative per-person cap",
			mutate: func(b *builder.OfferBuilder) { b.MaxPerPerson = -1 },
			errIs:  offer.ErrInvalidQuantity,
		},
		{
			name:   "negative points cost",
			mutate: func(b *builder.OfferBuilder) { b.PointsCost = -100 },
			errIs:  offer.ErrNegativePointsCost,
		},
		{
			name: "inverted window",
			mutate: func(b *builder.OfferBuilder) {
				b.WithWindow(time.Now().Add(time.Hour), time.Now())
			},
			errIs: offer.ErrWindowInverted,
		},
		{
			name:   "zero quantity is allowed",
			mutate: func(b *builder.OfferBuilder) { b.InitialQuantity = 0 },
		},
		{
			name:   "unlimited per-person via zero",
			mutate: func(b *builder.OfferBuilder) { b.MaxPerPerson = 0 },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.NewOfferBuilder().With(tc.mutate).BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckWindow(t *testing.T) {
	now := time.Now()

	t.Run("windowless active offer", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)
		assert.NoError(t, o.CheckWindow(now))
	})

	t.Run("inside the window", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().WithWindow(now.Add(-time.Hour), now.Add(time.Hour)).BuildDomain()
		require.NoError(t, err)
		assert.NoError(t, o.CheckWindow(now))
	})

	t.Run("before the window", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().WithWindow(now.Add(time.Hour), now.Add(2*time.Hour)).BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckWindow(now), offer.ErrOfferNotYetAvailable)
	})

	t.Run("after the window", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().WithWindow(now.Add(-2*time.Hour), now.Add(-time.Hour)).BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckWindow(now), offer.ErrOfferExpired)
	})
}

func TestCheckIssuable(t *testing.T) {
	now := time.Now()

	t.Run("precondition order is window then stock then cap", func(t *testing.T) {
		// An offer that is past its window AND out of stock reports the
		// window problem first.
		b := builder.NewOfferBuilder().WithWindow(now.Add(-2*time.Hour), now.Add(-time.Hour))
		b.InitialQuantity = 0
		o, err := b.BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckIssuable(now, 1, 0), offer.ErrOfferExpired)
	})

	t.Run("out of stock", func(t *testing.T) {
		b := builder.NewOfferBuilder()
		b.InitialQuantity = 0
		o, err := b.BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckIssuable(now, 1, 0), offer.ErrOutOfStock)
	})

	t.Run("bulk count larger than stock", func(t *testing.T) {
		b := builder.NewOfferBuilder()
		b.InitialQuantity = 10
		o, err := b.BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckIssuable(now, 11, 0), offer.ErrOutOfStock)
	})

	t.Run("per-person cap reached", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckIssuable(now, 1, 2), offer.ErrPerPersonLimit)
	})

	t.Run("zero cap means unlimited", func(t *testing.T) {
		b := builder.NewOfferBuilder()
		b.MaxPerPerson = 0
		o, err := b.BuildDomain()
		require.NoError(t, err)
		assert.NoError(t, o.CheckIssuable(now, 1, 50))
	})

	t.Run("non-positive count", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.CheckIssuable(now, 0, 0), offer.ErrInvalidQuantity)
	})
}

func TestDecrement(t *testing.T) {
	t.Run("consumes stock", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, o.Decrement(1))
		assert.Equal(t, 99, o.CurrentQuantity())
	})

	t.Run("cannot go negative", func(t *testing.T) {
		b := builder.NewOfferBuilder()
		b.InitialQuantity = 1
		o, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, o.Decrement(1))
		assert.ErrorIs(t, o.Decrement(1), offer.ErrStockInvariant)
		assert.Equal(t, 0, o.CurrentQuantity())
	})

	t.Run("non-positive count", func(t *testing.T) {
		o, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, o.Decrement(0), offer.ErrInvalidQuantity)
	})
}
