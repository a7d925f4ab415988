//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/pkg/couponcode"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID              uuid.UUID
	OfferID         uuid.UUID
	PersonID        uuid.UUID
	Code            string
	Status          domcoupon.Status
	IssuedAt        time.Time
	ReservedUntil   *time.Time
	RedeemedAt      *time.Time
	RedeemedStoreID *uuid.UUID
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:       uuid.New(),
		OfferID:  uuid.New(),
		PersonID: uuid.New(),
		Code:     "TESTCODE-0001",
		Status:   domcoupon.StatusIssued,
		IssuedAt: time.Now(),
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithStatus(status domcoupon.Status) *CouponBuilder {
	b.Status = status
	return b
}

func (b *CouponBuilder) WithReservedUntil(t time.Time) *CouponBuilder {
	b.Status = domcoupon.StatusReserved
	b.ReservedUntil = &t
	return b
}

func (b *CouponBuilder) BuildDomain() *domcoupon.Coupon {
	return domcoupon.Reconstruct(
		b.ID,
		b.OfferID,
		b.PersonID,
		couponcode.Hash(b.Code),
		b.Status,
		b.IssuedAt,
		b.ReservedUntil,
		b.RedeemedAt,
		b.RedeemedStoreID,
	)
}
