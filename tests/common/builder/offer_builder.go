//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	domoffer "loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/scope"

	"github.com/google/uuid"
)

type OfferBuilder struct {
	EntityScope     scope.Scope
	EntityID        uuid.UUID
	CouponTypeID    uuid.UUID
	CustomerSegment json.RawMessage
	InitialQuantity int
	MaxPerPerson    int
	PointsCost      int64
	StartAt         *time.Time
	EndAt           *time.Time
}

func NewOfferBuilder() *OfferBuilder {
	return &OfferBuilder{
		EntityScope:     scope.Customer,
		EntityID:        uuid.New(),
		CouponTypeID:    uuid.New(),
		CustomerSegment: json.RawMessage(`{}`),
		InitialQuantity: 100,
		MaxPerPerson:    2,
		PointsCost:      0,
	}
}

func (b *OfferBuilder) With(mutate func(*OfferBuilder)) *OfferBuilder {
	mutate(b)
	return b
}

func (b *OfferBuilder) WithWindow(start, end time.Time) *OfferBuilder {
	b.StartAt = &start
	b.EndAt = &end
	return b
}

func (b *OfferBuilder) BuildDomain() (*domoffer.Offer, error) {
	return domoffer.NewOffer(
		b.EntityScope,
		b.EntityID,
		b.CouponTypeID,
		b.CustomerSegment,
		b.InitialQuantity,
		b.MaxPerPerson,
		b.PointsCost,
		b.StartAt,
		b.EndAt,
	)
}
