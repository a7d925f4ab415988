package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CouponListItem deliberately omits any code material; the plaintext is
// shown once at issuance and the stored hash never leaves the database.
type CouponListItem struct {
	ID            uuid.UUID  `json:"id"`
	OfferID       uuid.UUID  `json:"offer_id"`
	RedeemType    string     `json:"redeem_type"`
	Status        string     `json:"status"`
	IssuedAt      time.Time  `json:"issued_at"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	RedeemedAt    *time.Time `json:"redeemed_at,omitempty"`
}

type CouponReadStore interface {
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]*CouponListItem, error)
	ListByPersonAndStatus(ctx context.Context, personID uuid.UUID, status string) ([]*CouponListItem, error)
}

type CouponQueries interface {
	ListByPerson(ctx context.Context, personID uuid.UUID, status *string) ([]*CouponListItem, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

func (q *couponQueriesImpl) ListByPerson(ctx context.Context, personID uuid.UUID, status *string) ([]*CouponListItem, error) {
	if status != nil {
		return q.readStore.ListByPersonAndStatus(ctx, personID, *status)
	}
	return q.readStore.ListByPerson(ctx, personID)
}
