package queries

import (
	"context"
	"time"

	"loyalty-core/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferView struct {
	ID              uuid.UUID        `json:"id"`
	EntityScope     string           `json:"entity_scope"`
	EntityID        uuid.UUID        `json:"entity_id"`
	CouponTypeID    uuid.UUID        `json:"coupon_type_id"`
	RedeemType      string           `json:"redeem_type"`
	AmountBRL       *decimal.Decimal `json:"amount_brl,omitempty"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	ValidSKUs       []string         `json:"valid_skus,omitempty"`
	InitialQuantity int              `json:"initial_quantity"`
	CurrentQuantity int              `json:"current_quantity"`
	MaxPerPerson    int              `json:"max_per_person"`
	PointsCost      int64            `json:"points_cost"`
	IsActive        bool             `json:"is_active"`
	StartAt         *time.Time       `json:"start_at,omitempty"`
	EndAt           *time.Time       `json:"end_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// OfferStatsView counts coupons per status for one offer. Remaining repeats
// the offer's own stock column, which is authoritative.
type OfferStatsView struct {
	OfferID   uuid.UUID `json:"offer_id"`
	Issued    int       `json:"issued"`
	Reserved  int       `json:"reserved"`
	Redeemed  int       `json:"redeemed"`
	Cancelled int       `json:"cancelled"`
	Expired   int       `json:"expired"`
	Remaining int       `json:"remaining"`
}

type OfferReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OfferView, error)
	// ListAvailable returns active offers whose window contains now, for
	// one owning entity.
	ListAvailable(ctx context.Context, entityScope string, entityID uuid.UUID, now time.Time) ([]*OfferView, error)
	Stats(ctx context.Context, offerID uuid.UUID) (*OfferStatsView, error)
}

type OfferQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*OfferView, error)
	ListAvailable(ctx context.Context, entityScope string, entityID uuid.UUID) ([]*OfferView, error)
	GetStats(ctx context.Context, offerID uuid.UUID) (*OfferStatsView, error)
}

type offerQueriesImpl struct {
	readStore OfferReadStore
	clock     clock.Clock
}

func NewOfferQueries(readStore OfferReadStore, clock clock.Clock) OfferQueries {
	return &offerQueriesImpl{readStore: readStore, clock: clock}
}

func (q *offerQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*OfferView, error) {
	return q.readStore.FindByID(ctx, id)
}

func (q *offerQueriesImpl) ListAvailable(ctx context.Context, entityScope string, entityID uuid.UUID) ([]*OfferView, error) {
	return q.readStore.ListAvailable(ctx, entityScope, entityID, q.clock.Now())
}

func (q *offerQueriesImpl) GetStats(ctx context.Context, offerID uuid.UUID) (*OfferStatsView, error) {
	return q.readStore.Stats(ctx, offerID)
}
