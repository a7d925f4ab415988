package offer

import (
	"encoding/json"
	"errors"
	"time"

	"loyalty-core/internal/domain/scope"

	"github.com/google/uuid"
)

var (
	ErrOfferInactive        = errors.New("offer is not active")
	ErrOfferNotYetAvailable = errors.New("offer is not yet available")
	ErrOfferExpired         = errors.New("offer has expired")
	ErrOutOfStock           = errors.New("offer is out of stock")
	ErrPerPersonLimit       = errors.New("per-person coupon limit reached")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrStockInvariant       = errors.New("current quantity must stay within [0, initial]")
	ErrNegativePointsCost   = errors.New("points cost cannot be negative")
	ErrGlobalOfferScope     = errors.New("offers cannot be owned by the global scope")
	ErrWindowInverted       = errors.New("offer window start must precede end")
)

// CouponType pairs an identifier with its discount specification.
type CouponType struct {
	id   uuid.UUID
	spec DiscountSpec
}

func NewCouponType(spec DiscountSpec) *CouponType {
	return &CouponType{id: uuid.New(), spec: spec}
}

func ReconstructCouponType(id uuid.UUID, spec DiscountSpec) *CouponType {
	return &CouponType{id: id, spec: spec}
}

func (t *CouponType) ID() uuid.UUID      { return t.id }
func (t *CouponType) Spec() DiscountSpec { return t.spec }

// Offer is a finite pool of coupon inventory owned by one tenant entity.
// current quantity is the sole availability gate and is only ever mutated
// under a per-offer row lock.
type Offer struct {
	id              uuid.UUID
	entityScope     scope.Scope
	entityID        uuid.UUID
	couponTypeID    uuid.UUID
	customerSegment json.RawMessage
	initialQuantity int
	currentQuantity int
	maxPerPerson    int
	pointsCost      int64
	isActive        bool
	startAt         *time.Time
	endAt           *time.Time
	createdAt       time.Time
}

func NewOffer(
	entityScope scope.Scope,
	entityID uuid.UUID,
	couponTypeID uuid.UUID,
	customerSegment json.RawMessage,
	initialQuantity int,
	maxPerPerson int,
	pointsCost int64,
	startAt, endAt *time.Time,
) (*Offer, error) {
	if entityScope == scope.Global || !entityScope.IsValid() {
		return nil, ErrGlobalOfferScope
	}
	if initialQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if maxPerPerson < 0 {
		return nil, ErrInvalidQuantity
	}
	if pointsCost < 0 {
		return nil, ErrNegativePointsCost
	}
	if startAt != nil && endAt != nil && startAt.After(*endAt) {
		return nil, ErrWindowInverted
	}

	return &Offer{
		id:              uuid.New(),
		entityScope:     entityScope,
		entityID:        entityID,
		couponTypeID:    couponTypeID,
		customerSegment: customerSegment,
		initialQuantity: initialQuantity,
		currentQuantity: initialQuantity,
		maxPerPerson:    maxPerPerson,
		pointsCost:      pointsCost,
		isActive:        true,
		startAt:         startAt,
		endAt:           endAt,
	}, nil
}

func ReconstructOffer(
	id uuid.UUID,
	entityScope scope.Scope,
	entityID uuid.UUID,
	couponTypeID uuid.UUID,
	customerSegment json.RawMessage,
	initialQuantity, currentQuantity, maxPerPerson int,
	pointsCost int64,
	isActive bool,
	startAt, endAt *time.Time,
	createdAt time.Time,
) *Offer {
	return &Offer{
		id:              id,
		entityScope:     entityScope,
		entityID:        entityID,
		couponTypeID:    couponTypeID,
		customerSegment: customerSegment,
		initialQuantity: initialQuantity,
		currentQuantity: currentQuantity,
		maxPerPerson:    maxPerPerson,
		pointsCost:      pointsCost,
		isActive:        isActive,
		startAt:         startAt,
		endAt:           endAt,
		createdAt:       createdAt,
	}
}

// CheckWindow validates activity and the validity window at t. Each failed
// precondition has its own error so the point of sale can render a distinct
// message.
func (o *Offer) CheckWindow(t time.Time) error {
	if !o.isActive {
		return ErrOfferInactive
	}
	if o.startAt != nil && o.startAt.After(t) {
		return ErrOfferNotYetAvailable
	}
	if o.endAt != nil && o.endAt.Before(t) {
		return ErrOfferExpired
	}
	return nil
}

// CheckIssuable runs the issuance preconditions in their contract order:
// window, stock, then the per-person cap over the person's non-terminal
// coupons. The points-cost check needs a ledger read and stays with the
// caller.
func (o *Offer) CheckIssuable(t time.Time, count, heldByPerson int) error {
	if count <= 0 {
		return ErrInvalidQuantity
	}
	if err := o.CheckWindow(t); err != nil {
		return err
	}
	if o.currentQuantity < count {
		return ErrOutOfStock
	}
	if o.maxPerPerson > 0 && heldByPerson >= o.maxPerPerson {
		return ErrPerPersonLimit
	}
	return nil
}

// Decrement consumes stock. Callers hold the offer row lock; the invariant
// 0 <= current <= initial is re-checked here regardless.
func (o *Offer) Decrement(count int) error {
	if count <= 0 {
		return ErrInvalidQuantity
	}
	next := o.currentQuantity - count
	if next < 0 || next > o.initialQuantity {
		return ErrStockInvariant
	}
	o.currentQuantity = next
	return nil
}

func (o *Offer) HasPointsCost() bool { return o.pointsCost > 0 }

func (o *Offer) ID() uuid.UUID                    { return o.id }
func (o *Offer) EntityScope() scope.Scope         { return o.entityScope }
func (o *Offer) EntityID() uuid.UUID              { return o.entityID }
func (o *Offer) CouponTypeID() uuid.UUID          { return o.couponTypeID }
func (o *Offer) CustomerSegment() json.RawMessage { return o.customerSegment }
func (o *Offer) InitialQuantity() int             { return o.initialQuantity }
func (o *Offer) CurrentQuantity() int             { return o.currentQuantity }
func (o *Offer) MaxPerPerson() int                { return o.maxPerPerson }
func (o *Offer) PointsCost() int64                { return o.pointsCost }
func (o *Offer) IsActive() bool                   { return o.isActive }
func (o *Offer) StartAt() *time.Time              { return o.startAt }
func (o *Offer) EndAt() *time.Time                { return o.endAt }
func (o *Offer) CreatedAt() time.Time             { return o.createdAt }
