package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotRedeemable    = errors.New("coupon is not redeemable")
	ErrNotReserved      = errors.New("coupon is not reserved")
	ErrAlreadyRedeemed  = errors.New("coupon has already been redeemed")
	ErrAlreadyCancelled = errors.New("coupon is already cancelled")
	ErrAlreadyExpired   = errors.New("coupon is already expired")
	ErrEmptyCodeHash    = errors.New("coupon requires a code hash")
)

// Coupon is one instance issued from an offer to a person. Only the status
// and redemption stamps ever change after issuance, and only under a
// per-coupon row lock.
type Coupon struct {
	id              uuid.UUID
	offerID         uuid.UUID
	personID        uuid.UUID
	codeHash        []byte
	status          Status
	issuedAt        time.Time
	reservedUntil   *time.Time
	redeemedAt      *time.Time
	redeemedStoreID *uuid.UUID
}

func NewIssued(offerID, personID uuid.UUID, codeHash []byte) (*Coupon, error) {
	if len(codeHash) == 0 {
		return nil, ErrEmptyCodeHash
	}
	return &Coupon{
		id:       uuid.New(),
		offerID:  offerID,
		personID: personID,
		codeHash: codeHash,
		status:   StatusIssued,
	}, nil
}

func Reconstruct(
	id, offerID, personID uuid.UUID,
	codeHash []byte,
	status Status,
	issuedAt time.Time,
	reservedUntil, redeemedAt *time.Time,
	redeemedStoreID *uuid.UUID,
) *Coupon {
	return &Coupon{
		id:              id,
		offerID:         offerID,
		personID:        personID,
		codeHash:        codeHash,
		status:          status,
		issuedAt:        issuedAt,
		reservedUntil:   reservedUntil,
		redeemedAt:      redeemedAt,
		redeemedStoreID: redeemedStoreID,
	}
}

// ReservationStale reports whether a RESERVED coupon's hold has lapsed,
// making it eligible for a fresh attempt from another terminal.
func (c *Coupon) ReservationStale(now time.Time) bool {
	return c.status == StatusReserved &&
		c.reservedUntil != nil &&
		c.reservedUntil.Before(now)
}

// Reserve places or refreshes the redemption hold. Reserving an already
// RESERVED coupon is deliberately idempotent: the same terminal re-scanning
// a code gets its reservation back instead of an error, and a stale hold
// passes to whoever scans next. Terminal states never leave.
func (c *Coupon) Reserve(now time.Time, ttl time.Duration) error {
	if !c.status.IsHeld() {
		return ErrNotRedeemable
	}
	until := now.Add(ttl)
	c.status = StatusReserved
	c.reservedUntil = &until
	return nil
}

// Confirm consumes a reservation. Irreversible.
func (c *Coupon) Confirm(now time.Time, storeID *uuid.UUID) error {
	if c.status != StatusReserved {
		return ErrNotReserved
	}
	c.status = StatusRedeemed
	c.redeemedAt = &now
	c.redeemedStoreID = storeID
	c.reservedUntil = nil
	return nil
}

// Cancel is administrative. Redeemed coupons are past the point of no
// return; cancelling twice is reported distinctly.
func (c *Coupon) Cancel() error {
	switch c.status {
	case StatusRedeemed:
		return ErrAlreadyRedeemed
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusExpired:
		return ErrAlreadyExpired
	}
	c.status = StatusCancelled
	c.reservedUntil = nil
	return nil
}

// MarkExpired is only ever called by an explicit administrative sweep;
// readers must not rely on it and check the offer window themselves.
func (c *Coupon) MarkExpired() error {
	if c.status.IsTerminal() {
		return ErrNotRedeemable
	}
	c.status = StatusExpired
	c.reservedUntil = nil
	return nil
}

func (c *Coupon) ID() uuid.UUID               { return c.id }
func (c *Coupon) OfferID() uuid.UUID          { return c.offerID }
func (c *Coupon) PersonID() uuid.UUID         { return c.personID }
func (c *Coupon) CodeHash() []byte            { return c.codeHash }
func (c *Coupon) Status() Status              { return c.status }
func (c *Coupon) IssuedAt() time.Time         { return c.issuedAt }
func (c *Coupon) ReservedUntil() *time.Time   { return c.reservedUntil }
func (c *Coupon) RedeemedAt() *time.Time      { return c.redeemedAt }
func (c *Coupon) RedeemedStoreID() *uuid.UUID { return c.redeemedStoreID }
