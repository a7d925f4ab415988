package ledger

import (
	"errors"
	"time"

	"loyalty-core/internal/domain/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountTooSmall = errors.New("amount too small to earn points")
	ErrZeroDelta      = errors.New("ledger delta cannot be zero")
	ErrNoRate         = errors.New("no rate available for conversion")
)

// Entry is one signed, optionally-expiring point movement. Entries are
// append-only: nothing ever updates or deletes one.
type Entry struct {
	id        int64
	personID  uuid.UUID
	scope     scope.Scope
	scopeID   *uuid.UUID
	storeID   *uuid.UUID
	orderID   *string
	delta     int64
	details   map[string]any
	createdAt time.Time
	expiresAt *time.Time
}

// EarnDelta is the floor law: points = floor(amount * rate). Always floor,
// never round-to-nearest; truncation is the anti-inflation policy.
func EarnDelta(amountBRL, pointsPerBRL decimal.Decimal) int64 {
	return amountBRL.Mul(pointsPerBRL).Floor().IntPart()
}

// NewEarnEntry builds a positive movement for a purchase. Fails with
// ErrAmountTooSmall when the floored delta would be zero or negative, so a
// purchase never silently earns nothing.
func NewEarnEntry(
	personID uuid.UUID,
	sc scope.Scope,
	scopeID *uuid.UUID,
	storeID *uuid.UUID,
	orderID *string,
	amountBRL, pointsPerBRL decimal.Decimal,
	expiresAt *time.Time,
	details map[string]any,
) (*Entry, error) {
	delta := EarnDelta(amountBRL, pointsPerBRL)
	if delta <= 0 {
		return nil, ErrAmountTooSmall
	}

	return &Entry{
		personID:  personID,
		scope:     sc,
		scopeID:   scopeID,
		storeID:   storeID,
		orderID:   orderID,
		delta:     delta,
		details:   details,
		expiresAt: expiresAt,
	}, nil
}

// NewSpendEntry builds a negative movement. The ledger never rejects a
// spend for insufficient balance; sufficiency is the caller's precondition.
func NewSpendEntry(
	personID uuid.UUID,
	sc scope.Scope,
	scopeID *uuid.UUID,
	amount int64,
	details map[string]any,
) (*Entry, error) {
	if amount == 0 {
		return nil, ErrZeroDelta
	}
	if amount < 0 {
		amount = -amount
	}

	return &Entry{
		personID: personID,
		scope:    sc,
		scopeID:  scopeID,
		delta:    -amount,
		details:  details,
	}, nil
}

func ReconstructEntry(
	id int64,
	personID uuid.UUID,
	sc scope.Scope,
	scopeID, storeID *uuid.UUID,
	orderID *string,
	delta int64,
	details map[string]any,
	createdAt time.Time,
	expiresAt *time.Time,
) *Entry {
	return &Entry{
		id:        id,
		personID:  personID,
		scope:     sc,
		scopeID:   scopeID,
		storeID:   storeID,
		orderID:   orderID,
		delta:     delta,
		details:   details,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
}

// CountsAt reports whether the entry contributes to a balance read at t.
// A nil expires_at never expires.
func (e *Entry) CountsAt(t time.Time) bool {
	return e.expiresAt == nil || e.expiresAt.After(t)
}

// BalanceToBRL converts a point balance back to currency through the rate.
// Callers must special-case the absence of a rate before calling.
func BalanceToBRL(balance int64, pointsPerBRL decimal.Decimal) (decimal.Decimal, error) {
	if !pointsPerBRL.IsPositive() {
		return decimal.Zero, ErrNoRate
	}
	return decimal.NewFromInt(balance).Div(pointsPerBRL), nil
}

func (e *Entry) ID() int64               { return e.id }
func (e *Entry) PersonID() uuid.UUID     { return e.personID }
func (e *Entry) Scope() scope.Scope      { return e.scope }
func (e *Entry) ScopeID() *uuid.UUID     { return e.scopeID }
func (e *Entry) StoreID() *uuid.UUID     { return e.storeID }
func (e *Entry) OrderID() *string        { return e.orderID }
func (e *Entry) Delta() int64            { return e.delta }
func (e *Entry) Details() map[string]any { return e.details }
func (e *Entry) CreatedAt() time.Time    { return e.createdAt }
func (e *Entry) ExpiresAt() *time.Time   { return e.expiresAt }
