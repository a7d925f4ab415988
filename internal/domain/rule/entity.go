package rule

import (
	"errors"
	"time"

	"loyalty-core/internal/domain/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOwnerRequired    = errors.New("scope owner is required for non-global rules")
	ErrOwnerForbidden   = errors.New("global rules must not reference an owner")
	ErrNegativeRate     = errors.New("points per BRL cannot be negative")
	ErrNegativeExpiry   = errors.New("expiry days cannot be negative")
	ErrNoRateOnRule     = errors.New("rule has no earning rate")
	ErrNoApplicableRule = errors.New("no applicable point rule")
)

// PointRule is the earning configuration attached to one tenancy level.
// At most one rule exists per (scope, owner) pair.
type PointRule struct {
	id            uuid.UUID
	scope         scope.Scope
	ownerID       *uuid.UUID
	pointsPerBRL  *decimal.Decimal
	expiresInDays *int
	createdAt     time.Time
}

func NewPointRule(sc scope.Scope, ownerID *uuid.UUID, pointsPerBRL *decimal.Decimal, expiresInDays *int) (*PointRule, error) {
	if !sc.IsValid() {
		return nil, scope.ErrInvalidScope
	}
	if sc.RequiresOwner() && ownerID == nil {
		return nil, ErrOwnerRequired
	}
	if !sc.RequiresOwner() && ownerID != nil {
		return nil, ErrOwnerForbidden
	}
	if pointsPerBRL != nil && pointsPerBRL.IsNegative() {
		return nil, ErrNegativeRate
	}
	if expiresInDays != nil && *expiresInDays < 0 {
		return nil, ErrNegativeExpiry
	}

	return &PointRule{
		id:            uuid.New(),
		scope:         sc,
		ownerID:       ownerID,
		pointsPerBRL:  pointsPerBRL,
		expiresInDays: expiresInDays,
	}, nil
}

func ReconstructPointRule(
	id uuid.UUID,
	sc scope.Scope,
	ownerID *uuid.UUID,
	pointsPerBRL *decimal.Decimal,
	expiresInDays *int,
	createdAt time.Time,
) *PointRule {
	return &PointRule{
		id:            id,
		scope:         sc,
		ownerID:       ownerID,
		pointsPerBRL:  pointsPerBRL,
		expiresInDays: expiresInDays,
		createdAt:     createdAt,
	}
}

func (r *PointRule) HasRate() bool {
	return r.pointsPerBRL != nil && r.pointsPerBRL.IsPositive()
}

// Rate returns the earning rate or an error when the matched rule carries
// none (a rule may exist only to set expiry policy).
func (r *PointRule) Rate() (decimal.Decimal, error) {
	if !r.HasRate() {
		return decimal.Zero, ErrNoRateOnRule
	}
	return *r.pointsPerBRL, nil
}

// ExpiresAt computes the expiration timestamp for an entry earned at now,
// or nil when the rule grants non-expiring points.
func (r *PointRule) ExpiresAt(now time.Time) *time.Time {
	if r.expiresInDays == nil || *r.expiresInDays == 0 {
		return nil
	}
	t := now.AddDate(0, 0, *r.expiresInDays)
	return &t
}

func (r *PointRule) ID() uuid.UUID                  { return r.id }
func (r *PointRule) Scope() scope.Scope             { return r.scope }
func (r *PointRule) OwnerID() *uuid.UUID            { return r.ownerID }
func (r *PointRule) PointsPerBRL() *decimal.Decimal { return r.pointsPerBRL }
func (r *PointRule) ExpiresInDays() *int            { return r.expiresInDays }
func (r *PointRule) CreatedAt() time.Time           { return r.createdAt }
