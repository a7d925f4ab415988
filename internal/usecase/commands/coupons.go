package commands

import (
	"context"
	"encoding/json"
	"errors"

	"loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/clock"
	"loyalty-core/internal/pkg/config"
	"loyalty-core/internal/pkg/couponcode"
	"loyalty-core/internal/pkg/errs"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOfferNotFound         = errs.New("offer not found")
	ErrOfferInactive         = errs.New("offer is not active")
	ErrOfferNotYetAvailable  = errs.New("offer is not yet available")
	ErrOfferExpired          = errs.New("offer has expired")
	ErrOutOfStock            = errs.New("offer is out of stock")
	ErrPerPersonLimitReached = errs.New("per-person coupon limit reached")
	ErrInsufficientPoints    = errs.New("insufficient points balance")
	ErrInsufficientAudience  = errs.New("not enough people match the segment")
	ErrInvalidIssueRequest   = errs.New("invalid issue request")
)

type IssueCouponInput struct {
	OfferID  uuid.UUID
	PersonID uuid.UUID
}

type IssueCouponResult struct {
	CouponID uuid.UUID
	// Code is the plaintext shown exactly once at issuance; only its hash
	// is stored.
	Code string
}

type BulkIssueInput struct {
	OfferID uuid.UUID
	Count   int
	// Segment narrows recipients; empty means the offer's own segment.
	Segment json.RawMessage
}

type BulkIssueResult struct {
	JobID       uuid.UUID
	IssuedCount int
}

type CouponCommands interface {
	IssueCoupon(ctx context.Context, in IssueCouponInput) (*IssueCouponResult, error)
	BulkIssue(ctx context.Context, in BulkIssueInput) (*BulkIssueResult, error)
}

type couponCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	loyalty config.LoyaltyConfig
}

func NewCouponCommands(uow shared.UnitOfWork, clock clock.Clock, loyalty config.LoyaltyConfig) CouponCommands {
	return &couponCommandsImpl{uow: uow, clock: clock, loyalty: loyalty}
}

// IssueCoupon runs the full precondition ladder under the offer row lock:
// existence, activity, window, stock, per-person cap, then points balance.
// Stock decrement, points charge and coupon insert commit atomically.
func (c *couponCommandsImpl) IssueCoupon(ctx context.Context, in IssueCouponInput) (*IssueCouponResult, error) {
	now := c.clock.Now()
	var result IssueCouponResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		off, err := tx.Offers().FindByIDForUpdate(ctx, in.OfferID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if _, err := tx.Persons().FindByID(ctx, in.PersonID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPersonNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		held, err := tx.Coupons().CountHeldByPerson(ctx, off.ID(), in.PersonID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := off.CheckIssuable(now, 1, held); err != nil {
			return translateOfferErr(err)
		}

		if off.HasPointsCost() {
			entityID := off.EntityID()
			balance, err := tx.Ledger().Balance(ctx, in.PersonID, off.EntityScope(), &entityID, now)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if balance < off.PointsCost() {
				return ErrInsufficientPoints
			}
		}

		code, err := couponcode.Generate(c.loyalty.CouponCodeBytes)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		cpn, err := coupon.NewIssued(off.ID(), in.PersonID, couponcode.Hash(code))
		if err != nil {
			return errs.Mark(err, ErrInvalidIssueRequest)
		}

		if err := off.Decrement(1); err != nil {
			return errs.Mark(err, ErrOutOfStock)
		}
		if err := tx.Offers().UpdateStock(ctx, off); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Coupons().Create(ctx, cpn); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if off.HasPointsCost() {
			entityID := off.EntityID()
			entry, err := ledger.NewSpendEntry(in.PersonID, off.EntityScope(), &entityID, off.PointsCost(), map[string]any{
				"reason":   "coupon_purchase",
				"offer_id": off.ID().String(),
			})
			if err != nil {
				return errs.Mark(err, ErrInvalidIssueRequest)
			}
			if _, err := tx.Ledger().Append(ctx, entry); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		payload, err := json.Marshal(map[string]any{
			"coupon_id": cpn.ID().String(),
			"offer_id":  off.ID().String(),
			"person_id": in.PersonID.String(),
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Outbox().Enqueue(ctx, "coupon.issued", payload); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = IssueCouponResult{CouponID: cpn.ID(), Code: code}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BulkIssue grants count coupons to distinct people in the audience. The
// audience is sized before any mutation so a short segment rejects the whole
// batch instead of partially issuing.
func (c *couponCommandsImpl) BulkIssue(ctx context.Context, in BulkIssueInput) (*BulkIssueResult, error) {
	if in.Count <= 0 {
		return nil, ErrInvalidIssueRequest
	}
	now := c.clock.Now()
	jobID := uuid.New()
	var result BulkIssueResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		off, err := tx.Offers().FindByIDForUpdate(ctx, in.OfferID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Per-person cap does not apply: every recipient is distinct.
		if err := off.CheckIssuable(now, in.Count, 0); err != nil {
			return translateOfferErr(err)
		}

		segment := in.Segment
		if len(segment) == 0 {
			segment = off.CustomerSegment()
		}
		recipients, err := tx.Persons().ListIDsForSegment(ctx, segment, in.Count)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(recipients) < in.Count {
			return ErrInsufficientAudience
		}

		if err := off.Decrement(in.Count); err != nil {
			return errs.Mark(err, ErrOutOfStock)
		}
		if err := tx.Offers().UpdateStock(ctx, off); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Plaintext codes ride the outbox so the delivery worker can hand
		// them to recipients; only hashes are stored on the coupons.
		type grant struct {
			CouponID uuid.UUID `json:"coupon_id"`
			PersonID uuid.UUID `json:"person_id"`
			Code     string    `json:"code"`
		}
		grants := make([]grant, 0, in.Count)
		for _, personID := range recipients {
			code, err := couponcode.Generate(c.loyalty.CouponCodeBytes)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			cpn, err := coupon.NewIssued(off.ID(), personID, couponcode.Hash(code))
			if err != nil {
				return errs.Mark(err, ErrInvalidIssueRequest)
			}
			if err := tx.Coupons().Create(ctx, cpn); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			grants = append(grants, grant{CouponID: cpn.ID(), PersonID: personID, Code: code})
		}

		payload, err := json.Marshal(map[string]any{
			"job_id":   jobID.String(),
			"offer_id": off.ID().String(),
			"grants":   grants,
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Outbox().Enqueue(ctx, "coupon.bulk_issued", payload); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = BulkIssueResult{JobID: jobID, IssuedCount: len(grants)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func translateOfferErr(err error) error {
	switch {
	case errors.Is(err, offer.ErrOfferInactive):
		return ErrOfferInactive
	case errors.Is(err, offer.ErrOfferNotYetAvailable):
		return ErrOfferNotYetAvailable
	case errors.Is(err, offer.ErrOfferExpired):
		return ErrOfferExpired
	case errors.Is(err, offer.ErrOutOfStock):
		return ErrOutOfStock
	case errors.Is(err, offer.ErrPerPersonLimit):
		return ErrPerPersonLimitReached
	default:
		return errs.Mark(err, ErrInvalidIssueRequest)
	}
}
