package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/clock"
	"loyalty-core/internal/pkg/config"
	"loyalty-core/internal/pkg/couponcode"
	"loyalty-core/internal/pkg/errs"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponNotFound        = errs.New("coupon not found")
	ErrNotReservedOrNotFound = errs.New("coupon is not reserved or not found")
	ErrAlreadyRedeemed       = errs.New("cannot cancel a redeemed coupon")
	ErrAlreadyCancelled      = errs.New("coupon is already cancelled")
	ErrNoEligibleItems       = errs.New("no eligible items for this coupon")
)

type AttemptInput struct {
	Code          string
	StoreID       uuid.UUID
	OrderTotalBRL decimal.Decimal
	ItemSKUs      []string
}

type AttemptResult struct {
	CouponID      uuid.UUID
	Discount      offer.Discount
	ReservedUntil time.Time
}

type ConfirmInput struct {
	CouponID        uuid.UUID
	StoreID         *uuid.UUID
	ExternalOrderID *string
	// Order, when present, is persisted alongside the redemption.
	Order    *OrderInput
	PersonID *uuid.UUID
}

type ConfirmResult struct {
	CouponID   uuid.UUID
	RedeemedAt time.Time
	OrderID    *uuid.UUID
}

type CancelInput struct {
	CouponID uuid.UUID
	Reason   string
}

type RedemptionCommands interface {
	// Attempt matches a presented code against live coupons, validates the
	// offer against the order, and places the reservation hold.
	Attempt(ctx context.Context, in AttemptInput) (*AttemptResult, error)
	Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
	Cancel(ctx context.Context, in CancelInput) error
	// ExpireSweep force-expires live coupons of offers whose window has
	// closed. Administrative; readers never depend on it having run.
	ExpireSweep(ctx context.Context, offerID uuid.UUID) (int, error)
}

type redemptionCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	loyalty config.LoyaltyConfig
}

func NewRedemptionCommands(uow shared.UnitOfWork, clock clock.Clock, loyalty config.LoyaltyConfig) RedemptionCommands {
	return &redemptionCommandsImpl{uow: uow, clock: clock, loyalty: loyalty}
}

func (r *redemptionCommandsImpl) Attempt(ctx context.Context, in AttemptInput) (*AttemptResult, error) {
	now := r.clock.Now()
	var result AttemptResult

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// A misconfigured terminal fails here, before any code is matched.
		if _, err := tx.Stores().FindByID(ctx, in.StoreID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrStoreNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		candidates, err := tx.Coupons().ActiveCodeHashes(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Every candidate is compared in constant time; a miss costs the
		// same as a hit so response timing leaks nothing about stored codes.
		var matchID uuid.UUID
		found := false
		for _, row := range candidates {
			if couponcode.Verify(in.Code, row.CodeHash) && !found {
				matchID = row.CouponID
				found = true
			}
		}
		if !found {
			return ErrCouponNotFound
		}

		cpn, err := tx.Coupons().FindByIDForUpdate(ctx, matchID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// Status may have moved between the unlocked scan and the lock.
		if !cpn.Status().IsHeld() {
			return ErrCouponNotFound
		}

		off, err := tx.Offers().FindByID(ctx, cpn.OfferID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := off.CheckWindow(now); err != nil {
			return translateOfferErr(err)
		}

		couponType, err := tx.Offers().FindTypeByID(ctx, off.CouponTypeID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		discount, err := couponType.Spec().Compute(in.OrderTotalBRL, in.ItemSKUs)
		if err != nil {
			if errors.Is(err, offer.ErrNoEligibleItems) {
				return ErrNoEligibleItems
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := cpn.Reserve(now, r.loyalty.ReservationTTL); err != nil {
			return ErrCouponNotFound
		}
		if err := tx.Coupons().Save(ctx, cpn); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = AttemptResult{
			CouponID:      cpn.ID(),
			Discount:      discount,
			ReservedUntil: *cpn.ReservedUntil(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *redemptionCommandsImpl) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	now := r.clock.Now()
	var result ConfirmResult

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cpn, err := tx.Coupons().FindByIDForUpdate(ctx, in.CouponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrNotReservedOrNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := cpn.Confirm(now, in.StoreID); err != nil {
			return ErrNotReservedOrNotFound
		}

		var orderID *uuid.UUID
		if in.Order != nil && in.StoreID != nil {
			personID := cpn.PersonID()
			if in.PersonID != nil {
				personID = *in.PersonID
			}
			id, err := tx.Orders().Create(ctx, shared.OrderRecord{
				StoreID:     *in.StoreID,
				PersonID:    personID,
				TotalBRL:    in.Order.TotalBRL,
				TaxBRL:      in.Order.TaxBRL,
				Items:       in.Order.Items,
				Shipping:    in.Order.Shipping,
				CheckoutRef: in.Order.CheckoutRef,
				ExternalID:  in.ExternalOrderID,
			})
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			orderID = &id
		}

		if err := tx.Coupons().Save(ctx, cpn); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		event := map[string]any{
			"coupon_id": cpn.ID().String(),
			"person_id": cpn.PersonID().String(),
		}
		if in.StoreID != nil {
			event["store_id"] = in.StoreID.String()
		}
		if in.ExternalOrderID != nil {
			event["order_id"] = *in.ExternalOrderID
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Outbox().Enqueue(ctx, "coupon.redeemed", payload); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = ConfirmResult{
			CouponID:   cpn.ID(),
			RedeemedAt: *cpn.RedeemedAt(),
			OrderID:    orderID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *redemptionCommandsImpl) Cancel(ctx context.Context, in CancelInput) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Terminal coupons are rejected from an unlocked read; only a live
		// one pays for the row lock, and its state is re-checked under it.
		unlocked, err := tx.Coupons().FindByID(ctx, in.CouponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if unlocked.Status().IsTerminal() {
			return translateCancelErr(unlocked.Cancel())
		}

		cpn, err := tx.Coupons().FindByIDForUpdate(ctx, in.CouponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := cpn.Cancel(); err != nil {
			return translateCancelErr(err)
		}
		if err := tx.Coupons().Save(ctx, cpn); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		payload, err := json.Marshal(map[string]any{
			"coupon_id": cpn.ID().String(),
			"reason":    in.Reason,
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return tx.Outbox().Enqueue(ctx, "coupon.cancelled", payload)
	})
}

func translateCancelErr(err error) error {
	switch {
	case errors.Is(err, coupon.ErrAlreadyRedeemed):
		return ErrAlreadyRedeemed
	default:
		return ErrAlreadyCancelled
	}
}

func (r *redemptionCommandsImpl) ExpireSweep(ctx context.Context, offerID uuid.UUID) (int, error) {
	now := r.clock.Now()
	expired := 0

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		off, err := tx.Offers().FindByID(ctx, offerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if off.EndAt() == nil || off.EndAt().After(now) {
			return nil
		}

		live, err := tx.Coupons().FindLiveByOffer(ctx, offerID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, cpn := range live {
			if err := cpn.MarkExpired(); err != nil {
				continue
			}
			if err := tx.Coupons().Save(ctx, cpn); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}
