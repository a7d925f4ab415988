package commands

import (
	"context"
	"encoding/json"
	"time"

	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/pkg/errs"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRule       = errs.New("invalid point rule")
	ErrInvalidCouponType = errs.New("invalid coupon type")
	ErrInvalidOffer      = errs.New("invalid offer")
)

type CreateRuleInput struct {
	Scope         scope.Scope
	OwnerID       *uuid.UUID
	PointsPerBRL  *decimal.Decimal
	ExpiresInDays *int
}

type CreateCouponTypeInput struct {
	RedeemType offer.RedeemType
	AmountBRL  *decimal.Decimal
	Percentage *decimal.Decimal
	ValidSKUs  []string
}

type CreateOfferInput struct {
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

type AdminCommands interface {
	CreateRule(ctx context.Context, in CreateRuleInput) (uuid.UUID, error)
	CreateCouponType(ctx context.Context, in CreateCouponTypeInput) (uuid.UUID, error)
	CreateOffer(ctx context.Context, in CreateOfferInput) (uuid.UUID, error)
}

type adminCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewAdminCommands(uow shared.UnitOfWork) AdminCommands {
	return &adminCommandsImpl{uow: uow}
}

func (a *adminCommandsImpl) CreateRule(ctx context.Context, in CreateRuleInput) (uuid.UUID, error) {
	r, err := rule.NewPointRule(in.Scope, in.OwnerID, in.PointsPerBRL, in.ExpiresInDays)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidRule)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Rules().Create(ctx, r); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return r.ID(), nil
}

func (a *adminCommandsImpl) CreateCouponType(ctx context.Context, in CreateCouponTypeInput) (uuid.UUID, error) {
	spec, err := offer.NewDiscountSpec(in.RedeemType, in.AmountBRL, in.Percentage, in.ValidSKUs)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidCouponType)
	}
	couponType := offer.NewCouponType(spec)

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Offers().CreateType(ctx, couponType); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return couponType.ID(), nil
}

func (a *adminCommandsImpl) CreateOffer(ctx context.Context, in CreateOfferInput) (uuid.UUID, error) {
	off, err := offer.NewOffer(
		in.EntityScope,
		in.EntityID,
		in.CouponTypeID,
		in.CustomerSegment,
		in.InitialQuantity,
		in.MaxPerPerson,
		in.PointsCost,
		in.StartAt,
		in.EndAt,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidOffer)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Offers().FindTypeByID(ctx, off.CouponTypeID()); err != nil {
			return errs.Mark(err, ErrInvalidOffer)
		}
		if err := tx.Offers().Create(ctx, off); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return off.ID(), nil
}
