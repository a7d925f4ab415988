package commands

import (
	"context"
	"encoding/json"
	"errors"

	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/clock"
	"loyalty-core/internal/pkg/errs"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPersonNotFound          = errs.New("person not found")
	ErrStoreNotFound           = errs.New("store not found")
	ErrNoApplicableRule        = errs.New("no applicable point rule found")
	ErrAmountTooSmall          = errs.New("order amount too small to earn points")
	ErrInvalidAdjustment       = errs.New("invalid point adjustment")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type OrderInput struct {
	TotalBRL    decimal.Decimal
	TaxBRL      decimal.Decimal
	Items       json.RawMessage
	Shipping    json.RawMessage
	CheckoutRef *string
	ExternalID  *string
}

type EarnPointsInput struct {
	// Exactly one of PersonID/CPF identifies the earner.
	PersonID *uuid.UUID
	CPF      *string
	StoreID  uuid.UUID
	Order    OrderInput
}

type EarnPointsResult struct {
	OrderID      uuid.UUID
	PointsEarned int64
	WalletTotal  int64
}

type SpendPointsInput struct {
	PersonID uuid.UUID
	Scope    scope.Scope
	ScopeID  *uuid.UUID
	Amount   int64
	Reason   string
}

type PointsCommands interface {
	EarnPoints(ctx context.Context, in EarnPointsInput) (*EarnPointsResult, error)
	// SpendPoints appends a negative entry unconditionally; sufficiency is
	// the caller's precondition, the ledger is an unconstrained log.
	SpendPoints(ctx context.Context, in SpendPointsInput) (int64, error)
}

type pointsCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPointsCommands(uow shared.UnitOfWork, clock clock.Clock) PointsCommands {
	return &pointsCommandsImpl{uow: uow, clock: clock}
}

func (p *pointsCommandsImpl) EarnPoints(ctx context.Context, in EarnPointsInput) (*EarnPointsResult, error) {
	now := p.clock.Now()
	var result EarnPointsResult

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		person, err := p.findPerson(ctx, tx, in)
		if err != nil {
			return err
		}

		store, err := tx.Stores().FindByID(ctx, in.StoreID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrStoreNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		matched, err := rule.NewResolver(tx.Rules()).Resolve(ctx, store.ID, store.FranchiseID, store.CustomerID)
		if err != nil {
			if errors.Is(err, rule.ErrNoApplicableRule) {
				return ErrNoApplicableRule
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		rate, err := matched.Rate()
		if err != nil {
			// A rule that only sets expiry policy cannot earn.
			return ErrNoApplicableRule
		}

		orderID, err := tx.Orders().Create(ctx, shared.OrderRecord{
			StoreID:     in.StoreID,
			PersonID:    person.ID,
			TotalBRL:    in.Order.TotalBRL,
			TaxBRL:      in.Order.TaxBRL,
			Items:       in.Order.Items,
			Shipping:    in.Order.Shipping,
			CheckoutRef: in.Order.CheckoutRef,
			ExternalID:  in.Order.ExternalID,
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		orderRef := orderID.String()
		entry, err := ledger.NewEarnEntry(
			person.ID,
			matched.Scope(),
			matched.OwnerID(),
			&in.StoreID,
			&orderRef,
			in.Order.TotalBRL,
			rate,
			matched.ExpiresAt(now),
			map[string]any{
				"order_total":    in.Order.TotalBRL.String(),
				"points_per_brl": rate.String(),
				"rule_id":        matched.ID().String(),
			},
		)
		if err != nil {
			return errs.Mark(err, ErrAmountTooSmall)
		}

		if _, err := tx.Ledger().Append(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		payload, err := json.Marshal(map[string]any{
			"person_id": person.ID.String(),
			"store_id":  in.StoreID.String(),
			"order_id":  orderRef,
			"delta":     entry.Delta(),
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Outbox().Enqueue(ctx, "points.earned", payload); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		total, err := tx.Ledger().TotalBalance(ctx, person.ID, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = EarnPointsResult{
			OrderID:      orderID,
			PointsEarned: entry.Delta(),
			WalletTotal:  total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *pointsCommandsImpl) SpendPoints(ctx context.Context, in SpendPointsInput) (int64, error) {
	now := p.clock.Now()
	var balance int64

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := ledger.NewSpendEntry(in.PersonID, in.Scope, in.ScopeID, in.Amount, map[string]any{
			"reason": in.Reason,
		})
		if err != nil {
			return errs.Mark(err, ErrInvalidAdjustment)
		}

		if _, err := tx.Ledger().Append(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		balance, err = tx.Ledger().Balance(ctx, in.PersonID, in.Scope, in.ScopeID, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (p *pointsCommandsImpl) findPerson(ctx context.Context, tx shared.Tx, in EarnPointsInput) (*shared.PersonSnapshot, error) {
	switch {
	case in.PersonID != nil:
		person, err := tx.Persons().FindByID(ctx, *in.PersonID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return person, nil
	case in.CPF != nil:
		person, err := tx.Persons().FindByCPF(ctx, *in.CPF)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return person, nil
	default:
		return nil, ErrPersonNotFound
	}
}
