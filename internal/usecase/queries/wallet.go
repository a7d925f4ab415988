package queries

import (
	"context"
	"errors"
	"time"

	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/clock"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScopeBalance is one wallet line: the live point total a person holds
// against one owning entity, optionally valued in currency when an earn
// rate applies to that entity.
type ScopeBalance struct {
	Scope     string           `json:"scope"`
	ScopeID   *uuid.UUID       `json:"scope_id,omitempty"`
	ScopeName *string          `json:"scope_name,omitempty"`
	Points    int64            `json:"points"`
	ValueBRL  *decimal.Decimal `json:"value_brl,omitempty"`
}

type CouponCounts struct {
	Issued   int `json:"issued"`
	Reserved int `json:"reserved"`
	Redeemed int `json:"redeemed"`
}

type WalletView struct {
	PersonID    uuid.UUID      `json:"person_id"`
	TotalPoints int64          `json:"total_points"`
	Balances    []ScopeBalance `json:"balances"`
	Coupons     CouponCounts   `json:"coupons"`
	AsOf        time.Time      `json:"as_of"`
}

// ScopeBalanceRow comes straight from the read store; PointsPerBRL is the
// rate configured at that exact scope, nil when the scope has none.
type ScopeBalanceRow struct {
	Scope        string
	ScopeID      *uuid.UUID
	ScopeName    *string
	Points       int64
	PointsPerBRL *decimal.Decimal
}

type WalletReadStore interface {
	// ScopeBalances sums non-expired ledger deltas per (scope, owner),
	// skipping rows that net to zero or below.
	ScopeBalances(ctx context.Context, personID uuid.UUID, asOf time.Time) ([]ScopeBalanceRow, error)
	CouponCounts(ctx context.Context, personID uuid.UUID) (*CouponCounts, error)
	PersonExists(ctx context.Context, personID uuid.UUID) (bool, error)
}

type WalletQueries interface {
	GetWallet(ctx context.Context, personID uuid.UUID) (*WalletView, error)
}

type walletQueriesImpl struct {
	readStore WalletReadStore
	uow       shared.UnitOfWork
	clock     clock.Clock
}

func NewWalletQueries(readStore WalletReadStore, uow shared.UnitOfWork, clock clock.Clock) WalletQueries {
	return &walletQueriesImpl{readStore: readStore, uow: uow, clock: clock}
}

func (q *walletQueriesImpl) GetWallet(ctx context.Context, personID uuid.UUID) (*WalletView, error) {
	now := q.clock.Now()

	exists, err := q.readStore.PersonExists(ctx, personID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := q.readStore.ScopeBalances(ctx, personID, now)
	if err != nil {
		return nil, err
	}

	balances := make([]ScopeBalance, 0, len(rows))
	var total int64
	unrated := false
	for _, row := range rows {
		b := ScopeBalance{
			Scope:     row.Scope,
			ScopeID:   row.ScopeID,
			ScopeName: row.ScopeName,
			Points:    row.Points,
		}
		if row.PointsPerBRL != nil {
			if brl, err := ledger.BalanceToBRL(row.Points, *row.PointsPerBRL); err == nil {
				b.ValueBRL = &brl
			}
		} else {
			unrated = true
		}
		balances = append(balances, b)
		total += row.Points
	}

	if unrated {
		if err := q.valueUnratedLines(ctx, rows, balances); err != nil {
			return nil, err
		}
	}

	counts, err := q.readStore.CouponCounts(ctx, personID)
	if err != nil {
		return nil, err
	}

	return &WalletView{
		PersonID:    personID,
		TotalPoints: total,
		Balances:    balances,
		Coupons:     *counts,
		AsOf:        now,
	}, nil
}

// valueUnratedLines prices lines whose own scope has no rate by resolving
// up the ancestry chain, the same walk Earn uses. A line stays unvalued
// when the whole chain is silent or the matched rule carries no rate.
func (q *walletQueriesImpl) valueUnratedLines(ctx context.Context, rows []ScopeBalanceRow, balances []ScopeBalance) error {
	return q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		resolver := rule.NewResolver(tx.Rules())
		for i, row := range rows {
			if row.PointsPerBRL != nil {
				continue
			}
			sc, err := scope.New(row.Scope)
			if err != nil {
				continue
			}

			var storeID, franchiseID, customerID *uuid.UUID
			if sc.RequiresOwner() {
				if row.ScopeID == nil {
					continue
				}
				storeID, franchiseID, customerID, err = tx.Stores().AncestryForScope(ctx, sc, *row.ScopeID)
				if err != nil {
					if infra.IsKind(err, infra.KindNotFound) {
						continue
					}
					return err
				}
			}

			matched, err := resolver.Resolve(ctx, orNil(storeID), orNil(franchiseID), orNil(customerID))
			if err != nil {
				if errors.Is(err, rule.ErrNoApplicableRule) {
					continue
				}
				return err
			}
			rate, err := matched.Rate()
			if err != nil {
				continue
			}
			if brl, err := ledger.BalanceToBRL(row.Points, rate); err == nil {
				balances[i].ValueBRL = &brl
			}
		}
		return nil
	})
}

func orNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
