package repository

import (
	"context"
	"encoding/json"
	"time"

	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type LedgerRepository struct {
	db db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) *LedgerRepository {
	return &LedgerRepository{db: dbtx}
}

func (r *LedgerRepository) Append(ctx context.Context, e *ledger.Entry) (int64, error) {
	details, err := json.Marshal(e.Details())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to encode transaction details", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO point_transaction (person_id, scope, scope_id, store_id, order_id, delta, details, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		e.PersonID(),
		e.Scope().String(),
		pgconv.UUIDPtrToPgtype(e.ScopeID()),
		pgconv.UUIDPtrToPgtype(e.StoreID()),
		pgconv.StringPtrToPgtype(e.OrderID()),
		e.Delta(),
		details,
		pgconv.TimePtrToPgtype(e.ExpiresAt()),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to append ledger entry", err)
	}
	return id, nil
}

// Balance sums live deltas for one wallet line. Expiration is lazy: expired
// earns drop out of the sum here, nothing rewrites history.
func (r *LedgerRepository) Balance(ctx context.Context, personID uuid.UUID, sc scope.Scope, scopeID *uuid.UUID, asOf time.Time) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(delta), 0)
		FROM point_transaction
		WHERE person_id = $1
		  AND scope = $2
		  AND scope_id IS NOT DISTINCT FROM $3
		  AND (expires_at IS NULL OR expires_at > $4)`,
		personID, sc.String(), pgconv.UUIDPtrToPgtype(scopeID), asOf,
	).Scan(&balance)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum scope balance", err)
	}
	return balance, nil
}

func (r *LedgerRepository) TotalBalance(ctx context.Context, personID uuid.UUID, asOf time.Time) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(delta), 0)
		FROM point_transaction
		WHERE person_id = $1
		  AND (expires_at IS NULL OR expires_at > $2)`,
		personID, asOf,
	).Scan(&balance)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum total balance", err)
	}
	return balance, nil
}
