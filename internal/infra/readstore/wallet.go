package readstore

import (
	"context"
	"time"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletReadStore struct {
	pool *pgxpool.Pool
}

func NewWalletReadStore(pool *pgxpool.Pool) *WalletReadStore {
	return &WalletReadStore{pool: pool}
}

func (r *WalletReadStore) PersonExists(ctx context.Context, personID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM person WHERE id = $1)`, personID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check person", err)
	}
	return exists, nil
}

// ScopeBalances groups live deltas per wallet line and joins the owning
// entity's name and its own-scope earn rate for currency valuation. Lines
// that net to zero or below are dropped.
func (r *WalletReadStore) ScopeBalances(ctx context.Context, personID uuid.UUID, asOf time.Time) ([]queries.ScopeBalanceRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.scope,
		       t.scope_id,
		       COALESCE(s.name, f.name, c.name) AS scope_name,
		       SUM(t.delta) AS points,
		       pr.points_per_brl
		FROM point_transaction t
		LEFT JOIN store s ON t.scope = 'STORE' AND s.id = t.scope_id
		LEFT JOIN franchise f ON t.scope = 'FRANCHISE' AND f.id = t.scope_id
		LEFT JOIN customer c ON t.scope = 'CUSTOMER' AND c.id = t.scope_id
		LEFT JOIN LATERAL (
			SELECT points_per_brl
			FROM point_rules
			WHERE scope = t.scope AND owner_id IS NOT DISTINCT FROM t.scope_id
			ORDER BY created_at DESC
			LIMIT 1
		) pr ON TRUE
		WHERE t.person_id = $1
		  AND (t.expires_at IS NULL OR t.expires_at > $2)
		GROUP BY t.scope, t.scope_id, s.name, f.name, c.name, pr.points_per_brl
		HAVING SUM(t.delta) > 0
		ORDER BY t.scope, t.scope_id`,
		personID, asOf,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query scope balances", err)
	}
	defer rows.Close()

	var result []queries.ScopeBalanceRow
	for rows.Next() {
		var (
			row          queries.ScopeBalanceRow
			scopeID      pgtype.UUID
			scopeName    pgtype.Text
			pointsPerBRL pgtype.Numeric
		)
		if err := rows.Scan(&row.Scope, &scopeID, &scopeName, &row.Points, &pointsPerBRL); err != nil {
			return nil, infra.WrapRepoErr("failed to scan scope balance", err)
		}
		row.ScopeID = pgconv.UUIDPtrFromPgtype(scopeID)
		row.ScopeName = pgconv.StringPtrFromPgtype(scopeName)
		rate, err := pgconv.DecimalPtrFromNumeric(pointsPerBRL)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to decode points_per_brl", err)
		}
		row.PointsPerBRL = rate
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate scope balances", err)
	}
	return result, nil
}

func (r *WalletReadStore) CouponCounts(ctx context.Context, personID uuid.UUID) (*queries.CouponCounts, error) {
	var counts queries.CouponCounts
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'ISSUED'),
		       COUNT(*) FILTER (WHERE status = 'RESERVED'),
		       COUNT(*) FILTER (WHERE status = 'REDEEMED')
		FROM coupon
		WHERE person_id = $1`, personID,
	).Scan(&counts.Issued, &counts.Reserved, &counts.Redeemed)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count coupons", err)
	}
	return &counts, nil
}
