package readstore

import (
	"context"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponReadStore struct {
	pool *pgxpool.Pool
}

func NewCouponReadStore(pool *pgxpool.Pool) *CouponReadStore {
	return &CouponReadStore{pool: pool}
}

const couponListQuery = `
	SELECT c.id, c.offer_id, ct.redeem_type, c.status,
	       c.issued_at, c.reserved_until, c.redeemed_at
	FROM coupon c
	JOIN coupon_offer o ON o.id = c.offer_id
	JOIN coupon_type ct ON ct.id = o.coupon_type_id`

func (r *CouponReadStore) ListByPerson(ctx context.Context, personID uuid.UUID) ([]*queries.CouponListItem, error) {
	rows, err := r.pool.Query(ctx, couponListQuery+`
		WHERE c.person_id = $1
		ORDER BY c.issued_at DESC`, personID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	return collectCouponItems(rows)
}

func (r *CouponReadStore) ListByPersonAndStatus(ctx context.Context, personID uuid.UUID, status string) ([]*queries.CouponListItem, error) {
	rows, err := r.pool.Query(ctx, couponListQuery+`
		WHERE c.person_id = $1 AND c.status = $2
		ORDER BY c.issued_at DESC`, personID, status)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons by status", err)
	}
	return collectCouponItems(rows)
}

func collectCouponItems(rows pgx.Rows) ([]*queries.CouponListItem, error) {
	defer rows.Close()

	var result []*queries.CouponListItem
	for rows.Next() {
		var (
			item          queries.CouponListItem
			issuedAt      pgtype.Timestamptz
			reservedUntil pgtype.Timestamptz
			redeemedAt    pgtype.Timestamptz
		)
		err := rows.Scan(&item.ID, &item.OfferID, &item.RedeemType, &item.Status,
			&issuedAt, &reservedUntil, &redeemedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		item.IssuedAt = pgconv.TimeFromPgtype(issuedAt)
		item.ReservedUntil = pgconv.TimePtrFromPgtype(reservedUntil)
		item.RedeemedAt = pgconv.TimePtrFromPgtype(redeemedAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", err)
	}
	return result, nil
}
