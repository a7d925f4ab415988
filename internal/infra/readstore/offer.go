package readstore

import (
	"context"
	"time"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OfferReadStore struct {
	pool *pgxpool.Pool
}

func NewOfferReadStore(pool *pgxpool.Pool) *OfferReadStore {
	return &OfferReadStore{pool: pool}
}

const offerViewQuery = `
	SELECT o.id, o.entity_scope, o.entity_id, o.coupon_type_id,
	       ct.redeem_type, ct.amount_brl, ct.percentage, ct.valid_skus,
	       o.initial_quantity, o.current_quantity, o.max_per_person,
	       o.points_cost, o.is_active, o.start_at, o.end_at, o.created_at
	FROM coupon_offer o
	JOIN coupon_type ct ON ct.id = o.coupon_type_id`

func (r *OfferReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OfferView, error) {
	row := r.pool.QueryRow(ctx, offerViewQuery+`
		WHERE o.id = $1`, id)

	view, err := scanOfferView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find offer", err)
	}
	return view, nil
}

func (r *OfferReadStore) ListAvailable(ctx context.Context, entityScope string, entityID uuid.UUID, now time.Time) ([]*queries.OfferView, error) {
	rows, err := r.pool.Query(ctx, offerViewQuery+`
		WHERE o.entity_scope = $1
		  AND o.entity_id = $2
		  AND o.is_active
		  AND (o.start_at IS NULL OR o.start_at <= $3)
		  AND (o.end_at IS NULL OR o.end_at >= $3)
		ORDER BY o.created_at DESC`,
		entityScope, entityID, now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list offers", err)
	}
	defer rows.Close()

	var result []*queries.OfferView
	for rows.Next() {
		view, err := scanOfferView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan offer row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate offers", err)
	}
	return result, nil
}

func (r *OfferReadStore) Stats(ctx context.Context, offerID uuid.UUID) (*queries.OfferStatsView, error) {
	stats := queries.OfferStatsView{OfferID: offerID}
	err := r.pool.QueryRow(ctx, `
		SELECT o.current_quantity,
		       COUNT(c.id) FILTER (WHERE c.status = 'ISSUED'),
		       COUNT(c.id) FILTER (WHERE c.status = 'RESERVED'),
		       COUNT(c.id) FILTER (WHERE c.status = 'REDEEMED'),
		       COUNT(c.id) FILTER (WHERE c.status = 'CANCELLED'),
		       COUNT(c.id) FILTER (WHERE c.status = 'EXPIRED')
		FROM coupon_offer o
		LEFT JOIN coupon c ON c.offer_id = o.id
		WHERE o.id = $1
		GROUP BY o.current_quantity`,
		offerID,
	).Scan(&stats.Remaining, &stats.Issued, &stats.Reserved, &stats.Redeemed, &stats.Cancelled, &stats.Expired)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to query offer stats", err)
	}
	return &stats, nil
}

func scanOfferView(row pgx.Row) (*queries.OfferView, error) {
	var (
		view       queries.OfferView
		amountBRL  pgtype.Numeric
		percentage pgtype.Numeric
		startAt    pgtype.Timestamptz
		endAt      pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.EntityScope, &view.EntityID, &view.CouponTypeID,
		&view.RedeemType, &amountBRL, &percentage, &view.ValidSKUs,
		&view.InitialQuantity, &view.CurrentQuantity, &view.MaxPerPerson,
		&view.PointsCost, &view.IsActive, &startAt, &endAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if view.AmountBRL, err = pgconv.DecimalPtrFromNumeric(amountBRL); err != nil {
		return nil, err
	}
	if view.Percentage, err = pgconv.DecimalPtrFromNumeric(percentage); err != nil {
		return nil, err
	}
	view.StartAt = pgconv.TimePtrFromPgtype(startAt)
	view.EndAt = pgconv.TimePtrFromPgtype(endAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &view, nil
}
