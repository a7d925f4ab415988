package repository

import (
	"context"
	"encoding/json"

	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OfferRepository struct {
	db db.DBTX
}

func NewOfferRepository(dbtx db.DBTX) *OfferRepository {
	return &OfferRepository{db: dbtx}
}

const offerColumns = `id, entity_scope, entity_id, coupon_type_id, customer_segment,
	initial_quantity, current_quantity, max_per_person, points_cost, is_active,
	start_at, end_at, created_at`

func (r *OfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM coupon_offer
		WHERE id = $1`, id)
	return r.scanOffer(row)
}

// FindByIDForUpdate takes the per-offer exclusive row lock that serializes
// every stock decrement against this offer.
func (r *OfferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM coupon_offer
		WHERE id = $1
		FOR UPDATE`, id)
	return r.scanOffer(row)
}

func (r *OfferRepository) UpdateStock(ctx context.Context, o *offer.Offer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_offer
		SET current_quantity = $2
		WHERE id = $1`,
		o.ID(), o.CurrentQuantity(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update offer stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("offer disappeared during stock update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	segment := o.CustomerSegment()
	if len(segment) == 0 {
		segment = json.RawMessage(`{}`)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon_offer (id, entity_scope, entity_id, coupon_type_id, customer_segment,
			initial_quantity, current_quantity, max_per_person, points_cost, is_active, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID(),
		o.EntityScope().String(),
		o.EntityID(),
		o.CouponTypeID(),
		segment,
		o.InitialQuantity(),
		o.CurrentQuantity(),
		o.MaxPerPerson(),
		o.PointsCost(),
		o.IsActive(),
		pgconv.TimePtrToPgtype(o.StartAt()),
		pgconv.TimePtrToPgtype(o.EndAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create offer", err)
	}
	return nil
}

func (r *OfferRepository) FindTypeByID(ctx context.Context, id uuid.UUID) (*offer.CouponType, error) {
	var (
		typeID     uuid.UUID
		redeemType string
		amountBRL  pgtype.Numeric
		percentage pgtype.Numeric
		validSKUs  []string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, redeem_type, amount_brl, percentage, valid_skus
		FROM coupon_type
		WHERE id = $1`, id,
	).Scan(&typeID, &redeemType, &amountBRL, &percentage, &validSKUs)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon type", err)
	}

	amount, err := pgconv.DecimalPtrFromNumeric(amountBRL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode amount_brl", err)
	}
	pct, err := pgconv.DecimalPtrFromNumeric(percentage)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode percentage", err)
	}

	spec, err := offer.NewDiscountSpec(offer.RedeemType(redeemType), amount, pct, validSKUs)
	if err != nil {
		return nil, infra.WrapRepoErr("stored coupon type is invalid", err)
	}
	return offer.ReconstructCouponType(typeID, spec), nil
}

func (r *OfferRepository) CreateType(ctx context.Context, t *offer.CouponType) error {
	spec := t.Spec()
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon_type (id, redeem_type, amount_brl, percentage, valid_skus)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID(),
		spec.RedeemType().String(),
		pgconv.NumericPtrFromDecimal(spec.AmountBRL()),
		pgconv.NumericPtrFromDecimal(spec.Percentage()),
		spec.ValidSKUs(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create coupon type", err)
	}
	return nil
}

func (r *OfferRepository) scanOffer(row interface{ Scan(dest ...any) error }) (*offer.Offer, error) {
	var (
		id              uuid.UUID
		entityScope     string
		entityID        uuid.UUID
		couponTypeID    uuid.UUID
		customerSegment []byte
		initialQuantity int
		currentQuantity int
		maxPerPerson    int
		pointsCost      int64
		isActive        bool
		startAt         pgtype.Timestamptz
		endAt           pgtype.Timestamptz
		createdAt       pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &entityScope, &entityID, &couponTypeID, &customerSegment,
		&initialQuantity, &currentQuantity, &maxPerPerson, &pointsCost, &isActive,
		&startAt, &endAt, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan offer", err)
	}

	return offer.ReconstructOffer(
		id,
		scope.Scope(entityScope),
		entityID,
		couponTypeID,
		customerSegment,
		initialQuantity, currentQuantity, maxPerPerson,
		pointsCost,
		isActive,
		pgconv.TimePtrFromPgtype(startAt),
		pgconv.TimePtrFromPgtype(endAt),
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
