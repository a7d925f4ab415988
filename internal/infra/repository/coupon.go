package repository

import (
	"context"

	"loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{db: dbtx}
}

const couponColumns = `id, offer_id, person_id, code_hash, status, issued_at,
	reserved_until, redeemed_at, redeemed_store_id`

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon (id, offer_id, person_id, code_hash, status)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID(), c.OfferID(), c.PersonID(), c.CodeHash(), c.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

// ActiveCodeHashes feeds the constant-time matcher: codes are never stored
// or queried in plaintext, so lookup walks the live hashes.
func (r *CouponRepository) ActiveCodeHashes(ctx context.Context) ([]shared.CodeHashRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code_hash
		FROM coupon
		WHERE status IN ('ISSUED', 'RESERVED')`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active code hashes", err)
	}
	defer rows.Close()

	var result []shared.CodeHashRow
	for rows.Next() {
		var row shared.CodeHashRow
		if err := rows.Scan(&row.CouponID, &row.CodeHash); err != nil {
			return nil, infra.WrapRepoErr("failed to scan code hash row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate code hash rows", err)
	}
	return result, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+couponColumns+`
		FROM coupon
		WHERE id = $1`, id)
	return r.scan(row)
}

func (r *CouponRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+couponColumns+`
		FROM coupon
		WHERE id = $1
		FOR UPDATE`, id)
	return r.scan(row)
}

func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon
		SET status = $2, reserved_until = $3, redeemed_at = $4, redeemed_store_id = $5
		WHERE id = $1`,
		c.ID(),
		c.Status().String(),
		pgconv.TimePtrToPgtype(c.ReservedUntil()),
		pgconv.TimePtrToPgtype(c.RedeemedAt()),
		pgconv.UUIDPtrToPgtype(c.RedeemedStoreID()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon disappeared during save", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) FindLiveByOffer(ctx context.Context, offerID uuid.UUID) ([]*coupon.Coupon, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupon
		WHERE offer_id = $1 AND status IN ('ISSUED', 'RESERVED')
		FOR UPDATE`, offerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list live coupons", err)
	}
	defer rows.Close()

	var result []*coupon.Coupon
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate live coupons", err)
	}
	return result, nil
}

// CountHeldByPerson counts ISSUED and RESERVED coupons toward the
// per-person cap; terminal coupons free their slot.
func (r *CouponRepository) CountHeldByPerson(ctx context.Context, offerID, personID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM coupon
		WHERE offer_id = $1 AND person_id = $2 AND status IN ('ISSUED', 'RESERVED')`,
		offerID, personID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count held coupons", err)
	}
	return count, nil
}

func (r *CouponRepository) scan(row interface{ Scan(dest ...any) error }) (*coupon.Coupon, error) {
	var (
		id              uuid.UUID
		offerID         uuid.UUID
		personID        uuid.UUID
		codeHash        []byte
		status          string
		issuedAt        pgtype.Timestamptz
		reservedUntil   pgtype.Timestamptz
		redeemedAt      pgtype.Timestamptz
		redeemedStoreID pgtype.UUID
	)
	err := row.Scan(&id, &offerID, &personID, &codeHash, &status, &issuedAt,
		&reservedUntil, &redeemedAt, &redeemedStoreID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon", err)
	}

	return coupon.Reconstruct(
		id, offerID, personID,
		codeHash,
		coupon.Status(status),
		pgconv.TimeFromPgtype(issuedAt),
		pgconv.TimePtrFromPgtype(reservedUntil),
		pgconv.TimePtrFromPgtype(redeemedAt),
		pgconv.UUIDPtrFromPgtype(redeemedStoreID),
	), nil
}
