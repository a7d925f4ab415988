package repository

import (
	"context"

	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RuleRepository struct {
	db db.DBTX
}

func NewRuleRepository(dbtx db.DBTX) *RuleRepository {
	return &RuleRepository{db: dbtx}
}

const ruleColumns = `id, scope, owner_id, points_per_brl, expires_in_days, created_at`

func (r *RuleRepository) Create(ctx context.Context, pr *rule.PointRule) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO point_rules (id, scope, owner_id, points_per_brl, expires_in_days)
		VALUES ($1, $2, $3, $4, $5)`,
		pr.ID(),
		pr.Scope().String(),
		pgconv.UUIDPtrToPgtype(pr.OwnerID()),
		pgconv.NumericPtrFromDecimal(pr.PointsPerBRL()),
		pr.ExpiresInDays(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create point rule", err)
	}
	return nil
}

func (r *RuleRepository) ForStore(ctx context.Context, storeID uuid.UUID) (*rule.PointRule, error) {
	return r.findOwned(ctx, scope.Store, storeID)
}

func (r *RuleRepository) ForFranchise(ctx context.Context, franchiseID uuid.UUID) (*rule.PointRule, error) {
	return r.findOwned(ctx, scope.Franchise, franchiseID)
}

func (r *RuleRepository) ForCustomer(ctx context.Context, customerID uuid.UUID) (*rule.PointRule, error) {
	return r.findOwned(ctx, scope.Customer, customerID)
}

func (r *RuleRepository) Global(ctx context.Context) (*rule.PointRule, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+ruleColumns+`
		FROM point_rules
		WHERE scope = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		scope.Global.String(),
	)
	return r.scan(row)
}

// findOwned returns (nil, nil) on no match so the resolver falls through
// to the next scope.
func (r *RuleRepository) findOwned(ctx context.Context, sc scope.Scope, ownerID uuid.UUID) (*rule.PointRule, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+ruleColumns+`
		FROM point_rules
		WHERE scope = $1 AND owner_id = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		sc.String(), ownerID,
	)
	return r.scan(row)
}

func (r *RuleRepository) scan(row interface{ Scan(dest ...any) error }) (*rule.PointRule, error) {
	var (
		id            uuid.UUID
		scopeStr      string
		ownerID       pgtype.UUID
		pointsPerBRL  pgtype.Numeric
		expiresInDays *int
		createdAt     pgtype.Timestamptz
	)
	err := row.Scan(&id, &scopeStr, &ownerID, &pointsPerBRL, &expiresInDays, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to scan point rule", err)
	}

	rate, err := pgconv.DecimalPtrFromNumeric(pointsPerBRL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode points_per_brl", err)
	}

	return rule.ReconstructPointRule(
		id,
		scope.Scope(scopeStr),
		pgconv.UUIDPtrFromPgtype(ownerID),
		rate,
		expiresInDays,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
