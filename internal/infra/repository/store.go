package repository

import (
	"context"

	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type StoreRepository struct {
	db db.DBTX
}

func NewStoreRepository(dbtx db.DBTX) *StoreRepository {
	return &StoreRepository{db: dbtx}
}

func (r *StoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.StoreSnapshot, error) {
	var snapshot shared.StoreSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT s.id, s.franchise_id, f.customer_id, s.name
		FROM store s
		JOIN franchise f ON f.id = s.franchise_id
		WHERE s.id = $1`, id,
	).Scan(&snapshot.ID, &snapshot.FranchiseID, &snapshot.CustomerID, &snapshot.Name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("store not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find store", err)
	}
	return &snapshot, nil
}

// AncestryForScope normalizes any owner into its (store, franchise,
// customer) chain. The parts above the owner's own level stay nil; GLOBAL
// has no ancestry at all.
func (r *StoreRepository) AncestryForScope(ctx context.Context, sc scope.Scope, ownerID uuid.UUID) (storeID, franchiseID, customerID *uuid.UUID, err error) {
	switch sc {
	case scope.Store:
		snapshot, findErr := r.FindByID(ctx, ownerID)
		if findErr != nil {
			return nil, nil, nil, findErr
		}
		return &snapshot.ID, &snapshot.FranchiseID, &snapshot.CustomerID, nil

	case scope.Franchise:
		var cID uuid.UUID
		scanErr := r.db.QueryRow(ctx, `
			SELECT customer_id
			FROM franchise
			WHERE id = $1`, ownerID,
		).Scan(&cID)
		if scanErr != nil {
			if pgconv.IsNoRows(scanErr) {
				return nil, nil, nil, infra.WrapRepoErr("franchise not found", scanErr, infra.KindNotFound)
			}
			return nil, nil, nil, infra.WrapRepoErr("failed to find franchise", scanErr)
		}
		fID := ownerID
		return nil, &fID, &cID, nil

	case scope.Customer:
		var exists bool
		scanErr := r.db.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`, ownerID,
		).Scan(&exists)
		if scanErr != nil {
			return nil, nil, nil, infra.WrapRepoErr("failed to check customer", scanErr)
		}
		if !exists {
			return nil, nil, nil, infra.WrapRepoErr("customer not found", nil, infra.KindNotFound)
		}
		cID := ownerID
		return nil, nil, &cID, nil

	default:
		return nil, nil, nil, nil
	}
}
