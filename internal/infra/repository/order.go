package repository

import (
	"context"
	"encoding/json"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o shared.OrderRecord) (uuid.UUID, error) {
	items := o.Items
	if len(items) == 0 {
		items = json.RawMessage(`[]`)
	}
	shipping := o.Shipping
	if len(shipping) == 0 {
		shipping = json.RawMessage(`{}`)
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (store_id, person_id, total_brl, tax_brl, items, shipping, checkout_ref, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		o.StoreID,
		o.PersonID,
		pgconv.NumericFromDecimal(o.TotalBRL),
		pgconv.NumericFromDecimal(o.TaxBRL),
		items,
		shipping,
		pgconv.StringPtrToPgtype(o.CheckoutRef),
		pgconv.StringPtrToPgtype(o.ExternalID),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}
	return id, nil
}
