package request

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderPayload struct {
	TotalBRL    decimal.Decimal `json:"total_brl" binding:"required"`
	TaxBRL      decimal.Decimal `json:"tax_brl"`
	Items       json.RawMessage `json:"items"`
	Shipping    json.RawMessage `json:"shipping"`
	CheckoutRef *string         `json:"checkout_ref"`
	ExternalID  *string         `json:"external_id"`
}

// EarnPointsRequest identifies the earner by internal id or CPF; exactly
// one must be set.
type EarnPointsRequest struct {
	PersonID *uuid.UUID   `json:"person_id"`
	CPF      *string      `json:"cpf"`
	StoreID  uuid.UUID    `json:"store_id" binding:"required"`
	Order    OrderPayload `json:"order" binding:"required"`
}

func (r *EarnPointsRequest) HasIdentity() bool {
	return (r.PersonID != nil) != (r.CPF != nil)
}

type AttemptRedeemRequest struct {
	Code          string          `json:"code" binding:"required"`
	StoreID       uuid.UUID       `json:"store_id" binding:"required"`
	OrderTotalBRL decimal.Decimal `json:"order_total_brl"`
	ItemSKUs      []string        `json:"item_skus"`
}

type ConfirmRedeemRequest struct {
	CouponID        uuid.UUID     `json:"coupon_id" binding:"required"`
	StoreID         *uuid.UUID    `json:"store_id"`
	ExternalOrderID *string       `json:"order_id"`
	Order           *OrderPayload `json:"order"`
	PersonID        *uuid.UUID    `json:"person_id"`
}
