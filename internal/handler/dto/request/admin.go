package request

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	Scope         string           `json:"scope" binding:"required"`
	OwnerID       *uuid.UUID       `json:"owner_id"`
	PointsPerBRL  *decimal.Decimal `json:"points_per_brl"`
	ExpiresInDays *int             `json:"expires_in_days"`
}

type CreateCouponTypeRequest struct {
	RedeemType string           `json:"redeem_type" binding:"required"`
	AmountBRL  *decimal.Decimal `json:"amount_brl"`
	Percentage *decimal.Decimal `json:"percentage"`
	ValidSKUs  []string         `json:"valid_skus"`
}

type CreateOfferRequest struct {
	EntityScope     string          `json:"entity_scope" binding:"required"`
	EntityID        uuid.UUID       `json:"entity_id" binding:"required"`
	CouponTypeID    uuid.UUID       `json:"coupon_type_id" binding:"required"`
	CustomerSegment json.RawMessage `json:"customer_segment"`
	InitialQuantity int             `json:"initial_quantity" binding:"required,min=1"`
	MaxPerPerson    int             `json:"max_per_person"`
	PointsCost      int64           `json:"points_cost"`
	StartAt         *time.Time      `json:"start_at"`
	EndAt           *time.Time      `json:"end_at"`
}

type BulkIssueRequest struct {
	Count   int             `json:"count" binding:"required,min=1"`
	Segment json.RawMessage `json:"segment"`
}

type CancelCouponRequest struct {
	Reason string `json:"reason"`
}
