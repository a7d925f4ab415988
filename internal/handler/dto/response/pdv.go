package response

import (
	"time"

	"loyalty-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EarnPointsResponse struct {
	OrderID      uuid.UUID `json:"orderId"`
	PointsEarned int64     `json:"pointsEarned"`
	WalletTotal  int64     `json:"walletTotal"`
}

func FromEarnPointsResult(result *commands.EarnPointsResult) *EarnPointsResponse {
	return &EarnPointsResponse{
		OrderID:      result.OrderID,
		PointsEarned: result.PointsEarned,
		WalletTotal:  result.WalletTotal,
	}
}

type DiscountResponse struct {
	Type       string           `json:"type"`
	AmountBRL  *decimal.Decimal `json:"amountBrl,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	FreeSKUs   []string         `json:"freeSkus,omitempty"`
}

type AttemptRedeemResponse struct {
	CouponID      uuid.UUID        `json:"couponId"`
	Discount      DiscountResponse `json:"discount"`
	ReservedUntil time.Time        `json:"reservedUntil"`
}

func FromAttemptResult(result *commands.AttemptResult) *AttemptRedeemResponse {
	return &AttemptRedeemResponse{
		CouponID: result.CouponID,
		Discount: DiscountResponse{
			Type:       result.Discount.Type.String(),
			AmountBRL:  result.Discount.AmountBRL,
			Percentage: result.Discount.Percentage,
			FreeSKUs:   result.Discount.FreeSKUs,
		},
		ReservedUntil: result.ReservedUntil,
	}
}

type ConfirmRedeemResponse struct {
	CouponID   uuid.UUID  `json:"couponId"`
	RedeemedAt time.Time  `json:"redeemedAt"`
	OrderID    *uuid.UUID `json:"orderId,omitempty"`
}

func FromConfirmResult(result *commands.ConfirmResult) *ConfirmRedeemResponse {
	return &ConfirmRedeemResponse{
		CouponID:   result.CouponID,
		RedeemedAt: result.RedeemedAt,
		OrderID:    result.OrderID,
	}
}
