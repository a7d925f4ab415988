package response

import (
	"loyalty-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type IssueCouponResponse struct {
	CouponID uuid.UUID `json:"couponId"`
	Code     string    `json:"code"`
}

func FromIssueCouponResult(result *commands.IssueCouponResult) *IssueCouponResponse {
	return &IssueCouponResponse{
		CouponID: result.CouponID,
		Code:     result.Code,
	}
}

type BulkIssueResponse struct {
	JobID       uuid.UUID `json:"jobId"`
	IssuedCount int       `json:"issuedCount"`
}

func FromBulkIssueResult(result *commands.BulkIssueResult) *BulkIssueResponse {
	return &BulkIssueResponse{
		JobID:       result.JobID,
		IssuedCount: result.IssuedCount,
	}
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type ExpireSweepResponse struct {
	ExpiredCount int `json:"expiredCount"`
}
