package request

import "github.com/google/uuid"

type IssueCouponRequest struct {
	PersonID uuid.UUID `json:"person_id" binding:"required"`
}
