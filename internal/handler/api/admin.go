package api

import (
	"errors"
	"net/http"

	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/scope"
	reqdto "loyalty-core/internal/handler/dto/request"
	resdto "loyalty-core/internal/handler/dto/response"
	"loyalty-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler groups the configuration and back-office operations: rules,
// coupon types, offers, bulk grants, cancellation and the expiry sweep.
type AdminHandler struct {
	adminCommands      commands.AdminCommands
	couponCommands     commands.CouponCommands
	redemptionCommands commands.RedemptionCommands
}

func NewAdminHandler(
	adminCommands commands.AdminCommands,
	couponCommands commands.CouponCommands,
	redemptionCommands commands.RedemptionCommands,
) *AdminHandler {
	return &AdminHandler{
		adminCommands:      adminCommands,
		couponCommands:     couponCommands,
		redemptionCommands: redemptionCommands,
	}
}

// @Summary Create point rule
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRuleRequest true "Rule"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 422 {object} map[string]string
// @Router /admin/rules [post]
func (h *AdminHandler) CreateRule(c *gin.Context) {
	var req reqdto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.adminCommands.CreateRule(c.Request.Context(), commands.CreateRuleInput{
		Scope:         scope.Scope(req.Scope),
		OwnerID:       req.OwnerID,
		PointsPerBRL:  req.PointsPerBRL,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		if errors.Is(err, commands.ErrInvalidRule) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid point rule"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Create coupon type
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponTypeRequest true "Coupon type"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 422 {object} map[string]string
// @Router /admin/coupon-types [post]
func (h *AdminHandler) CreateCouponType(c *gin.Context) {
	var req reqdto.CreateCouponTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.adminCommands.CreateCouponType(c.Request.Context(), commands.CreateCouponTypeInput{
		RedeemType: offer.RedeemType(req.RedeemType),
		AmountBRL:  req.AmountBRL,
		Percentage: req.Percentage,
		ValidSKUs:  req.ValidSKUs,
	})
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCouponType) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid coupon type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Create offer
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOfferRequest true "Offer"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 422 {object} map[string]string
// @Router /admin/offers [post]
func (h *AdminHandler) CreateOffer(c *gin.Context) {
	var req reqdto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.adminCommands.CreateOffer(c.Request.Context(), commands.CreateOfferInput{
		EntityScope:     scope.Scope(req.EntityScope),
		EntityID:        req.EntityID,
		CouponTypeID:    req.CouponTypeID,
		CustomerSegment: req.CustomerSegment,
		InitialQuantity: req.InitialQuantity,
		MaxPerPerson:    req.MaxPerPerson,
		PointsCost:      req.PointsCost,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
	})
	if err != nil {
		if errors.Is(err, commands.ErrInvalidOffer) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid offer"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Bulk issue coupons
// @Description Grant coupons from one offer to a segment of people
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body reqdto.BulkIssueRequest true "Batch"
// @Success 201 {object} resdto.BulkIssueResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/offers/{id}/bulk-issue [post]
func (h *AdminHandler) BulkIssue(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}

	var req reqdto.BulkIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.couponCommands.BulkIssue(c.Request.Context(), commands.BulkIssueInput{
		OfferID: offerID,
		Count:   req.Count,
		Segment: req.Segment,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		case errors.Is(err, commands.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Offer is out of stock"})
		case errors.Is(err, commands.ErrInsufficientAudience):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Not enough people match the segment"})
		case errors.Is(err, commands.ErrOfferInactive),
			errors.Is(err, commands.ErrOfferNotYetAvailable),
			errors.Is(err, commands.ErrOfferExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Offer is not currently issuable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBulkIssueResult(result))
}

// @Summary Cancel coupon
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param request body reqdto.CancelCouponRequest false "Reason"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/coupons/{id}/cancel [post]
func (h *AdminHandler) CancelCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID format"})
		return
	}

	// Body is optional; an absent reason is fine.
	var req reqdto.CancelCouponRequest
	_ = c.ShouldBindJSON(&req)

	err = h.redemptionCommands.Cancel(c.Request.Context(), commands.CancelInput{
		CouponID: couponID,
		Reason:   req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, commands.ErrAlreadyRedeemed):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot cancel a redeemed coupon"})
		case errors.Is(err, commands.ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon is already cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Expire coupons
// @Description Force-expire live coupons of an offer whose window has closed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} resdto.ExpireSweepResponse
// @Failure 404 {object} map[string]string
// @Router /admin/offers/{id}/expire [post]
func (h *AdminHandler) ExpireSweep(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}

	count, err := h.redemptionCommands.ExpireSweep(c.Request.Context(), offerID)
	if err != nil {
		if errors.Is(err, commands.ErrOfferNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.ExpireSweepResponse{ExpiredCount: count})
}
