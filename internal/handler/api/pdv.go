package api

import (
	"errors"
	"net/http"

	reqdto "loyalty-core/internal/handler/dto/request"
	resdto "loyalty-core/internal/handler/dto/response"
	"loyalty-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// PDVHandler serves the point-of-sale terminals: earning points on a sale
// and redeeming coupon codes in two phases.
type PDVHandler struct {
	pointsCommands     commands.PointsCommands
	redemptionCommands commands.RedemptionCommands
}

func NewPDVHandler(pointsCommands commands.PointsCommands, redemptionCommands commands.RedemptionCommands) *PDVHandler {
	return &PDVHandler{
		pointsCommands:     pointsCommands,
		redemptionCommands: redemptionCommands,
	}
}

// @Summary Earn points
// @Description Record a sale and credit points under the resolved rule
// @Tags pdv
// @Accept json
// @Produce json
// @Param request body reqdto.EarnPointsRequest true "Sale details"
// @Success 201 {object} resdto.EarnPointsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /pdv/earn [post]
func (h *PDVHandler) EarnPoints(c *gin.Context) {
	var req reqdto.EarnPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if !req.HasIdentity() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Exactly one of person_id or cpf is required",
		})
		return
	}

	result, err := h.pointsCommands.EarnPoints(c.Request.Context(), commands.EarnPointsInput{
		PersonID: req.PersonID,
		CPF:      req.CPF,
		StoreID:  req.StoreID,
		Order: commands.OrderInput{
			TotalBRL:    req.Order.TotalBRL,
			TaxBRL:      req.Order.TaxBRL,
			Items:       req.Order.Items,
			Shipping:    req.Order.Shipping,
			CheckoutRef: req.Order.CheckoutRef,
			ExternalID:  req.Order.ExternalID,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		case errors.Is(err, commands.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		case errors.Is(err, commands.ErrNoApplicableRule):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No applicable point rule found"})
		case errors.Is(err, commands.ErrAmountTooSmall):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Order amount too small"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromEarnPointsResult(result))
}

// @Summary Attempt redemption
// @Description Match a coupon code, compute the discount and reserve the coupon
// @Tags pdv
// @Accept json
// @Produce json
// @Param request body reqdto.AttemptRedeemRequest true "Code and order context"
// @Success 200 {object} resdto.AttemptRedeemResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /pdv/redeem/attempt [post]
func (h *PDVHandler) AttemptRedeem(c *gin.Context) {
	var req reqdto.AttemptRedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.redemptionCommands.Attempt(c.Request.Context(), commands.AttemptInput{
		Code:          req.Code,
		StoreID:       req.StoreID,
		OrderTotalBRL: req.OrderTotalBRL,
		ItemSKUs:      req.ItemSKUs,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, commands.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		case errors.Is(err, commands.ErrOfferInactive),
			errors.Is(err, commands.ErrOfferNotYetAvailable),
			errors.Is(err, commands.ErrOfferExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Coupon is not currently redeemable"})
		case errors.Is(err, commands.ErrNoEligibleItems):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No eligible items for this coupon"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAttemptResult(result))
}

// @Summary Confirm redemption
// @Description Consume a reserved coupon and optionally record the finished order
// @Tags pdv
// @Accept json
// @Produce json
// @Param request body reqdto.ConfirmRedeemRequest true "Reserved coupon"
// @Success 200 {object} resdto.ConfirmRedeemResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pdv/redeem/confirm [post]
func (h *PDVHandler) ConfirmRedeem(c *gin.Context) {
	var req reqdto.ConfirmRedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	input := commands.ConfirmInput{
		CouponID:        req.CouponID,
		StoreID:         req.StoreID,
		ExternalOrderID: req.ExternalOrderID,
		PersonID:        req.PersonID,
	}
	if req.Order != nil {
		input.Order = &commands.OrderInput{
			TotalBRL:    req.Order.TotalBRL,
			TaxBRL:      req.Order.TaxBRL,
			Items:       req.Order.Items,
			Shipping:    req.Order.Shipping,
			CheckoutRef: req.Order.CheckoutRef,
			ExternalID:  req.Order.ExternalID,
		}
	}

	result, err := h.redemptionCommands.Confirm(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotReservedOrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not reserved or not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromConfirmResult(result))
}
