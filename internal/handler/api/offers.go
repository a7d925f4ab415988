package api

import (
	"errors"
	"net/http"

	reqdto "loyalty-core/internal/handler/dto/request"
	resdto "loyalty-core/internal/handler/dto/response"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/usecase/commands"
	"loyalty-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OfferHandler struct {
	couponCommands commands.CouponCommands
	offerQueries   queries.OfferQueries
}

func NewOfferHandler(couponCommands commands.CouponCommands, offerQueries queries.OfferQueries) *OfferHandler {
	return &OfferHandler{
		couponCommands: couponCommands,
		offerQueries:   offerQueries,
	}
}

// @Summary List available offers
// @Description List active offers within their window for one entity
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param scope query string true "Entity scope"
// @Param entity_id query string true "Entity ID"
// @Success 200 {array} queries.OfferView
// @Failure 400 {object} map[string]string
// @Router /offers [get]
func (h *OfferHandler) ListAvailable(c *gin.Context) {
	entityScope := c.Query("scope")
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if entityScope == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "scope and entity_id query parameters are required",
		})
		return
	}

	offers, err := h.offerQueries.ListAvailable(c.Request.Context(), entityScope, entityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// @Summary Get offer
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} queries.OfferView
// @Failure 404 {object} map[string]string
// @Router /offers/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}

	view, err := h.offerQueries.Get(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Issue coupon
// @Description Issue one coupon from the offer to a person, charging its points cost
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body reqdto.IssueCouponRequest true "Recipient"
// @Success 201 {object} resdto.IssueCouponResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /offers/{id}/issue [post]
func (h *OfferHandler) Issue(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}

	var req reqdto.IssueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.couponCommands.IssueCoupon(c.Request.Context(), commands.IssueCouponInput{
		OfferID:  offerID,
		PersonID: req.PersonID,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		case errors.Is(err, commands.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		case errors.Is(err, commands.ErrOfferInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Offer is not active"})
		case errors.Is(err, commands.ErrOfferNotYetAvailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Offer is not yet available"})
		case errors.Is(err, commands.ErrOfferExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Offer has expired"})
		case errors.Is(err, commands.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Offer is out of stock"})
		case errors.Is(err, commands.ErrPerPersonLimitReached):
			c.JSON(http.StatusConflict, gin.H{"error": "Per-person coupon limit reached"})
		case errors.Is(err, commands.ErrInsufficientPoints):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient points balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromIssueCouponResult(result))
}

// @Summary Offer statistics
// @Description Coupon counts per status plus remaining stock
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} queries.OfferStatsView
// @Failure 404 {object} map[string]string
// @Router /offers/{id}/stats [get]
func (h *OfferHandler) Stats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}

	stats, err := h.offerQueries.GetStats(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
