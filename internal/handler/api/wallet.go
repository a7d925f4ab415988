package api

import (
	"errors"
	"net/http"

	"loyalty-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletHandler struct {
	walletQueries queries.WalletQueries
	couponQueries queries.CouponQueries
}

func NewWalletHandler(walletQueries queries.WalletQueries, couponQueries queries.CouponQueries) *WalletHandler {
	return &WalletHandler{
		walletQueries: walletQueries,
		couponQueries: couponQueries,
	}
}

// @Summary Get wallet
// @Description Per-scope point balances, currency valuations and coupon counts
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param person_id path string true "Person ID"
// @Success 200 {object} queries.WalletView
// @Failure 404 {object} map[string]string
// @Router /wallet/{person_id} [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	personID, err := uuid.Parse(c.Param("person_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person ID format"})
		return
	}

	wallet, err := h.walletQueries.GetWallet(c.Request.Context(), personID)
	if err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// @Summary List coupons
// @Description Coupons held by a person, optionally filtered by status
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param person_id path string true "Person ID"
// @Param status query string false "Coupon status filter"
// @Success 200 {array} queries.CouponListItem
// @Router /wallet/{person_id}/coupons [get]
func (h *WalletHandler) ListCoupons(c *gin.Context) {
	personID, err := uuid.Parse(c.Param("person_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person ID format"})
		return
	}

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	coupons, err := h.couponQueries.ListByPerson(c.Request.Context(), personID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, coupons)
}
