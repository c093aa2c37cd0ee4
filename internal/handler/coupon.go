// This file implements dry-run coupon validation. The endpoint lets a
// client preview the discount before creating a booking; actual
// redemption happens inside the booking transaction and may still fail
// there if the coupon is exhausted in the meantime.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/repository"
)

// CouponHandler serves coupon validation for authenticated customers.
type CouponHandler struct {
	CouponRepo *repository.CouponRepo
}

// NewCouponHandler constructs a CouponHandler.
func NewCouponHandler(couponRepo *repository.CouponRepo) *CouponHandler {
	if couponRepo == nil {
		panic("nil repository passed to NewCouponHandler")
	}
	return &CouponHandler{CouponRepo: couponRepo}
}

// ValidateCoupon handles POST /v1/coupons/validate. Given a code and an
// order amount it reports whether the coupon applies for the current
// user and what the discounted total would be. The check is advisory and
// reserves nothing.
func (h *CouponHandler) ValidateCoupon(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Code        string `json:"code"`
		AmountCents uint32 `json:"amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	code := strings.TrimSpace(body.Code)
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	if body.AmountCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents is required"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()

	coupon, err := h.CouponRepo.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrCouponNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"valid": false, "error": "invalid coupon code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	priorUses, err := h.CouponRepo.CountUsageByUser(ctx, coupon.ID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !coupon.CanBeUsedBy(now, priorUses) {
		return c.JSON(http.StatusBadRequest, echo.Map{"valid": false, "error": "coupon usage limit exceeded or coupon not valid"})
	}
	discount := coupon.CalculateDiscount(now, body.AmountCents)
	if discount == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"valid": false,
			"error": "order amount does not meet the coupon minimum",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":                 true,
		"code":                  coupon.Code,
		"description":           coupon.Description,
		"discount_amount_cents": discount,
		"final_amount_cents":    body.AmountCents - discount,
	})
}
