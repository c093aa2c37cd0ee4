// This file implements the mock payment gateway endpoints. A payment is
// created against a pending booking and then processed in a second step;
// processing settles the payment and confirms the booking atomically.
// Expiry is enforced lazily here: touching a lapsed booking persists its
// EXPIRED status instead of relying on a background sweeper.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/model"
	"github.com/moviebook/movie-ticket-booking/internal/queue"
	"github.com/moviebook/movie-ticket-booking/internal/repository"
)

// PaymentHandler groups the repositories used by the payment endpoints.
type PaymentHandler struct {
	ShowRepo    *repository.ShowRepo
	BookingRepo *repository.BookingRepo
	PaymentRepo *repository.PaymentRepo

	// publish is shared with the booking handler so confirmation events
	// travel the same pipeline.
	Bookings *BookingHandler
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(showRepo *repository.ShowRepo, bookingRepo *repository.BookingRepo, paymentRepo *repository.PaymentRepo, bookings *BookingHandler) *PaymentHandler {
	if showRepo == nil || bookingRepo == nil || paymentRepo == nil || bookings == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{ShowRepo: showRepo, BookingRepo: bookingRepo, PaymentRepo: paymentRepo, Bookings: bookings}
}

// CreatePayment handles POST /v1/payments. It initiates a payment for a
// pending booking owned by the authenticated user. The amount is always
// the booking's final amount; clients cannot influence it. A booking can
// have at most one payment record.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingRef string `json:"booking_ref"`
		Method     string `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_ref is required"})
	}
	if !model.ValidMethod(body.Method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()

	tx, err := h.ShowRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.BookingRepo.GetByRefForUserTx(ctx, tx, body.BookingRef, userID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.IsExpired(now) {
		if err := h.BookingRepo.MarkExpiredTx(ctx, tx, booking.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		committed = true
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking has expired"})
	}
	if booking.Status != model.BookingPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not payable"})
	}
	exists, err := h.PaymentRepo.ExistsForBookingTx(ctx, tx, booking.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already exists for this booking"})
	}

	paymentID, err := repository.NewPaymentID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate payment id"})
	}
	payment := &model.Payment{
		BookingID:   booking.ID,
		PaymentID:   paymentID,
		Method:      body.Method,
		AmountCents: booking.FinalAmountCents,
		Status:      model.PaymentInitiated,
		InitiatedAt: now,
	}
	if err := h.PaymentRepo.CreateTx(ctx, tx, payment); err != nil {
		if errors.Is(err, repository.ErrPaymentExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already exists for this booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit payment"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"payment_id":   payment.PaymentID,
		"booking_ref":  booking.BookingRef,
		"method":       payment.Method,
		"amount_cents": payment.AmountCents,
		"status":       payment.Status,
	})
}

// ProcessPayment handles POST /v1/payments/:id/process. The mock gateway
// settles the payment: by default it succeeds, confirming the booking and
// emitting a confirmation event; a body of {"simulate":"fail"} forces the
// failure path. Settlement and booking confirmation commit atomically.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID := c.Param("id")
	if paymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var body struct {
		Simulate string `json:"simulate"`
	}
	// The body is optional; binding errors on an empty body are ignored.
	_ = c.Bind(&body)

	ctx := c.Request().Context()
	now := time.Now().UTC()

	tx, err := h.ShowRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err := h.PaymentRepo.GetByPaymentIDForUserTx(ctx, tx, paymentID, userID)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !payment.CanProcess() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment has already been processed"})
	}
	booking, err := h.BookingRepo.GetByIDTx(ctx, tx, payment.BookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if booking.IsExpired(now) {
		// The hold lapsed before settlement: fail the payment and
		// persist the expiry so the seats go back on the market.
		if err := h.PaymentRepo.FailTx(ctx, tx, payment.ID, now); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := h.BookingRepo.MarkExpiredTx(ctx, tx, booking.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		committed = true
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking has expired"})
	}
	if booking.Status != model.BookingPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not payable"})
	}

	if body.Simulate == "fail" {
		if err := h.PaymentRepo.FailTx(ctx, tx, payment.ID, now); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle payment"})
		}
		if err := h.BookingRepo.MarkPaymentFailedTx(ctx, tx, booking.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle payment"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit settlement"})
		}
		committed = true
		return c.JSON(http.StatusBadRequest, echo.Map{
			"payment_id": payment.PaymentID,
			"status":     model.PaymentFailed,
			"error":      "payment failed",
		})
	}

	txnID := "TXN_" + payment.PaymentID
	if err := h.PaymentRepo.CompleteTx(ctx, tx, payment.ID, txnID, now); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment has already been processed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle payment"})
	}
	if err := h.BookingRepo.ConfirmTx(ctx, tx, booking.ID, now); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not payable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit settlement"})
	}
	committed = true

	h.Bookings.publishEvent(booking, queue.KindPaymentCompleted, 0)

	return c.JSON(http.StatusOK, echo.Map{
		"payment_id":      payment.PaymentID,
		"gateway_txn_id":  txnID,
		"status":          model.PaymentCompleted,
		"booking_ref":     booking.BookingRef,
		"booking_status":  model.BookingConfirmed,
		"amount_cents":    payment.AmountCents,
		"completed_at":    now.Format("2006-01-02 15:04:05"),
	})
}
