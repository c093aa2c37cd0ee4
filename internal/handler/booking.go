// This file implements the booking lifecycle endpoints: creation with
// seat locking and coupon redemption, history listing, detail lookup,
// cancellation with refund, and the per-user summary. Creation and
// cancellation run inside database transactions; the availability check
// and the seat inserts happen under a lock on the show row so two
// concurrent requests for the same seats cannot both succeed.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/model"
	"github.com/moviebook/movie-ticket-booking/internal/queue"
	"github.com/moviebook/movie-ticket-booking/internal/repository"
	"github.com/moviebook/movie-ticket-booking/internal/service/notifier"
)

// BookingHandler groups the repositories and tuning knobs used by the
// booking endpoints. All methods assume JWT authentication has already
// populated the user in the context.
type BookingHandler struct {
	ShowRepo    *repository.ShowRepo
	SeatRepo    *repository.SeatRepo
	BookingRepo *repository.BookingRepo
	PaymentRepo *repository.PaymentRepo
	CouponRepo  *repository.CouponRepo

	FeePerTicketCents uint32
	BookingTTL        time.Duration
	CancelWindow      time.Duration
	MaxSeats          int
}

// NewBookingHandler constructs a BookingHandler. All repositories must
// be non-nil.
func NewBookingHandler(showRepo *repository.ShowRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo, paymentRepo *repository.PaymentRepo, couponRepo *repository.CouponRepo, feePerTicketCents uint32, bookingTTL, cancelWindow time.Duration, maxSeats int) *BookingHandler {
	if showRepo == nil || seatRepo == nil || bookingRepo == nil || paymentRepo == nil || couponRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		ShowRepo:          showRepo,
		SeatRepo:          seatRepo,
		BookingRepo:       bookingRepo,
		PaymentRepo:       paymentRepo,
		CouponRepo:        couponRepo,
		FeePerTicketCents: feePerTicketCents,
		BookingTTL:        bookingTTL,
		CancelWindow:      cancelWindow,
		MaxSeats:          maxSeats,
	}
}

// CreateBooking handles POST /v1/bookings. It reserves the requested
// seats for the authenticated user and returns a PENDING booking that
// must be paid within the booking TTL. The seat availability check, the
// price snapshot and the inserts all run in one transaction under a lock
// on the show row, so of two concurrent requests for overlapping seats
// exactly one wins; the loser receives 409 with the contested seat IDs.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowID      uint64   `json:"show_id"`
		SeatIDs     []uint64 `json:"seat_ids"`
		PhoneNumber string   `json:"phone_number"`
		Email       string   `json:"email"`
		CouponCode  string   `json:"coupon_code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}
	if body.PhoneNumber == "" || body.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number and email are required"})
	}
	seatIDs := dedupeSeatIDs(body.SeatIDs)
	if msg := validateSeatCount(len(seatIDs), h.MaxSeats); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()

	show, err := h.ShowRepo.GetByID(ctx, body.ShowID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show is not open for booking"})
	}
	if show.IsPast(now) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show has already started"})
	}

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

	// Serialize concurrent bookings for the same show.
	if err := h.ShowRepo.LockTx(ctx, tx, show.ID); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	seats, err := h.SeatRepo.GetActiveOnScreenTx(ctx, tx, show.ScreenID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(seats) != len(seatIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more seats do not exist on this screen"})
	}

	blocked, err := h.BookingRepo.BlockedSeatIDsTx(ctx, tx, show.ID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(blocked) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "some seats are no longer available",
			"unavailable": blocked,
		})
	}

	overrides, err := h.ShowRepo.PricingOverridesTx(ctx, tx, show.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Resolve the coupon before computing amounts so the discount is
	// part of the same snapshot.
	var coupon *model.Coupon
	var discount uint32
	seatTotal := uint32(0)
	for _, s := range seats {
		seatTotal += model.ResolveSeatPrice(overrides, s.CategoryID, show.BasePriceCents)
	}
	if code := strings.TrimSpace(body.CouponCode); code != "" {
		coupon, err = h.CouponRepo.GetByCodeTx(ctx, tx, code)
		if err != nil {
			if err == repository.ErrCouponNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coupon code"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		priorUses, err := h.CouponRepo.CountUsageByUserTx(ctx, tx, coupon.ID, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if !coupon.CanBeUsedBy(now, priorUses) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "coupon usage limit exceeded or coupon not valid"})
		}
		discount = coupon.CalculateDiscount(now, seatTotal)
	}

	amt, prices := computeAmounts(seats, overrides, show.BasePriceCents, h.FeePerTicketCents, discount)

	ref, err := repository.NewBookingRef()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate booking reference"})
	}
	booking := &model.Booking{
		BookingRef:          ref,
		UserID:              userID,
		ShowID:              show.ID,
		Quantity:            uint32(len(seats)),
		TotalAmountCents:    amt.TotalCents,
		ConvenienceFeeCents: amt.FeeCents,
		DiscountAmountCents: amt.DiscountCents,
		FinalAmountCents:    amt.FinalCents,
		Status:              model.BookingPending,
		PaymentStatus:       model.PayStatusPending,
		PhoneNumber:         body.PhoneNumber,
		Email:               body.Email,
		ExpiryTime:          now.Add(h.BookingTTL),
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	bookedSeats := make([]model.BookedSeat, 0, len(seats))
	for _, s := range seats {
		bookedSeats = append(bookedSeats, model.BookedSeat{
			BookingID:  booking.ID,
			ShowID:     show.ID,
			SeatID:     s.ID,
			PriceCents: prices[s.ID],
		})
	}
	if err := h.BookingRepo.CreateSeatsBulkTx(ctx, tx, bookedSeats); err != nil {
		if errors.Is(err, repository.ErrSeatsUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seats"})
	}

	if coupon != nil && amt.DiscountCents > 0 {
		usage := &model.CouponUsage{
			CouponID:            coupon.ID,
			UserID:              userID,
			BookingID:           booking.ID,
			DiscountAmountCents: amt.DiscountCents,
			UsedAt:              now,
		}
		if err := h.CouponRepo.CreateUsageTx(ctx, tx, usage); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record coupon usage"})
		}
		if err := h.CouponRepo.IncrementUsedTx(ctx, tx, coupon.ID); err != nil {
			if errors.Is(err, repository.ErrCouponExhausted) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "coupon usage limit exceeded"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to redeem coupon"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit booking"})
	}
	committed = true

	h.publishEvent(booking, queue.KindBookingCreated, 0)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_ref":           booking.BookingRef,
		"status":                booking.Status,
		"quantity":              booking.Quantity,
		"total_amount_cents":    booking.TotalAmountCents,
		"convenience_fee_cents": booking.ConvenienceFeeCents,
		"discount_amount_cents": booking.DiscountAmountCents,
		"final_amount_cents":    booking.FinalAmountCents,
		"expiry_time":           booking.ExpiryTime.Format("2006-01-02 15:04:05"),
	})
}

// ListBookings handles GET /v1/bookings. It returns the authenticated
// user's booking history, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:ref. It returns the full booking
// detail with seats and payment state. Expiry is lazy: a pending booking
// past its expiry time is reported with is_expired=true without any
// background job flipping its status.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	ctx := c.Request().Context()
	booking, err := h.BookingRepo.GetByRefForUser(ctx, ref, userID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.BookingRepo.SeatsForBooking(ctx, booking.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	listing, err := h.ShowRepo.ListingByID(ctx, booking.ShowID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	payment, err := h.PaymentRepo.GetByBooking(ctx, booking.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := echo.Map{
		"booking_ref":           booking.BookingRef,
		"status":                booking.Status,
		"payment_status":        booking.PaymentStatus,
		"is_expired":            booking.IsExpired(time.Now().UTC()),
		"quantity":              booking.Quantity,
		"total_amount_cents":    booking.TotalAmountCents,
		"convenience_fee_cents": booking.ConvenienceFeeCents,
		"discount_amount_cents": booking.DiscountAmountCents,
		"final_amount_cents":    booking.FinalAmountCents,
		"phone_number":          booking.PhoneNumber,
		"email":                 booking.Email,
		"created_at":            booking.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		"expiry_time":           booking.ExpiryTime.UTC().Format("2006-01-02 15:04:05"),
		"show":                  listing,
		"seats":                 seats,
	}
	if payment != nil {
		resp["payment"] = echo.Map{
			"payment_id":   payment.PaymentID,
			"method":       payment.Method,
			"amount_cents": payment.AmountCents,
			"status":       payment.Status,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// CancelBooking handles POST /v1/bookings/:ref/cancel. Only a confirmed
// booking for a future show can be cancelled, and only up to the
// configured window before showtime. If a completed payment exists it is
// marked refunded; the mock gateway refunds the full final amount.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
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

	booking, err := h.BookingRepo.GetByRefForUserTx(ctx, tx, ref, userID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	show, err := h.ShowRepo.GetByID(ctx, booking.ShowID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !booking.CanBeCancelled(now, show.StartsAt(), h.CancelWindow) {
		if booking.Status != model.BookingConfirmed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "only confirmed bookings can be cancelled"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking can no longer be cancelled"})
	}

	refund, err := h.PaymentRepo.CompletedForBookingTx(ctx, tx, booking.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.BookingRepo.CancelTx(ctx, tx, booking.ID, now, refund); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking can no longer be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	if refund {
		if err := h.PaymentRepo.RefundByBookingTx(ctx, tx, booking.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to refund payment"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit cancellation"})
	}
	committed = true

	var refundCents uint32
	if refund {
		refundCents = booking.FinalAmountCents
	}
	h.publishEvent(booking, queue.KindBookingCancelled, refundCents)

	resp := echo.Map{
		"booking_ref": booking.BookingRef,
		"status":      model.BookingCancelled,
	}
	if refund {
		resp["refund_amount_cents"] = refundCents
	}
	return c.JSON(http.StatusOK, resp)
}

// BookingSummary handles GET /v1/bookings/summary. It returns aggregate
// counts and total spend for the authenticated user.
func (h *BookingHandler) BookingSummary(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	summary, err := h.BookingRepo.SummaryForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, summary)
}

// publishEvent emits a notification event after a committed transaction.
// Publishing is fire-and-forget on a detached context: a broker outage
// must never fail or delay the HTTP response.
func (h *BookingHandler) publishEvent(b *model.Booking, kind string, refundCents uint32) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		listing, err := h.ShowRepo.ListingByID(ctx, b.ShowID)
		if err != nil {
			return
		}
		seats, err := h.BookingRepo.SeatsForBooking(ctx, b.ID)
		if err != nil {
			return
		}
		seatNumbers := make([]string, 0, len(seats))
		for _, s := range seats {
			seatNumbers = append(seatNumbers, s.SeatNumber)
		}
		_ = notifier.Publish(ctx, queue.NotificationEvent{
			Kind:              kind,
			BookingRef:        b.BookingRef,
			Email:             b.Email,
			Phone:             b.PhoneNumber,
			MovieTitle:        listing.MovieTitle,
			TheaterName:       listing.TheaterName,
			ScreenName:        listing.ScreenName,
			ShowDate:          listing.ShowDate,
			ShowTime:          listing.ShowTime,
			Seats:             seatNumbers,
			FinalAmountCents:  b.FinalAmountCents,
			RefundAmountCents: refundCents,
			OccurredAt:        time.Now().UTC().Format("2006-01-02 15:04:05"),
		})
	}()
}
