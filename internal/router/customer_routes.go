package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/handler"
	"github.com/moviebook/movie-ticket-booking/internal/middleware"
)

// RegisterCustomer registers the booking, payment and coupon endpoints
// under /v1.  All routes require a valid JWT with the CUSTOMER or ADMIN
// role; the acting user is always the token subject, so customers can
// only ever see and mutate their own bookings.
func RegisterCustomer(e *echo.Echo, bookings *handler.BookingHandler, payments *handler.PaymentHandler, coupons *handler.CouponHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	g.POST("/bookings", bookings.CreateBooking)
	g.GET("/bookings", bookings.ListBookings)
	// Echo matches the static "summary" segment before :ref.
	g.GET("/bookings/summary", bookings.BookingSummary)
	g.GET("/bookings/:ref", bookings.GetBooking)
	g.POST("/bookings/:ref/cancel", bookings.CancelBooking)

	g.POST("/payments", payments.CreatePayment)
	g.POST("/payments/:id/process", payments.ProcessPayment)

	g.POST("/coupons/validate", coupons.ValidateCoupon)
}
