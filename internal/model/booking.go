package model

import "time"

// Booking statuses.  A booking starts PENDING and becomes CONFIRMED
// only through a completed payment.  EXPIRED is normally a derived
// property (see IsExpired) and is persisted only when a payment is
// attempted against a lapsed booking.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingExpired   = "EXPIRED"
)

// Booking-level payment statuses, mirrored from the payment record so
// listings do not need a join.
const (
	PayStatusPending   = "PENDING"
	PayStatusCompleted = "COMPLETED"
	PayStatusFailed    = "FAILED"
	PayStatusRefunded  = "REFUNDED"
)

// Booking is a reservation attempt for a set of seats at a show.  The
// monetary fields are a snapshot taken at creation time: price changes
// to the show afterwards never affect an existing booking.
//
// Fields:
//  ID                  – primary key identifier.
//  BookingRef          – opaque unique reference exposed to clients.
//  UserID              – user who made the booking.
//  ShowID              – show being booked.
//  Quantity            – number of seats booked.
//  TotalAmountCents    – sum of per-seat prices.
//  ConvenienceFeeCents – flat per-ticket fee times quantity.
//  DiscountAmountCents – coupon discount applied at creation.
//  FinalAmountCents    – total + fee − discount; never negative.
//  Status              – PENDING, CONFIRMED, CANCELLED or EXPIRED.
//  PaymentStatus       – PENDING, COMPLETED, FAILED or REFUNDED.
//  PhoneNumber         – contact phone supplied at booking time.
//  Email               – contact email supplied at booking time.
//  CreatedAt           – creation timestamp.
//  ExpiryTime          – creation + booking TTL (15 minutes).
//  ConfirmedAt         – set when the booking is confirmed.
//  CancelledAt         – set when the booking is cancelled.
type Booking struct {
	ID                  uint64     // bookings.id
	BookingRef          string     // bookings.booking_ref
	UserID              uint64     // bookings.user_id
	ShowID              uint64     // bookings.show_id
	Quantity            uint32     // bookings.quantity
	TotalAmountCents    uint32     // bookings.total_amount_cents
	ConvenienceFeeCents uint32     // bookings.convenience_fee_cents
	DiscountAmountCents uint32     // bookings.discount_amount_cents
	FinalAmountCents    uint32     // bookings.final_amount_cents
	Status              string     // bookings.status
	PaymentStatus       string     // bookings.payment_status
	PhoneNumber         string     // bookings.phone_number
	Email               string     // bookings.email
	CreatedAt           time.Time  // bookings.created_at
	ExpiryTime          time.Time  // bookings.expiry_time
	ConfirmedAt         *time.Time // bookings.confirmed_at (nullable)
	CancelledAt         *time.Time // bookings.cancelled_at (nullable)
}

// IsExpired reports whether a still-pending booking has passed its
// expiry time.  Confirmed and cancelled bookings never expire.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == BookingPending && now.After(b.ExpiryTime)
}

// BlocksSeats reports whether this booking keeps its seats off the
// market as of now.  Confirmed bookings always block; pending bookings
// block until they expire.
func (b *Booking) BlocksSeats(now time.Time) bool {
	switch b.Status {
	case BookingConfirmed:
		return true
	case BookingPending:
		return !now.After(b.ExpiryTime)
	}
	return false
}

// CanBeCancelled reports whether the booking may be cancelled at now
// for a show starting at showStart.  Only confirmed bookings for
// future shows qualify, and only up to the cancellation window before
// showtime.
func (b *Booking) CanBeCancelled(now, showStart time.Time, window time.Duration) bool {
	if b.Status != BookingConfirmed {
		return false
	}
	if !showStart.After(now) {
		return false
	}
	return now.Before(showStart.Add(-window))
}

// BookedSeat links a booking to one seat, carrying the price paid for
// that seat.  (booking, seat) is unique; at most one seat-blocking
// booking may reference a given seat of a show.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – owning booking.
//  ShowID     – show the seat is booked for (denormalized for lookups).
//  SeatID     – booked seat.
//  PriceCents – resolved price paid for this seat.
type BookedSeat struct {
	ID         uint64 // booked_seats.id
	BookingID  uint64 // booked_seats.booking_id
	ShowID     uint64 // booked_seats.show_id
	SeatID     uint64 // booked_seats.seat_id
	PriceCents uint32 // booked_seats.price_cents
}
