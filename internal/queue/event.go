// Package queue defines message payloads exchanged over the message broker.
package queue

// Notification kinds published by the booking and payment flows.
const (
	KindBookingCreated   = "booking.created"
	KindBookingCancelled = "booking.cancelled"
	KindPaymentCompleted = "payment.completed"
)

// NotificationEvent is published after a booking or payment transaction
// commits. It carries enough information for the consumer to compose a
// customer notification without querying the primary database. Publishing
// is fire-and-forget: a failed publish is logged and never affects the
// request that produced the event.
type NotificationEvent struct {
	Kind              string   `json:"kind"`
	BookingRef        string   `json:"booking_ref"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	MovieTitle        string   `json:"movie_title"`
	TheaterName       string   `json:"theater_name"`
	ScreenName        string   `json:"screen_name"`
	ShowDate          string   `json:"show_date"`
	ShowTime          string   `json:"show_time"`
	Seats             []string `json:"seats"`
	FinalAmountCents  uint32   `json:"final_amount_cents"`
	RefundAmountCents uint32   `json:"refund_amount_cents,omitempty"`
	OccurredAt        string   `json:"occurred_at"`
}
