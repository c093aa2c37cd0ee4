package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNotification(t *testing.T) {
	ev := NotificationEvent{
		Kind:             KindPaymentCompleted,
		BookingRef:       "f00dcafe",
		Email:            "jo@example.com",
		MovieTitle:       "Interstellar",
		TheaterName:      "Galaxy Multiplex",
		ShowDate:         "2026-03-05",
		ShowTime:         "18:30:00",
		Seats:            []string{"A1", "A2"},
		FinalAmountCents: 44000,
		OccurredAt:       "2026-03-01 12:00:00",
	}
	line := FormatNotification(ev)

	assert.Contains(t, line, "Payment Successful - Ticket Confirmed for Interstellar")
	assert.Contains(t, line, "to=jo@example.com")
	assert.Contains(t, line, "ref=f00dcafe")
	assert.Contains(t, line, "seats=[A1,A2]")
	assert.Contains(t, line, "amount_cents=44000")
}

func TestFormatNotificationSubjects(t *testing.T) {
	ev := NotificationEvent{MovieTitle: "Dune"}

	ev.Kind = KindBookingCreated
	assert.Contains(t, FormatNotification(ev), "Booking Received - Dune")

	ev.Kind = KindBookingCancelled
	assert.Contains(t, FormatNotification(ev), "Booking Cancelled - Dune")

	ev.Kind = "something.else"
	assert.Contains(t, FormatNotification(ev), "Booking Update - Dune")
}
