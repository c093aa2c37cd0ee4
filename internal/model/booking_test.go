package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pendingBooking(createdAt time.Time) *Booking {
	return &Booking{
		ID:         1,
		BookingRef: "abc123",
		Status:     BookingPending,
		CreatedAt:  createdAt,
		ExpiryTime: createdAt.Add(15 * time.Minute),
	}
}

func TestBookingExpiry(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := pendingBooking(created)

	assert.False(t, b.IsExpired(created.Add(14*time.Minute)))
	assert.False(t, b.IsExpired(created.Add(15*time.Minute))) // boundary is inclusive
	assert.True(t, b.IsExpired(created.Add(15*time.Minute+time.Second)))

	// Confirmed and cancelled bookings never expire, no matter how old.
	b.Status = BookingConfirmed
	assert.False(t, b.IsExpired(created.Add(24*time.Hour)))
	b.Status = BookingCancelled
	assert.False(t, b.IsExpired(created.Add(24*time.Hour)))
}

func TestBookingBlocksSeats(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := pendingBooking(created)

	// A live pending booking keeps its seats off the market.
	assert.True(t, b.BlocksSeats(created.Add(10*time.Minute)))
	// Once expired the seats go back on sale without any status flip.
	assert.False(t, b.BlocksSeats(created.Add(16*time.Minute)))

	b.Status = BookingConfirmed
	assert.True(t, b.BlocksSeats(created.Add(48*time.Hour)))

	b.Status = BookingCancelled
	assert.False(t, b.BlocksSeats(created))
	b.Status = BookingExpired
	assert.False(t, b.BlocksSeats(created))
}

func TestBookingCancellationWindow(t *testing.T) {
	showStart := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	window := 2 * time.Hour

	b := pendingBooking(showStart.Add(-48 * time.Hour))
	b.Status = BookingConfirmed

	// Three hours out is still cancellable, one hour out is not.
	assert.True(t, b.CanBeCancelled(showStart.Add(-3*time.Hour), showStart, window))
	assert.False(t, b.CanBeCancelled(showStart.Add(-1*time.Hour), showStart, window))
	// Exactly at the window boundary cancellation is refused.
	assert.False(t, b.CanBeCancelled(showStart.Add(-window), showStart, window))
	// A show already started can never be cancelled.
	assert.False(t, b.CanBeCancelled(showStart.Add(time.Minute), showStart, window))

	// Only confirmed bookings qualify at all.
	b.Status = BookingPending
	assert.False(t, b.CanBeCancelled(showStart.Add(-24*time.Hour), showStart, window))
	b.Status = BookingCancelled
	assert.False(t, b.CanBeCancelled(showStart.Add(-24*time.Hour), showStart, window))
}
