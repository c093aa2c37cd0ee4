// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrSeatsUnavailable signals that a requested seat was claimed
// by a competing booking.
package repository

import "errors"

// ErrSeatsUnavailable is returned when one or more requested seats are
// already held by a confirmed or still-pending booking for the show.
// The losing side of a concurrent booking race receives this error.
var ErrSeatsUnavailable = errors.New("seats unavailable")

// ErrCouponExhausted is returned when a guarded used_count increment
// finds the coupon already at its usage limit. A validation that
// succeeded moments earlier can still lose here; the booking creation
// must surface the rejection rather than double-count.
var ErrCouponExhausted = errors.New("coupon usage limit reached")

// ErrPaymentExists is returned when a payment is initiated for a
// booking that already has one. Payments are one-to-one with bookings.
var ErrPaymentExists = errors.New("payment already exists for booking")

// ErrInvalidState is returned when an operation is not legal for the
// entity's current status, such as processing a settled payment or
// cancelling a booking that was never confirmed.
var ErrInvalidState = errors.New("invalid state for operation")
