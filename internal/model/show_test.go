package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowStartsAt(t *testing.T) {
	s := &Show{
		ShowDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		ShowTime: "18:30:00",
	}
	assert.Equal(t, time.Date(2026, 3, 5, 18, 30, 0, 0, time.UTC), s.StartsAt())

	assert.False(t, s.IsPast(time.Date(2026, 3, 5, 18, 29, 59, 0, time.UTC)))
	// A show that has exactly started is past: booking closes at showtime.
	assert.True(t, s.IsPast(time.Date(2026, 3, 5, 18, 30, 0, 0, time.UTC)))
	assert.True(t, s.IsPast(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))
}

func TestResolveSeatPrice(t *testing.T) {
	overrides := map[uint64]uint32{
		1: 30000, // premium
		2: 20000, // gold
	}
	assert.Equal(t, uint32(30000), ResolveSeatPrice(overrides, 1, 15000))
	assert.Equal(t, uint32(20000), ResolveSeatPrice(overrides, 2, 15000))
	// Categories without an override fall back to the show's base price.
	assert.Equal(t, uint32(15000), ResolveSeatPrice(overrides, 3, 15000))
	assert.Equal(t, uint32(15000), ResolveSeatPrice(nil, 1, 15000))
}
