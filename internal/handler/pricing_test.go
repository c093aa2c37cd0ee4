package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

func TestComputeAmounts(t *testing.T) {
	seats := []model.Seat{
		{ID: 11, CategoryID: 1},
		{ID: 12, CategoryID: 1},
	}
	// Two seats at 200.00 each plus a 20.00 fee per ticket.
	amt, prices := computeAmounts(seats, nil, 20000, 2000, 0)

	assert.Equal(t, uint32(40000), amt.TotalCents)
	assert.Equal(t, uint32(4000), amt.FeeCents)
	assert.Equal(t, uint32(0), amt.DiscountCents)
	assert.Equal(t, uint32(44000), amt.FinalCents)

	require.Len(t, prices, 2)
	assert.Equal(t, uint32(20000), prices[11])
	assert.Equal(t, uint32(20000), prices[12])
}

func TestComputeAmountsWithOverridesAndDiscount(t *testing.T) {
	seats := []model.Seat{
		{ID: 21, CategoryID: 1}, // premium, overridden
		{ID: 22, CategoryID: 2}, // base priced
	}
	overrides := map[uint64]uint32{1: 30000}

	amt, prices := computeAmounts(seats, overrides, 15000, 2000, 5000)

	assert.Equal(t, uint32(45000), amt.TotalCents)
	assert.Equal(t, uint32(4000), amt.FeeCents)
	assert.Equal(t, uint32(5000), amt.DiscountCents)
	assert.Equal(t, uint32(44000), amt.FinalCents)
	assert.Equal(t, uint32(30000), prices[21])
	assert.Equal(t, uint32(15000), prices[22])
}

func TestComputeAmountsDiscountClampedToSeatTotal(t *testing.T) {
	seats := []model.Seat{{ID: 31, CategoryID: 1}}

	// An oversized discount is clamped to the seat total, so the final
	// amount bottoms out at the convenience fee.
	amt, _ := computeAmounts(seats, nil, 10000, 2000, 99999)

	assert.Equal(t, uint32(10000), amt.DiscountCents)
	assert.Equal(t, uint32(2000), amt.FinalCents)
}

func TestValidateSeatCount(t *testing.T) {
	assert.NotEmpty(t, validateSeatCount(0, 10))
	assert.Empty(t, validateSeatCount(1, 10))
	assert.Empty(t, validateSeatCount(10, 10))
	assert.NotEmpty(t, validateSeatCount(11, 10))
}

func TestDedupeSeatIDs(t *testing.T) {
	got := dedupeSeatIDs([]uint64{5, 3, 5, 0, 3, 7})
	assert.Equal(t, []uint64{5, 3, 7}, got)

	assert.Empty(t, dedupeSeatIDs([]uint64{0, 0}))
	assert.Empty(t, dedupeSeatIDs(nil))
}
