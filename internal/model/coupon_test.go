package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) *uint32 { return &v }

func testCoupon() *Coupon {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Coupon{
		ID:                   1,
		Code:                 "PCT10",
		Type:                 CouponPercentage,
		Value:                10,
		MinimumAmountCents:   10000,
		MaximumDiscountCents: u32(5000),
		UsageLimit:           u32(100),
		UsedCount:            0,
		UserLimit:            1,
		ValidFrom:            now.Add(-24 * time.Hour),
		ValidUntil:           now.Add(24 * time.Hour),
		IsActive:             true,
	}
}

func TestCalculateDiscountPercentage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCoupon()

	// 10% of 40000 = 4000, under the 5000 cap.
	assert.Equal(t, uint32(4000), c.CalculateDiscount(now, 40000))

	// 10% of 60000 = 6000, capped at 5000.
	assert.Equal(t, uint32(5000), c.CalculateDiscount(now, 60000))

	// Below the minimum order amount the coupon yields nothing.
	assert.Equal(t, uint32(0), c.CalculateDiscount(now, 9999))

	// Pure: repeated calls return the same value and never mutate state.
	first := c.CalculateDiscount(now, 40000)
	second := c.CalculateDiscount(now, 40000)
	assert.Equal(t, first, second)
	assert.Equal(t, uint32(0), c.UsedCount)
}

func TestCalculateDiscountPercentageNoCap(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCoupon()
	c.MaximumDiscountCents = nil

	assert.Equal(t, uint32(6000), c.CalculateDiscount(now, 60000))
}

func TestCalculateDiscountFixed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCoupon()
	c.Type = CouponFixed
	c.Value = 15000
	c.MinimumAmountCents = 0

	// A fixed discount larger than the order is capped at the order, so
	// the payable can never go negative.
	assert.Equal(t, uint32(12000), c.CalculateDiscount(now, 12000))
	assert.Equal(t, uint32(15000), c.CalculateDiscount(now, 20000))
}

func TestCouponValidityWindow(t *testing.T) {
	c := testCoupon()

	before := c.ValidFrom.Add(-time.Minute)
	after := c.ValidUntil.Add(time.Minute)
	inside := c.ValidFrom.Add(time.Hour)

	assert.False(t, c.IsValid(before))
	assert.False(t, c.IsValid(after))
	assert.True(t, c.IsValid(inside))

	assert.Equal(t, uint32(0), c.CalculateDiscount(before, 40000))
	assert.Equal(t, uint32(0), c.CalculateDiscount(after, 40000))

	c.IsActive = false
	assert.False(t, c.IsValid(inside))
}

func TestCouponUsageLimits(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCoupon()

	// Global limit reached: invalid for everyone.
	c.UsedCount = 100
	require.False(t, c.IsValid(now))
	assert.Equal(t, uint32(0), c.CalculateDiscount(now, 40000))

	// Unlimited coupons ignore the used count entirely.
	c.UsageLimit = nil
	assert.True(t, c.IsValid(now))
}

func TestCouponPerUserLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCoupon()

	assert.True(t, c.CanBeUsedBy(now, 0))
	assert.False(t, c.CanBeUsedBy(now, 1))

	c.UserLimit = 3
	assert.True(t, c.CanBeUsedBy(now, 2))
	assert.False(t, c.CanBeUsedBy(now, 3))
}
