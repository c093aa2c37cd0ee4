package model

import "time"

// Coupon types.  Percentage coupons discount a fraction of the order
// total; fixed coupons subtract a flat amount.
const (
	CouponPercentage = "PERCENTAGE"
	CouponFixed      = "FIXED"
)

// Coupon is a code-unique discount rule with a validity window and
// usage caps.  UsedCount is incremented once per booking that redeems
// the coupon; the increment is guarded in the repository so a coupon
// can never be redeemed past its usage limit.
//
// Fields:
//  ID                   – primary key identifier.
//  Code                 – unique coupon code.
//  Description          – human-readable description.
//  Type                 – PERCENTAGE or FIXED.
//  Value                – percent (0–100) for percentage coupons,
//                         cents for fixed coupons.
//  MinimumAmountCents   – order total below which the coupon yields 0.
//  MaximumDiscountCents – cap on a percentage discount (nil = no cap).
//  UsageLimit           – global redemption cap (nil = unlimited).
//  UsedCount            – redemptions so far; monotonically increasing.
//  UserLimit            – per-user redemption cap.
//  ValidFrom            – start of the validity window.
//  ValidUntil           – end of the validity window.
//  IsActive             – kill switch independent of the window.
//  CreatedAt            – creation timestamp.
//  UpdatedAt            – last update timestamp.
type Coupon struct {
	ID                   uint64    // coupons.id
	Code                 string    // coupons.code
	Description          string    // coupons.description
	Type                 string    // coupons.coupon_type
	Value                uint32    // coupons.value
	MinimumAmountCents   uint32    // coupons.minimum_amount_cents
	MaximumDiscountCents *uint32   // coupons.maximum_discount_cents (nullable)
	UsageLimit           *uint32   // coupons.usage_limit (nullable)
	UsedCount            uint32    // coupons.used_count
	UserLimit            uint32    // coupons.user_limit
	ValidFrom            time.Time // coupons.valid_from
	ValidUntil           time.Time // coupons.valid_until
	IsActive             bool      // coupons.is_active
	CreatedAt            time.Time // coupons.created_at
	UpdatedAt            time.Time // coupons.updated_at
}

// IsValid reports whether the coupon can be redeemed at now: it must
// be active, inside its validity window, and under its global usage
// limit when one is set.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

// CalculateDiscount returns the discount in cents for an order of the
// given amount.  Invalid coupons and orders below the minimum amount
// yield 0.  Percentage discounts are capped at MaximumDiscountCents
// when set; every discount is additionally capped at the amount itself
// so the final payable can never go negative.  The method is pure: it
// never mutates the coupon.
func (c *Coupon) CalculateDiscount(now time.Time, amountCents uint32) uint32 {
	if !c.IsValid(now) || amountCents < c.MinimumAmountCents {
		return 0
	}
	var discount uint32
	if c.Type == CouponPercentage {
		discount = uint32(uint64(amountCents) * uint64(c.Value) / 100)
		if c.MaximumDiscountCents != nil && discount > *c.MaximumDiscountCents {
			discount = *c.MaximumDiscountCents
		}
	} else {
		discount = c.Value
	}
	if discount > amountCents {
		discount = amountCents
	}
	return discount
}

// CanBeUsedBy reports whether the coupon is valid and the user still
// has redemptions left under the per-user limit.  priorUses is the
// number of existing usage records for (coupon, user).
func (c *Coupon) CanBeUsedBy(now time.Time, priorUses uint32) bool {
	return c.IsValid(now) && priorUses < c.UserLimit
}

// CouponUsage records one redemption of a coupon by a booking.
// (coupon, booking) is unique, so a coupon applies to a booking at
// most once; counting rows per (coupon, user) enforces the per-user
// limit.
//
// Fields:
//  ID                  – primary key identifier.
//  CouponID            – redeemed coupon.
//  UserID              – redeeming user.
//  BookingID           – booking the discount was applied to.
//  DiscountAmountCents – discount granted at redemption time.
//  UsedAt              – redemption timestamp.
type CouponUsage struct {
	ID                  uint64    // coupon_usages.id
	CouponID            uint64    // coupon_usages.coupon_id
	UserID              uint64    // coupon_usages.user_id
	BookingID           uint64    // coupon_usages.booking_id
	DiscountAmountCents uint32    // coupon_usages.discount_amount_cents
	UsedAt              time.Time // coupon_usages.used_at
}
