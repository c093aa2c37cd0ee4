package handler

import (
	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// amounts is the monetary breakdown persisted onto a booking. All values
// are in cents and computed once at creation time; they form the snapshot
// that later show price changes cannot touch.
type amounts struct {
	TotalCents    uint32
	FeeCents      uint32
	DiscountCents uint32
	FinalCents    uint32
}

// computeAmounts resolves the price of each requested seat against the
// show's per-category overrides and base price, sums them, adds the flat
// per-ticket convenience fee and subtracts the already-capped discount.
// The discount is produced by the coupon engine and never exceeds the
// seat total, so the final amount cannot go below the fee.
func computeAmounts(seats []model.Seat, overrides map[uint64]uint32, basePriceCents, feePerTicketCents, discountCents uint32) (amounts, map[uint64]uint32) {
	prices := make(map[uint64]uint32, len(seats))
	var total uint32
	for _, s := range seats {
		p := model.ResolveSeatPrice(overrides, s.CategoryID, basePriceCents)
		prices[s.ID] = p
		total += p
	}
	fee := feePerTicketCents * uint32(len(seats))
	if discountCents > total {
		discountCents = total
	}
	return amounts{
		TotalCents:    total,
		FeeCents:      fee,
		DiscountCents: discountCents,
		FinalCents:    total + fee - discountCents,
	}, prices
}

// validateSeatCount checks the requested seat quantity against the
// configured bounds. Returns a user-facing message when invalid, or an
// empty string when the selection is acceptable.
func validateSeatCount(n, max int) string {
	if n == 0 {
		return "at least one seat must be selected"
	}
	if n > max {
		return "too many seats requested"
	}
	return ""
}
