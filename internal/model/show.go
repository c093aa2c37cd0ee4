package model

import "time"

// Show schedules a movie on a screen at a specific date and time.
// (screen, show_date, show_time) is unique: a screen cannot host two
// shows in the same slot.  BasePriceCents applies to any seat whose
// category has no ShowSeatPricing override for this show.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  ScreenID       – screen hosting the show.
//  ShowDate       – calendar date of the screening.
//  ShowTime       – wall-clock start time as "HH:MM:SS".
//  BasePriceCents – default seat price in cents.
//  IsActive       – whether the show is bookable.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Show struct {
	ID             uint64    // shows.id
	MovieID        uint64    // shows.movie_id
	ScreenID       uint64    // shows.screen_id
	ShowDate       time.Time // shows.show_date (DATE, midnight UTC)
	ShowTime       string    // shows.show_time (TIME, "15:04:05")
	BasePriceCents uint32    // shows.base_price_cents
	IsActive       bool      // shows.is_active
	CreatedAt      time.Time // shows.created_at
	UpdatedAt      time.Time // shows.updated_at
}

// StartsAt combines the show date and time into a single UTC instant.
// An unparseable time column yields the date at midnight.
func (s *Show) StartsAt() time.Time {
	t, err := time.Parse("15:04:05", s.ShowTime)
	if err != nil {
		return s.ShowDate
	}
	d := s.ShowDate
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// IsPast reports whether the show has already started as of now.
func (s *Show) IsPast(now time.Time) bool {
	return !s.StartsAt().After(now)
}

// ShowSeatPricing overrides the show's base price for one seat
// category.  (show, seat_category) is unique.
//
// Fields:
//  ID         – primary key identifier.
//  ShowID     – show the override applies to.
//  CategoryID – seat category being priced.
//  PriceCents – price in cents for seats of this category.
type ShowSeatPricing struct {
	ID         uint64 // show_seat_pricing.id
	ShowID     uint64 // show_seat_pricing.show_id
	CategoryID uint64 // show_seat_pricing.category_id
	PriceCents uint32 // show_seat_pricing.price_cents
}

// ResolveSeatPrice returns the price for a seat category given the
// show's per-category overrides, falling back to the base price when
// no override exists.  This is the only pricing rule in the system:
// the price a booking stores is resolved here once, at creation time.
func ResolveSeatPrice(overrides map[uint64]uint32, categoryID uint64, basePriceCents uint32) uint32 {
	if p, ok := overrides[categoryID]; ok {
		return p
	}
	return basePriceCents
}
