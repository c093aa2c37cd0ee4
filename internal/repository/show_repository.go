// Package repository contains data access logic for the show registry. A
// Show pins a movie to a screen at a date/time slot; (screen, show_date,
// show_time) is unique at the schema level. Availability is derived from
// bookings rather than stored.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows and their per-category pricing
// overrides.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, screen_id, show_date, show_time, base_price_cents, is_active, created_at, updated_at
			   FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.ScreenID, &s.ShowDate, &s.ShowTime,
		&s.BasePriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// LockTx takes a row lock on the show inside the provided transaction.
// Booking creation locks the show first so that concurrent bookings for
// the same show serialize: the availability check that follows sees every
// previously committed booking, and the loser of a seat race fails
// cleanly instead of double-booking. Returns ErrShowNotFound when the
// show does not exist.
func (r *ShowRepo) LockTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
	const q = `SELECT id FROM shows WHERE id = ? FOR UPDATE`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, showID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	return nil
}

// ShowListing is a show joined with its movie, theater and screen names
// for browse endpoints.
type ShowListing struct {
	ID             uint64 `json:"id"`
	MovieID        uint64 `json:"movie_id"`
	MovieTitle     string `json:"movie_title"`
	TheaterID      uint64 `json:"theater_id"`
	TheaterName    string `json:"theater_name"`
	TheaterCity    string `json:"theater_city"`
	ScreenID       uint64 `json:"screen_id"`
	ScreenName     string `json:"screen_name"`
	ScreenType     string `json:"screen_type"`
	ShowDate       string `json:"show_date"`
	ShowTime       string `json:"show_time"`
	BasePriceCents uint32 `json:"base_price_cents"`
}

// ListUpcomingByMovie returns active shows for a movie whose slot has not
// yet started, joined with theater and screen details and ordered by date
// then time. The date/time comparison happens against the provided UTC
// "now" split into date and time strings by the caller-facing handler.
func (r *ShowRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64, nowDate, nowTime string) ([]ShowListing, error) {
	const q = `SELECT sh.id, sh.movie_id, m.title, t.id, t.name, t.city,
					  sc.id, sc.name, sc.screen_type,
					  DATE_FORMAT(sh.show_date, '%Y-%m-%d'), TIME_FORMAT(sh.show_time, '%H:%i:%s'),
					  sh.base_price_cents
			   FROM shows sh
			   JOIN movies m ON m.id = sh.movie_id
			   JOIN screens sc ON sc.id = sh.screen_id
			   JOIN theaters t ON t.id = sc.theater_id
			   WHERE sh.movie_id = ? AND sh.is_active = 1
				 AND (sh.show_date > ? OR (sh.show_date = ? AND sh.show_time >= ?))
			   ORDER BY sh.show_date, sh.show_time`
	rows, err := r.db.QueryContext(ctx, q, movieID, nowDate, nowDate, nowTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	listings := make([]ShowListing, 0)
	for rows.Next() {
		var l ShowListing
		if err := rows.Scan(
			&l.ID, &l.MovieID, &l.MovieTitle, &l.TheaterID, &l.TheaterName, &l.TheaterCity,
			&l.ScreenID, &l.ScreenName, &l.ScreenType, &l.ShowDate, &l.ShowTime, &l.BasePriceCents,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// ListingByID returns a single show joined with its movie, theater and
// screen details. It backs the show detail endpoint and supplies the
// display fields carried by notification events.
func (r *ShowRepo) ListingByID(ctx context.Context, showID uint64) (*ShowListing, error) {
	const q = `SELECT sh.id, sh.movie_id, m.title, t.id, t.name, t.city,
					  sc.id, sc.name, sc.screen_type,
					  DATE_FORMAT(sh.show_date, '%Y-%m-%d'), TIME_FORMAT(sh.show_time, '%H:%i:%s'),
					  sh.base_price_cents
			   FROM shows sh
			   JOIN movies m ON m.id = sh.movie_id
			   JOIN screens sc ON sc.id = sh.screen_id
			   JOIN theaters t ON t.id = sc.theater_id
			   WHERE sh.id = ?`
	var l ShowListing
	err := r.db.QueryRowContext(ctx, q, showID).Scan(
		&l.ID, &l.MovieID, &l.MovieTitle, &l.TheaterID, &l.TheaterName, &l.TheaterCity,
		&l.ScreenID, &l.ScreenName, &l.ScreenType, &l.ShowDate, &l.ShowTime, &l.BasePriceCents,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &l, nil
}

// PricingOverrides returns the show's per-category price overrides keyed
// by category ID. Seats in categories absent from the map are priced at
// the show's base price.
func (r *ShowRepo) PricingOverrides(ctx context.Context, showID uint64) (map[uint64]uint32, error) {
	const q = `SELECT category_id, price_cents FROM show_seat_pricing WHERE show_id = ?`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]uint32)
	for rows.Next() {
		var categoryID uint64
		var price uint32
		if err := rows.Scan(&categoryID, &price); err != nil {
			return nil, err
		}
		out[categoryID] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PricingOverridesTx is PricingOverrides within an existing transaction.
// Booking creation resolves prices inside its transaction so the snapshot
// it persists matches what the availability check saw.
func (r *ShowRepo) PricingOverridesTx(ctx context.Context, tx *sql.Tx, showID uint64) (map[uint64]uint32, error) {
	const q = `SELECT category_id, price_cents FROM show_seat_pricing WHERE show_id = ?`
	rows, err := tx.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]uint32)
	for rows.Next() {
		var categoryID uint64
		var price uint32
		if err := rows.Scan(&categoryID, &price); err != nil {
			return nil, err
		}
		out[categoryID] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableSeats derives the show's remaining capacity as the screen's
// total seats minus the summed quantity of confirmed bookings.
func (r *ShowRepo) AvailableSeats(ctx context.Context, showID uint64) (uint32, error) {
	const q = `SELECT sc.total_seats - COALESCE(SUM(b.quantity), 0)
			   FROM shows sh
			   JOIN screens sc ON sc.id = sh.screen_id
			   LEFT JOIN bookings b ON b.show_id = sh.id AND b.status = 'CONFIRMED'
			   WHERE sh.id = ?
			   GROUP BY sc.total_seats`
	var available int64
	err := r.db.QueryRowContext(ctx, q, showID).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrShowNotFound
		}
		return 0, err
	}
	if available < 0 {
		available = 0
	}
	return uint32(available), nil
}
