// Package repository contains data access logic for venues. Theaters and
// their screens are read-mostly reference data consumed by the show
// registry and the booking flow.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// ErrTheaterNotFound indicates that a theater was not located in the DB.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrScreenNotFound indicates that a screen was not located in the DB.
var ErrScreenNotFound = errors.New("screen not found")

// TheaterRepo manages persistence for theaters and screens.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// ListActive returns all active theaters, optionally filtered by city.
// Results are ordered by city then name for stable browsing output.
func (r *TheaterRepo) ListActive(ctx context.Context, city string) ([]model.Theater, error) {
	q := `SELECT id, name, address, city, state, pincode, phone, COALESCE(email, ''),
				 is_active, created_at, updated_at
		  FROM theaters WHERE is_active = 1`
	args := []interface{}{}
	if city != "" {
		q += ` AND city = ?`
		args = append(args, city)
	}
	q += ` ORDER BY city, name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	theaters := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Address, &t.City, &t.State, &t.Pincode, &t.Phone, &t.Email,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		theaters = append(theaters, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return theaters, nil
}

// GetByID retrieves a theater by its ID. It returns ErrTheaterNotFound if
// there is no matching row.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	const q = `SELECT id, name, address, city, state, pincode, phone, COALESCE(email, ''),
					  is_active, created_at, updated_at
			   FROM theaters WHERE id = ?`
	var t model.Theater
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.Address, &t.City, &t.State, &t.Pincode, &t.Phone, &t.Email,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListScreens returns the active screens of a theater ordered by name.
// It first verifies that the theater exists so callers can distinguish
// an unknown theater from one without screens.
func (r *TheaterRepo) ListScreens(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
	const check = `SELECT 1 FROM theaters WHERE id = ? LIMIT 1`
	var one int
	if err := r.db.QueryRowContext(ctx, check, theaterID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	const q = `SELECT id, theater_id, name, screen_type, total_seats, is_active, created_at, updated_at
			   FROM screens WHERE theater_id = ? AND is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	screens := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(
			&s.ID, &s.TheaterID, &s.Name, &s.ScreenType, &s.TotalSeats,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		screens = append(screens, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return screens, nil
}

// GetScreenByID retrieves a screen by its ID. It returns ErrScreenNotFound
// if there is no matching row.
func (r *TheaterRepo) GetScreenByID(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT id, theater_id, name, screen_type, total_seats, is_active, created_at, updated_at
			   FROM screens WHERE id = ?`
	var s model.Screen
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.TheaterID, &s.Name, &s.ScreenType, &s.TotalSeats,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}
