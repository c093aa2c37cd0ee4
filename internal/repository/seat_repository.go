package repository // repository for seat and seat category persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// SeatRepo encapsulates database operations for seats and seat categories.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// ListByScreen returns all active seats of a screen ordered by row then
// column, which is the order the seat layout endpoint renders them in.
func (r *SeatRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	const q = `SELECT id, screen_id, seat_number, row_label, col_number, category_id, is_active, is_accessible
			   FROM seats WHERE screen_id = ? AND is_active = 1
			   ORDER BY row_label, col_number`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.SeatNumber, &s.Row, &s.Column, &s.CategoryID, &s.IsActive, &s.IsAccessible); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetActiveOnScreenTx returns the active seats among seatIDs that belong
// to the given screen, within the provided transaction. The booking flow
// compares the result length against the request to detect seats that are
// inactive, unknown, or on the wrong screen. Passing an empty slice
// returns an empty result.
func (r *SeatRepo) GetActiveOnScreenTx(ctx context.Context, tx *sql.Tx, screenID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return []model.Seat{}, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, screenID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, screen_id, seat_number, row_label, col_number, category_id, is_active, is_accessible
		  FROM seats
		  WHERE screen_id = ? AND is_active = 1 AND id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.SeatNumber, &s.Row, &s.Column, &s.CategoryID, &s.IsActive, &s.IsAccessible); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListCategories returns all seat categories ordered by name. Categories
// are a small static table used to decorate the seat layout response.
func (r *SeatRepo) ListCategories(ctx context.Context) ([]model.SeatCategory, error) {
	const q = `SELECT id, name, description, color_code FROM seat_categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := make([]model.SeatCategory, 0)
	for rows.Next() {
		var c model.SeatCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ColorCode); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cats, nil
}

// CategoriesByID returns the categories with the given IDs keyed by ID.
// It is used to resolve category names for a set of seats in one query.
func (r *SeatRepo) CategoriesByID(ctx context.Context, ids []uint64) (map[uint64]model.SeatCategory, error) {
	out := make(map[uint64]model.SeatCategory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, name, description, color_code FROM seat_categories WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.SeatCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ColorCode); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
