package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB
// for the requesting user.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides CRUD operations for bookings and their seats.
// A booking groups one or more seats for a particular show and user;
// seats booked under it are stored in the booked_seats table. All
// timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// NewBookingRef generates the opaque reference exposed to clients in
// place of the numeric primary key. 16 random bytes encoded as 32 hex
// characters.
func NewBookingRef() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction. It populates the generated ID and DB timestamps on the
// provided booking and returns any error from the database. The caller
// must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
			   (booking_ref, user_id, show_id, quantity, total_amount_cents, convenience_fee_cents,
				discount_amount_cents, final_amount_cents, status, payment_status, phone_number, email, expiry_time)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.BookingRef, b.UserID, b.ShowID, b.Quantity, b.TotalAmountCents, b.ConvenienceFeeCents,
		b.DiscountAmountCents, b.FinalAmountCents, b.Status, b.PaymentStatus, b.PhoneNumber, b.Email,
		b.ExpiryTime.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the created_at default so the returned snapshot is complete
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// CreateSeatsBulkTx inserts multiple booked_seats rows in a single
// statement, associating each seat with the same booking. The caller
// must supply the booking ID in each record. Passing an empty slice has
// no effect and returns nil. A duplicate-key rejection (MySQL 1062) on
// the blocking-booking index maps to ErrSeatsUnavailable: the show row
// lock should make that impossible, but the constraint is the backstop.
func (r *BookingRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.BookedSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO booked_seats (booking_id, show_id, seat_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.BookingID, s.ShowID, s.SeatID, s.PriceCents)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrSeatsUnavailable
		}
		return err
	}
	return nil
}

// BlockedSeatIDsTx returns the subset of seatIDs that are unavailable for
// the show: referenced by a confirmed booking, or by a pending booking
// whose expiry is still in the future. Must run inside the transaction
// that holds the show row lock so the answer cannot be invalidated by a
// concurrent creation.
func (r *BookingRepo) BlockedSeatIDsTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return []uint64{}, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT DISTINCT bs.seat_id
		  FROM booked_seats bs
		  JOIN bookings b ON b.id = bs.booking_id
		  WHERE bs.show_id = ?
			AND (b.status = 'CONFIRMED' OR (b.status = 'PENDING' AND b.expiry_time > UTC_TIMESTAMP()))
			AND bs.seat_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	blocked := make([]uint64, 0)
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		blocked = append(blocked, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blocked, nil
}

// BlockedSeatIDs returns every currently unavailable seat of a show keyed
// by seat ID. It backs the seat layout endpoint's booked flag and runs
// outside any transaction; the answer is advisory and re-checked at
// booking creation.
func (r *BookingRepo) BlockedSeatIDs(ctx context.Context, showID uint64) (map[uint64]bool, error) {
	const q = `SELECT DISTINCT bs.seat_id
			   FROM booked_seats bs
			   JOIN bookings b ON b.id = bs.booking_id
			   WHERE bs.show_id = ?
				 AND (b.status = 'CONFIRMED' OR (b.status = 'PENDING' AND b.expiry_time > UTC_TIMESTAMP()))`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	blocked := make(map[uint64]bool)
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		blocked[sid] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blocked, nil
}

// scanBooking scans one bookings row into a model.Booking, converting
// nullable timestamps.
func scanBooking(row interface{ Scan(...interface{}) error }) (*model.Booking, error) {
	var b model.Booking
	var confirmedAt, cancelledAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.BookingRef, &b.UserID, &b.ShowID, &b.Quantity,
		&b.TotalAmountCents, &b.ConvenienceFeeCents, &b.DiscountAmountCents, &b.FinalAmountCents,
		&b.Status, &b.PaymentStatus, &b.PhoneNumber, &b.Email,
		&b.CreatedAt, &b.ExpiryTime, &confirmedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		b.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return &b, nil
}

const bookingColumns = `id, booking_ref, user_id, show_id, quantity,
	   total_amount_cents, convenience_fee_cents, discount_amount_cents, final_amount_cents,
	   status, payment_status, phone_number, email,
	   created_at, expiry_time, confirmed_at, cancelled_at`

// GetByRefForUser returns the booking with the given reference when it
// belongs to the user. Ownership is enforced in the query, so a booking
// owned by someone else is indistinguishable from a missing one.
func (r *BookingRepo) GetByRefForUser(ctx context.Context, ref string, userID uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_ref = ? AND user_id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, ref, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByRefForUserTx is GetByRefForUser within an existing transaction,
// locking the booking row so a concurrent state transition cannot
// interleave with the caller's update.
func (r *BookingRepo) GetByRefForUserTx(ctx context.Context, tx *sql.Tx, ref string, userID uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_ref = ? AND user_id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, ref, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByIDTx loads a booking by primary key within a transaction with a
// row lock. Used by the payment flow, which reaches the booking through
// the payment record.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ConfirmTx transitions a pending booking to CONFIRMED with a completed
// payment status, stamping confirmed_at. The status guard in the WHERE
// clause rejects a second confirmation attempt with ErrInvalidState.
func (r *BookingRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, bookingID uint64, now time.Time) error {
	const q = `UPDATE bookings
			   SET status = 'CONFIRMED', payment_status = 'COMPLETED', confirmed_at = ?
			   WHERE id = ? AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"), bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidState
	}
	return nil
}

// MarkPaymentFailedTx records a failed payment attempt on a booking that
// stays pending (the user may retry until the booking expires).
func (r *BookingRepo) MarkPaymentFailedTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `UPDATE bookings SET payment_status = 'FAILED' WHERE id = ? AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidState
	}
	return nil
}

// MarkExpiredTx persists the EXPIRED status on a pending booking whose
// expiry has passed. Expiry is otherwise a computed property; it is only
// written when a payment is attempted against a lapsed booking.
func (r *BookingRepo) MarkExpiredTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `UPDATE bookings SET status = 'EXPIRED' WHERE id = ? AND status = 'PENDING'`
	_, err := tx.ExecContext(ctx, q, bookingID)
	return err
}

// CancelTx transitions a confirmed booking to CANCELLED, stamping
// cancelled_at. When refund is true the booking-level payment status is
// set to REFUNDED in the same statement so the pair is never observed
// half-updated.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64, now time.Time, refund bool) error {
	payStatus := model.PayStatusPending
	if refund {
		payStatus = model.PayStatusRefunded
	}
	const q = `UPDATE bookings
			   SET status = 'CANCELLED', cancelled_at = ?, payment_status = IF(?, ?, payment_status)
			   WHERE id = ? AND status = 'CONFIRMED'`
	res, err := tx.ExecContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"), refund, payStatus, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidState
	}
	return nil
}

// BookedSeatDetail is one seat of a booking decorated with its seat
// number, row and category name for display.
type BookedSeatDetail struct {
	SeatID       uint64 `json:"seat_id"`
	SeatNumber   string `json:"seat_number"`
	Row          string `json:"row"`
	CategoryName string `json:"category_name"`
	PriceCents   uint32 `json:"price_cents"`
}

// SeatsForBooking returns the seats of a booking joined with seat and
// category details, ordered by row and column for deterministic output.
func (r *BookingRepo) SeatsForBooking(ctx context.Context, bookingID uint64) ([]BookedSeatDetail, error) {
	const q = `SELECT bs.seat_id, se.seat_number, se.row_label, sc.name, bs.price_cents
			   FROM booked_seats bs
			   JOIN seats se ON se.id = bs.seat_id
			   JOIN seat_categories sc ON sc.id = se.category_id
			   WHERE bs.booking_id = ?
			   ORDER BY se.row_label, se.col_number`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]BookedSeatDetail, 0)
	for rows.Next() {
		var d BookedSeatDetail
		if err := rows.Scan(&d.SeatID, &d.SeatNumber, &d.Row, &d.CategoryName, &d.PriceCents); err != nil {
			return nil, err
		}
		seats = append(seats, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// BookingListItem is one row of a user's booking history joined with
// movie, theater and screen names.
type BookingListItem struct {
	BookingRef       string `json:"booking_ref"`
	MovieTitle       string `json:"movie_title"`
	TheaterName      string `json:"theater_name"`
	ScreenName       string `json:"screen_name"`
	ShowDate         string `json:"show_date"`
	ShowTime         string `json:"show_time"`
	Quantity         uint32 `json:"quantity"`
	FinalAmountCents uint32 `json:"final_amount_cents"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	BookedAt         string `json:"booked_at"`
}

// ListByUser returns the user's booking history ordered newest first.
// When no bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingListItem, error) {
	const q = `SELECT b.booking_ref, m.title, t.name, sc.name,
					  DATE_FORMAT(sh.show_date, '%Y-%m-%d'), TIME_FORMAT(sh.show_time, '%H:%i:%s'),
					  b.quantity, b.final_amount_cents, b.status, b.payment_status, b.created_at
			   FROM bookings b
			   JOIN shows sh ON sh.id = b.show_id
			   JOIN movies m ON m.id = sh.movie_id
			   JOIN screens sc ON sc.id = sh.screen_id
			   JOIN theaters t ON t.id = sc.theater_id
			   WHERE b.user_id = ?
			   ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]BookingListItem, 0)
	for rows.Next() {
		var it BookingListItem
		var createdAt time.Time
		if err := rows.Scan(
			&it.BookingRef, &it.MovieTitle, &it.TheaterName, &it.ScreenName,
			&it.ShowDate, &it.ShowTime, &it.Quantity, &it.FinalAmountCents,
			&it.Status, &it.PaymentStatus, &createdAt,
		); err != nil {
			return nil, err
		}
		it.BookedAt = createdAt.UTC().Format(time.RFC3339)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// BookingSummary aggregates a user's booking history for the summary
// endpoint.
type BookingSummary struct {
	TotalBookings     uint32 `json:"total_bookings"`
	ConfirmedBookings uint32 `json:"confirmed_bookings"`
	CancelledBookings uint32 `json:"cancelled_bookings"`
	TotalSpentCents   uint64 `json:"total_spent_cents"`
}

// SummaryForUser computes booking counts and the total spent across the
// user's confirmed bookings in a single aggregate query.
func (r *BookingRepo) SummaryForUser(ctx context.Context, userID uint64) (*BookingSummary, error) {
	const q = `SELECT COUNT(*),
					  COALESCE(SUM(status = 'CONFIRMED'), 0),
					  COALESCE(SUM(status = 'CANCELLED'), 0),
					  COALESCE(SUM(IF(status = 'CONFIRMED', final_amount_cents, 0)), 0)
			   FROM bookings WHERE user_id = ?`
	var s BookingSummary
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&s.TotalBookings, &s.ConfirmedBookings, &s.CancelledBookings, &s.TotalSpentCents,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
