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

// ErrPaymentNotFound indicates that a payment was not located in the DB
// for the requesting user.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo provides data access to the payments table. Payments are
// one-to-one with bookings; the booking_id column carries a unique key.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// NewPaymentID generates the external-facing payment identifier in the
// form "PAY_" followed by 12 uppercase hex characters.
func NewPaymentID() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "PAY_" + strings.ToUpper(hex.EncodeToString(b)), nil
}

// ExistsForBookingTx reports whether a payment already exists for the
// booking, within the provided transaction. Called with the booking row
// locked, so the answer holds until commit.
func (r *PaymentRepo) ExistsForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error) {
	const q = `SELECT 1 FROM payments WHERE booking_id = ? LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new payment in INITIATED state within the provided
// transaction, populating the generated ID and initiated_at on the given
// record. The unique key on booking_id is the final line of defense
// against a duplicate payment slipping past ExistsForBookingTx.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, payment_id, method, amount_cents, status)
			   VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, p.BookingID, p.PaymentID, p.Method, p.AmountCents, p.Status)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrPaymentExists
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT initiated_at FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.InitiatedAt)
}

// scanPayment scans one payments row, converting nullable columns.
func scanPayment(row interface{ Scan(...interface{}) error }) (*model.Payment, error) {
	var p model.Payment
	var txnID sql.NullString
	var completedAt, failedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.BookingID, &p.PaymentID, &p.Method, &p.AmountCents,
		&txnID, &p.Status, &p.InitiatedAt, &completedAt, &failedAt,
	)
	if err != nil {
		return nil, err
	}
	if txnID.Valid {
		s := txnID.String
		p.GatewayTxnID = &s
	}
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	if failedAt.Valid {
		t := failedAt.Time
		p.FailedAt = &t
	}
	return &p, nil
}

const paymentColumns = `p.id, p.booking_id, p.payment_id, p.method, p.amount_cents,
	   p.gateway_txn_id, p.status, p.initiated_at, p.completed_at, p.failed_at`

// GetByPaymentIDForUserTx loads a payment by its external identifier
// within a transaction, verifying through the bookings join that it
// belongs to the requesting user. The row is locked for the duration of
// the transaction so concurrent process calls serialize.
func (r *PaymentRepo) GetByPaymentIDForUserTx(ctx context.Context, tx *sql.Tx, paymentID string, userID uint64) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + `
		  FROM payments p
		  JOIN bookings b ON b.id = p.booking_id
		  WHERE p.payment_id = ? AND b.user_id = ?
		  FOR UPDATE`
	p, err := scanPayment(tx.QueryRowContext(ctx, q, paymentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByBooking returns the payment for a booking, or nil when none
// exists. Used when assembling booking detail responses.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.booking_id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// CompleteTx settles an initiated payment as COMPLETED, recording the
// gateway transaction id and completion time. The status guard returns
// ErrInvalidState when the payment was already settled.
func (r *PaymentRepo) CompleteTx(ctx context.Context, tx *sql.Tx, paymentID uint64, txnID string, now time.Time) error {
	const q = `UPDATE payments
			   SET status = 'COMPLETED', gateway_txn_id = ?, completed_at = ?
			   WHERE id = ? AND status = 'INITIATED'`
	res, err := tx.ExecContext(ctx, q, txnID, now.UTC().Format("2006-01-02 15:04:05"), paymentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidState
	}
	return nil
}

// FailTx settles an initiated payment as FAILED, recording the failure
// time. The booking stays pending so the user can retry until expiry.
func (r *PaymentRepo) FailTx(ctx context.Context, tx *sql.Tx, paymentID uint64, now time.Time) error {
	const q = `UPDATE payments
			   SET status = 'FAILED', failed_at = ?
			   WHERE id = ? AND status = 'INITIATED'`
	res, err := tx.ExecContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"), paymentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidState
	}
	return nil
}

// RefundByBookingTx marks a booking's completed payment as REFUNDED.
// Called from the cancellation transaction; when the booking has no
// completed payment the statement affects no rows and that is fine.
func (r *PaymentRepo) RefundByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `UPDATE payments SET status = 'REFUNDED' WHERE booking_id = ? AND status = 'COMPLETED'`
	_, err := tx.ExecContext(ctx, q, bookingID)
	return err
}

// CompletedForBookingTx reports whether the booking has a completed
// payment, within the provided transaction. The cancellation flow uses
// it to decide whether a refund applies.
func (r *PaymentRepo) CompletedForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error) {
	const q = `SELECT 1 FROM payments WHERE booking_id = ? AND status = 'COMPLETED' LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
