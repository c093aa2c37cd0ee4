package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// ErrCouponNotFound indicates that no coupon exists for the given code.
var ErrCouponNotFound = errors.New("coupon not found")

// CouponRepo provides data access to coupons and their usage records.
// Discount math lives on model.Coupon; this layer is responsible for
// lookups and for the guarded used_count increment that keeps a coupon
// from being redeemed past its limits under concurrency.
type CouponRepo struct {
	db *sql.DB
}

// NewCouponRepo returns a new CouponRepo bound to the given database.
func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{db: db} }

// scanCoupon scans one coupons row, converting nullable columns.
func scanCoupon(row interface{ Scan(...interface{}) error }) (*model.Coupon, error) {
	var c model.Coupon
	var maxDiscount, usageLimit sql.NullInt64
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.Type, &c.Value,
		&c.MinimumAmountCents, &maxDiscount, &usageLimit, &c.UsedCount, &c.UserLimit,
		&c.ValidFrom, &c.ValidUntil, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		v := uint32(maxDiscount.Int64)
		c.MaximumDiscountCents = &v
	}
	if usageLimit.Valid {
		v := uint32(usageLimit.Int64)
		c.UsageLimit = &v
	}
	return &c, nil
}

const couponColumns = `id, code, description, coupon_type, value,
	   minimum_amount_cents, maximum_discount_cents, usage_limit, used_count, user_limit,
	   valid_from, valid_until, is_active, created_at, updated_at`

// GetByCode retrieves a coupon by its unique code. It returns
// ErrCouponNotFound if there is no matching row.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE code = ?`
	c, err := scanCoupon(r.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByCodeTx is GetByCode within a transaction with a row lock, so the
// coupon's counters cannot move between the re-validation at booking
// creation and the guarded increment.
func (r *CouponRepo) GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE code = ? FOR UPDATE`
	c, err := scanCoupon(tx.QueryRowContext(ctx, q, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

// CountUsageByUser returns how many times the user has redeemed the
// coupon. Backs the per-user limit check at validation time.
func (r *CouponRepo) CountUsageByUser(ctx context.Context, couponID, userID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = ? AND user_id = ?`
	var n uint32
	if err := r.db.QueryRowContext(ctx, q, couponID, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountUsageByUserTx is CountUsageByUser within a transaction, used by
// the booking-creation re-validation.
func (r *CouponRepo) CountUsageByUserTx(ctx context.Context, tx *sql.Tx, couponID, userID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = ? AND user_id = ?`
	var n uint32
	if err := tx.QueryRowContext(ctx, q, couponID, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateUsageTx records one redemption of a coupon by a booking within
// the booking-creation transaction. The unique key on (coupon_id,
// booking_id) guarantees a coupon applies to a booking at most once.
func (r *CouponRepo) CreateUsageTx(ctx context.Context, tx *sql.Tx, u *model.CouponUsage) error {
	const q = `INSERT INTO coupon_usages (coupon_id, user_id, booking_id, discount_amount_cents)
			   VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, u.CouponID, u.UserID, u.BookingID, u.DiscountAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// IncrementUsedTx bumps the coupon's used_count with the usage limit
// re-checked inside the UPDATE's WHERE clause. When a concurrent
// redemption exhausted the coupon first, no row is affected and
// ErrCouponExhausted is returned; the caller must roll back the booking.
func (r *CouponRepo) IncrementUsedTx(ctx context.Context, tx *sql.Tx, couponID uint64) error {
	const q = `UPDATE coupons
			   SET used_count = used_count + 1
			   WHERE id = ? AND (usage_limit IS NULL OR used_count < usage_limit)`
	res, err := tx.ExecContext(ctx, q, couponID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCouponExhausted
	}
	return nil
}
