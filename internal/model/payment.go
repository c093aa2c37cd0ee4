package model

import "time"

// Payment statuses.  A payment is created INITIATED and settles to
// COMPLETED or FAILED through the mock gateway; REFUNDED is reached
// when a confirmed booking is cancelled.
const (
	PaymentInitiated  = "INITIATED"
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
	PaymentCancelled  = "CANCELLED"
	PaymentRefunded   = "REFUNDED"
)

// Payment methods accepted by the mock gateway.
const (
	MethodCreditCard = "CREDIT_CARD"
	MethodDebitCard  = "DEBIT_CARD"
	MethodUPI        = "UPI"
	MethodNetBanking = "NET_BANKING"
	MethodWallet     = "WALLET"
)

// Payment is the one-to-one payment record for a booking.  Uniqueness
// of bookings.id in payments.booking_id guarantees at most one payment
// per booking.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking being paid for; unique.
//  PaymentID     – external-facing identifier ("PAY_..."); unique.
//  Method        – payment method chosen by the user.
//  AmountCents   – amount charged; equals the booking's final amount.
//  GatewayTxnID  – transaction id returned by the gateway on success.
//  Status        – current payment state.
//  InitiatedAt   – creation timestamp.
//  CompletedAt   – set when the payment completes.
//  FailedAt      – set when the payment fails.
type Payment struct {
	ID           uint64     // payments.id
	BookingID    uint64     // payments.booking_id
	PaymentID    string     // payments.payment_id
	Method       string     // payments.method
	AmountCents  uint32     // payments.amount_cents
	GatewayTxnID *string    // payments.gateway_txn_id (nullable)
	Status       string     // payments.status
	InitiatedAt  time.Time  // payments.initiated_at
	CompletedAt  *time.Time // payments.completed_at (nullable)
	FailedAt     *time.Time // payments.failed_at (nullable)
}

// CanProcess reports whether the payment may be settled.  Only a
// freshly initiated payment can be processed; completed, failed and
// refunded payments reject further attempts.
func (p *Payment) CanProcess() bool {
	return p.Status == PaymentInitiated
}

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodUPI, MethodNetBanking, MethodWallet:
		return true
	}
	return false
}
