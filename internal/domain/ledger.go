package domain

import (
	"context"
	"time"
)

// CaptureApplication bundles every side effect of one payment.captured
// event: the payment flips to CAPTURED, the order to PAID, the delivery
// grant is inserted and the seller payout scheduled. All of it commits in
// one transaction or not at all.
type CaptureApplication struct {
	PaymentID         string
	OrderID           string
	GatewayPaymentRef string
	Method            string
	PaidAt            time.Time
	Access            *OrderAccess
	Payout            *SellerPayout
}

// SettlementLedger is the transactional surface of the ledger store. The
// database's constraints are the serialization primitive here, not
// in-process locks: every method is safe under concurrent duplicate
// delivery of the same gateway event.
type SettlementLedger interface {
	// ApplyCapture applies a capture atomically. Returns false without
	// error when the event was already applied (redelivery).
	ApplyCapture(ctx context.Context, app *CaptureApplication) (bool, error)
	// ApplyPaymentFailure marks the payment FAILED and resets the order to
	// CREATED so the buyer can retry with a fresh payment attempt.
	ApplyPaymentFailure(ctx context.Context, paymentID, orderID, errorCode, errorDescription string) error
	// ApplyRefund marks the order REFUNDED, cancels any non-terminal payout
	// with the given reason, and deletes the delivery grant, atomically.
	ApplyRefund(ctx context.Context, orderID, reason string, now time.Time) error
}
