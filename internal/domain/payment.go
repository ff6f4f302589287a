package domain

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusCaptured PaymentStatus = "CAPTURED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// Payment is one attempt to pay for one order. An order has at most one
// payment that reaches CAPTURED; a retry after FAILED creates a new row
// with a fresh gateway reference.
type Payment struct {
	ID                string
	OrderID           string
	GatewayOrderRef   string
	GatewayPaymentRef string
	Amount            int64
	Currency          string
	Status            PaymentStatus
	Method            string
	ErrorCode         string
	ErrorDescription  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	// GetPaymentByGatewayOrderRef is the webhook idempotency lookup:
	// gateway_order_ref is unique across all payment attempts.
	GetPaymentByGatewayOrderRef(ctx context.Context, ref string) (*Payment, error)
	// GetLatestPaymentByOrderID returns the most recent attempt for the order.
	GetLatestPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error)
}
