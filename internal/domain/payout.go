package domain

import (
	"context"
	"time"
)

type PayoutStatus string

const (
	PayoutStatusScheduled  PayoutStatus = "SCHEDULED"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusCompleted  PayoutStatus = "COMPLETED"
	PayoutStatusFailed     PayoutStatus = "FAILED"
	PayoutStatusCancelled  PayoutStatus = "CANCELLED"
)

// SellerPayout is one scheduled transfer of the seller share for one order.
// A partial unique index guarantees at most one payout per order outside
// CANCELLED/FAILED.
type SellerPayout struct {
	ID           string
	OrderID      string
	SellerID     string
	Amount       int64
	Currency     string
	Status       PayoutStatus
	ScheduledAt  time.Time
	ProcessedAt  *time.Time
	ErrorMessage string
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PayoutRepository interface {
	// DueScheduled returns SCHEDULED payouts with scheduled_at <= now,
	// oldest first, capped at limit.
	DueScheduled(ctx context.Context, now time.Time, limit int) ([]*SellerPayout, error)
	GetPayoutByID(ctx context.Context, payoutID string) (*SellerPayout, error)
	GetPayoutByOrderID(ctx context.Context, orderID string) (*SellerPayout, error)
	// MarkProcessing claims a payout for settlement: SCHEDULED -> PROCESSING.
	// Returns false when the payout is no longer SCHEDULED, so overlapping
	// batch runs and concurrent cancellations produce one winner.
	MarkProcessing(ctx context.Context, payoutID string) (bool, error)
	// MarkCompleted finishes settlement: PROCESSING -> COMPLETED.
	MarkCompleted(ctx context.Context, payoutID string, processedAt time.Time) (bool, error)
	// MarkFailed records a settlement failure from SCHEDULED or PROCESSING.
	MarkFailed(ctx context.Context, payoutID string, errorMessage string) (bool, error)
	// RequeueStale returns payouts stuck in PROCESSING since before deadline
	// back to SCHEDULED. A crashed batch run must never strand a settlement.
	RequeueStale(ctx context.Context, deadline time.Time) (int64, error)
}
