package domain

import (
	"context"
	"time"
)

type DisputeStatus string

const (
	DisputeStatusOpen             DisputeStatus = "OPEN"
	DisputeStatusUnderReview      DisputeStatus = "UNDER_REVIEW"
	DisputeStatusResolvedRefund   DisputeStatus = "RESOLVED_REFUND"
	DisputeStatusResolvedNoRefund DisputeStatus = "RESOLVED_NO_REFUND"
)

// Active reports whether the dispute still blocks the order.
func (s DisputeStatus) Active() bool {
	return s == DisputeStatusOpen || s == DisputeStatusUnderReview
}

type DisputeOutcome string

const (
	DisputeOutcomeRefund   DisputeOutcome = "refund"
	DisputeOutcomeNoRefund DisputeOutcome = "no_refund"
)

// Dispute is a claim against a settled order. OrderStatusPrior keeps the
// order status at the moment the dispute was raised; a no-refund resolution
// restores it instead of guessing from timestamps.
type Dispute struct {
	ID               string
	OrderID          string
	RaisedBy         string
	Reason           string
	Status           DisputeStatus
	Resolution       string
	OrderStatusPrior OrderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}

type DisputeFilter struct {
	OrderID *string
	Status  *DisputeStatus
}

type DisputeRepository interface {
	CreateDispute(ctx context.Context, dispute *Dispute) error
	GetDisputeByID(ctx context.Context, disputeID string) (*Dispute, error)
	// GetActiveDisputeByOrderID returns the OPEN/UNDER_REVIEW dispute for
	// the order, or ErrDisputeNotFound.
	GetActiveDisputeByOrderID(ctx context.Context, orderID string) (*Dispute, error)
	// UpdateDisputeStatus transitions the dispute only from one of the given
	// statuses, recording resolution and resolvedAt when provided.
	UpdateDisputeStatus(ctx context.Context, disputeID string, from []DisputeStatus, to DisputeStatus, resolution string, resolvedAt *time.Time) error
	ListDisputes(ctx context.Context, filter DisputeFilter, page, limit int) ([]*Dispute, int64, error)
}
