package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "CREATED"
	OrderStatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusDisputed       OrderStatus = "DISPUTED"
	OrderStatusRefunded       OrderStatus = "REFUNDED"
)

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusRefunded
}

// Settled reports whether the buyer's funds were captured and the order is
// still on the success path. Disputes may only be raised against settled
// orders, and duplicate-purchase checks look for them.
func (s OrderStatus) Settled() bool {
	return s == OrderStatusPaid || s == OrderStatusDelivered || s == OrderStatusCompleted
}

type Order struct {
	ID                string
	BuyerID           string
	SellerID          string
	ListingID         string
	PriceAmount       int64
	CommissionRateBps int64
	CommissionAmount  int64
	SellerAmount      int64
	Currency          string
	Status            OrderStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PaidAt            *time.Time
	RefundedAt        *time.Time
}

type OrderFilter struct {
	BuyerID  *string
	SellerID *string
	Status   *OrderStatus
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	// GetSettledOrderByBuyerListing returns the buyer's order for the
	// listing that is in a settled status, or ErrOrderNotFound.
	GetSettledOrderByBuyerListing(ctx context.Context, buyerID, listingID string) (*Order, error)
	// UpdateOrderStatus transitions the order to newStatus only if its
	// current status is one of from. Returns ErrStatusConflict when the
	// conditional update matched no row.
	UpdateOrderStatus(ctx context.Context, orderID string, from []OrderStatus, to OrderStatus) error
	ListOrders(ctx context.Context, filter OrderFilter, page, limit int) ([]*Order, int64, error)
}
