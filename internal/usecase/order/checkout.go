package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lunamarket/settlement-service/internal/domain"
)

// BeginCheckout moves the order into PAYMENT_PENDING and hands the caller
// the gateway order reference to drive the checkout widget. After a failed
// attempt it mints a fresh payment row, so every gateway reference maps to
// exactly one attempt.
func (uc *DefaultOrderUsecase) BeginCheckout(ctx context.Context, orderID, buyerID string) (*CheckoutOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status.Terminal() {
		return nil, domain.ErrTerminalState
	}

	switch order.Status {
	case domain.OrderStatusCreated:
		if err := uc.OrderRepo.UpdateOrderStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderStatusCreated},
			domain.OrderStatusPaymentPending); err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatusPaymentPending
	case domain.OrderStatusPaymentPending:
		// Re-entering checkout is fine; same reference unless the last
		// attempt failed.
	default:
		return nil, domain.ErrStatusConflict
	}

	payment, err := uc.PaymentRepo.GetLatestPaymentByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, err
	}
	if payment == nil || payment.Status == domain.PaymentStatusFailed {
		now := time.Now()
		payment = &domain.Payment{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			GatewayOrderRef: uc.newGatewayRef(),
			Amount:          order.PriceAmount,
			Currency:        order.Currency,
			Status:          domain.PaymentStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uc.PaymentRepo.CreatePayment(ctx, payment); err != nil {
			return nil, err
		}
	}

	return &CheckoutOutput{Order: order, GatewayOrderRef: payment.GatewayOrderRef}, nil
}

// RegisterDownload consumes one unit of the delivery allowance. The first
// download is the delivery moment: it advances the order from PAID to
// DELIVERED.
func (uc *DefaultOrderUsecase) RegisterDownload(ctx context.Context, orderID, buyerID string) (*domain.OrderAccess, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Status.Settled() {
		return nil, domain.ErrStatusConflict
	}

	if _, err := uc.AccessRepo.GetAccessByOrderID(ctx, orderID); err != nil {
		return nil, err
	}
	ok, err := uc.AccessRepo.RegisterDownload(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDownloadsExhausted
	}

	if order.Status == domain.OrderStatusPaid {
		err := uc.OrderRepo.UpdateOrderStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderStatusPaid},
			domain.OrderStatusDelivered)
		// A concurrent download or payout completion may have advanced the
		// order already; that is not a failure of this download.
		if err != nil && !errors.Is(err, domain.ErrStatusConflict) {
			return nil, err
		}
	}

	return uc.AccessRepo.GetAccessByOrderID(ctx, orderID)
}
