package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
)

// SplitCommission computes the platform share of price at rateBps basis
// points. Fractional minor units round toward the platform, so
// commission + seller share always reproduces price exactly.
func SplitCommission(price, rateBps int64) (commission, seller int64) {
	commission = (price*rateBps + 9999) / 10000
	if commission > price {
		commission = price
	}
	seller = price - commission
	return commission, seller
}

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *CreateOrderInput) (*CreateOrderOutput, error) {
	listing, err := uc.ListingDir.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Sellable {
		return nil, domain.ErrListingUnavailable
	}
	if listing.SellerID == input.BuyerID {
		return nil, domain.ErrInvalidPurchase
	}

	// One settled purchase of a listing per buyer.
	if _, err := uc.OrderRepo.GetSettledOrderByBuyerListing(ctx, input.BuyerID, input.ListingID); err == nil {
		return nil, domain.ErrDuplicatePurchase
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	// The commission rate is read fresh and frozen onto the order; later
	// platform changes never touch it.
	cfg, err := uc.ConfigProvider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform config: %w", err)
	}
	commission, sellerAmount := SplitCommission(listing.PriceAmount, cfg.CommissionRateBps)

	now := time.Now()
	order := &domain.Order{
		ID:                uuid.New().String(),
		BuyerID:           input.BuyerID,
		SellerID:          listing.SellerID,
		ListingID:         listing.ID,
		PriceAmount:       listing.PriceAmount,
		CommissionRateBps: cfg.CommissionRateBps,
		CommissionAmount:  commission,
		SellerAmount:      sellerAmount,
		Currency:          listing.Currency,
		Status:            domain.OrderStatusCreated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
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

	uc.Metrics.OrdersCreatedTotal.WithLabelValues(order.Currency).Inc()
	uc.Metrics.OrdersCreatedAmountTotal.WithLabelValues(order.Currency).Add(float64(order.PriceAmount))

	go func(event publisher.OrderEvent) {
		if err := uc.Publisher.PublishOrder(event); err != nil {
			slog.Error("failed to publish order event", "stage", "creating", "error", err.Error())
		}
	}(publisher.OrderEvent{
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		ListingID: order.ListingID,
		Status:    string(order.Status),
		Amount:    order.PriceAmount,
		Currency:  order.Currency,
	})

	return &CreateOrderOutput{Order: order, Payment: payment}, nil
}
