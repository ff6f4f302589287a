package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
)

func (uc *DefaultWebhookUsecase) HandleEvent(ctx context.Context, rawBody []byte, signature string) error {
	// Authenticity first: a forged event must never reach any state
	// mutation, whatever its payload says.
	if !uc.verifySignature(rawBody, signature) {
		uc.Metrics.WebhookSignatureFailuresTotal.Inc()
		return domain.ErrInvalidSignature
	}

	var event GatewayEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("failed to decode gateway event: %w", err)
	}

	switch event.Type {
	case EventPaymentCaptured:
		return uc.handleCaptured(ctx, &event)
	case EventPaymentFailed:
		return uc.handleFailed(ctx, &event)
	case EventRefundCreated:
		return uc.handleRefund(ctx, &event)
	default:
		// Forward compatibility: ack unknown types, keep a trace.
		slog.Info("ignoring unknown gateway event type",
			"event_id", event.ID, "type", event.Type)
		uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}
}

// verifySignature recomputes the HMAC over the exact raw body and compares
// in constant time.
func (uc *DefaultWebhookUsecase) verifySignature(rawBody []byte, signature string) bool {
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, uc.secret)
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), provided)
}

func (uc *DefaultWebhookUsecase) handleCaptured(ctx context.Context, event *GatewayEvent) error {
	payment, err := uc.PaymentRepo.GetPaymentByGatewayOrderRef(ctx, event.Data.GatewayOrderRef)
	if err != nil {
		return err
	}
	if payment.Status == domain.PaymentStatusCaptured {
		// Gateways deliver at least once; the work is already done.
		uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
		return nil
	}

	cfg, err := uc.ConfigProvider.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read platform config: %w", err)
	}
	order, err := uc.OrderRepo.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return err
	}

	paidAt := uc.now()
	app := &domain.CaptureApplication{
		PaymentID:         payment.ID,
		OrderID:           order.ID,
		GatewayPaymentRef: event.Data.GatewayPaymentRef,
		Method:            event.Data.Method,
		PaidAt:            paidAt,
		Access: &domain.OrderAccess{
			OrderID:      order.ID,
			GrantedAt:    paidAt,
			MaxDownloads: cfg.MaxDownloads,
		},
		Payout: &domain.SellerPayout{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			SellerID:    order.SellerID,
			Amount:      order.SellerAmount,
			Currency:    order.Currency,
			Status:      domain.PayoutStatusScheduled,
			ScheduledAt: paidAt.AddDate(0, 0, cfg.PayoutDelayDays),
			CreatedAt:   paidAt,
			UpdatedAt:   paidAt,
		},
	}

	applied, err := uc.Ledger.ApplyCapture(ctx, app)
	if err != nil {
		return err
	}
	if !applied {
		uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
		return nil
	}
	uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()

	go func(orderEvent publisher.OrderEvent, payoutEvent publisher.PayoutEvent) {
		if err := uc.Publisher.PublishOrder(orderEvent); err != nil {
			slog.Error("failed to publish order event", "stage", "capture", "error", err.Error())
		}
		if err := uc.Publisher.PublishPayout(payoutEvent); err != nil {
			slog.Error("failed to publish payout event", "stage", "capture", "error", err.Error())
		}
	}(publisher.OrderEvent{
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		ListingID: order.ListingID,
		Status:    string(domain.OrderStatusPaid),
		Amount:    order.PriceAmount,
		Currency:  order.Currency,
	}, publisher.PayoutEvent{
		PayoutID: app.Payout.ID,
		OrderID:  order.ID,
		SellerID: order.SellerID,
		Amount:   app.Payout.Amount,
		Currency: app.Payout.Currency,
		Status:   string(domain.PayoutStatusScheduled),
	})

	return nil
}

func (uc *DefaultWebhookUsecase) handleFailed(ctx context.Context, event *GatewayEvent) error {
	payment, err := uc.PaymentRepo.GetPaymentByGatewayOrderRef(ctx, event.Data.GatewayOrderRef)
	if err != nil {
		return err
	}
	if payment.Status != domain.PaymentStatusPending {
		// Redelivery, or a failure notice after capture. The ledger keeps
		// whatever already settled.
		uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
		return nil
	}

	if err := uc.Ledger.ApplyPaymentFailure(ctx, payment.ID, payment.OrderID,
		event.Data.ErrorCode, event.Data.ErrorDescription); err != nil {
		return err
	}
	uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()
	return nil
}

func (uc *DefaultWebhookUsecase) handleRefund(ctx context.Context, event *GatewayEvent) error {
	payment, err := uc.PaymentRepo.GetPaymentByGatewayOrderRef(ctx, event.Data.GatewayOrderRef)
	if err != nil {
		return err
	}
	order, err := uc.OrderRepo.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return err
	}

	reason := fmt.Sprintf("gateway refund %s", event.Data.RefundRef)
	if err := uc.Ledger.ApplyRefund(ctx, order.ID, reason, uc.now()); err != nil {
		return err
	}
	uc.Metrics.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()

	go func(orderEvent publisher.OrderEvent) {
		if err := uc.Publisher.PublishOrder(orderEvent); err != nil {
			slog.Error("failed to publish order event", "stage", "refund", "error", err.Error())
		}
	}(publisher.OrderEvent{
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		ListingID: order.ListingID,
		Status:    string(domain.OrderStatusRefunded),
		Amount:    order.PriceAmount,
		Currency:  order.Currency,
	})

	return nil
}
