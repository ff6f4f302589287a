package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
)

// RaiseDispute opens a claim against a settled order. The order status at
// this moment is written onto the dispute, so a no-refund resolution can
// restore it exactly.
func (uc *DefaultDisputeUsecase) RaiseDispute(ctx context.Context, input *RaiseDisputeInput) (*domain.Dispute, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, domain.ErrTerminalState
	}
	if !order.Status.Settled() {
		return nil, domain.ErrDisputeNotDisputable
	}
	if _, err := uc.DisputeRepo.GetActiveDisputeByOrderID(ctx, order.ID); err == nil {
		return nil, domain.ErrDisputeAlreadyOpen
	} else if !errors.Is(err, domain.ErrDisputeNotFound) {
		return nil, err
	}

	// Claiming the order first keeps two concurrent raisers from both
	// inserting an active dispute.
	priorStatus := order.Status
	if err := uc.OrderRepo.UpdateOrderStatus(ctx, order.ID,
		[]domain.OrderStatus{priorStatus}, domain.OrderStatusDisputed); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.ErrDisputeAlreadyOpen
		}
		return nil, err
	}

	now := time.Now()
	dispute := &domain.Dispute{
		ID:               uc.newDisputeID(),
		OrderID:          order.ID,
		RaisedBy:         input.RaisedBy,
		Reason:           input.Reason,
		Status:           domain.DisputeStatusOpen,
		OrderStatusPrior: priorStatus,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.DisputeRepo.CreateDispute(ctx, dispute); err != nil {
		// Give the order back its status; the dispute never existed.
		if restoreErr := uc.OrderRepo.UpdateOrderStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderStatusDisputed}, priorStatus); restoreErr != nil {
			slog.Error("failed to restore order status after dispute insert failure",
				"order_id", order.ID, "error", restoreErr.Error())
		}
		return nil, err
	}

	uc.Metrics.DisputesTotal.WithLabelValues("raised").Inc()
	go func(event publisher.DisputeEvent) {
		if err := uc.Publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "stage", "raising", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		RaisedBy:  dispute.RaisedBy,
		Reason:    dispute.Reason,
		Status:    string(dispute.Status),
	})

	return dispute, nil
}

// ReviewDispute marks the dispute as being looked at by an admin.
func (uc *DefaultDisputeUsecase) ReviewDispute(ctx context.Context, disputeID string) error {
	err := uc.DisputeRepo.UpdateDisputeStatus(ctx, disputeID,
		[]domain.DisputeStatus{domain.DisputeStatusOpen},
		domain.DisputeStatusUnderReview, "", nil)
	if errors.Is(err, domain.ErrStatusConflict) {
		return domain.ErrDisputeResolved
	}
	return err
}
