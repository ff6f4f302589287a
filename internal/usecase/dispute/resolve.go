package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
)

// ResolveDispute closes an active dispute. A refund outcome refunds the
// order, cancels any in-flight payout and revokes delivery access in one
// ledger transaction; a no-refund outcome restores the order to the status
// stored when the dispute was raised.
func (uc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, input *ResolveDisputeInput) error {
	dispute, err := uc.DisputeRepo.GetDisputeByID(ctx, input.DisputeID)
	if err != nil {
		return err
	}
	if !dispute.Status.Active() {
		return domain.ErrDisputeResolved
	}

	var newStatus domain.DisputeStatus
	switch input.Outcome {
	case domain.DisputeOutcomeRefund:
		newStatus = domain.DisputeStatusResolvedRefund
	case domain.DisputeOutcomeNoRefund:
		newStatus = domain.DisputeStatusResolvedNoRefund
	default:
		return fmt.Errorf("unknown dispute outcome: %s", input.Outcome)
	}

	now := time.Now()

	// The refund lands before the dispute transition. If it fails the
	// dispute stays active and the resolution can simply be retried;
	// ApplyRefund on an already refunded order is a no-op, so the retry
	// converges instead of stranding the order in DISPUTED.
	if input.Outcome == domain.DisputeOutcomeRefund {
		reason := fmt.Sprintf("dispute %s resolved with refund", dispute.ID)
		if err := uc.Ledger.ApplyRefund(ctx, dispute.OrderID, reason, now); err != nil {
			return err
		}
	}

	// The conditional dispute update is the claim: exactly one resolver
	// wins, the other sees ErrDisputeResolved.
	err = uc.DisputeRepo.UpdateDisputeStatus(ctx, dispute.ID,
		[]domain.DisputeStatus{domain.DisputeStatusOpen, domain.DisputeStatusUnderReview},
		newStatus, input.Note, &now)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return domain.ErrDisputeResolved
		}
		return err
	}

	switch input.Outcome {
	case domain.DisputeOutcomeRefund:
		uc.Metrics.DisputesTotal.WithLabelValues("resolved_refund").Inc()
	case domain.DisputeOutcomeNoRefund:
		err := uc.OrderRepo.UpdateOrderStatus(ctx, dispute.OrderID,
			[]domain.OrderStatus{domain.OrderStatusDisputed}, dispute.OrderStatusPrior)
		if err != nil && !errors.Is(err, domain.ErrStatusConflict) {
			return err
		}
		uc.Metrics.DisputesTotal.WithLabelValues("resolved_no_refund").Inc()
	}

	go func(event publisher.DisputeEvent) {
		if err := uc.Publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "stage", "resolving", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		DisputeID:  dispute.ID,
		OrderID:    dispute.OrderID,
		RaisedBy:   dispute.RaisedBy,
		Reason:     dispute.Reason,
		Status:     string(newStatus),
		Resolution: input.Note,
	})

	return nil
}
