package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
)

// RunBatch settles every due payout, oldest first, with a bounded worker
// pool. Each payout is isolated: one bad transfer never aborts its
// siblings. Only an infrastructure failure (the ledger store itself)
// surfaces as an error.
func (uc *DefaultPayoutUsecase) RunBatch(ctx context.Context, now time.Time, limit int) (*BatchResult, error) {
	started := time.Now()
	defer func() {
		uc.Metrics.PayoutBatchDurationSeconds.Observe(time.Since(started).Seconds())
	}()

	payouts, err := uc.PayoutRepo.DueScheduled(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select due payouts: %w", err)
	}

	result := &BatchResult{Total: len(payouts)}
	if len(payouts) == 0 {
		return result, nil
	}

	jobs := make(chan *domain.SellerPayout)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < uc.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for payout := range jobs {
				ok := uc.processPayout(ctx, payout)
				mu.Lock()
				if ok {
					result.Processed++
				} else {
					result.Failed++
				}
				mu.Unlock()
			}
		}()
	}
	for _, payout := range payouts {
		jobs <- payout
	}
	close(jobs)
	wg.Wait()

	return result, nil
}

func (uc *DefaultPayoutUsecase) processPayout(ctx context.Context, payout *domain.SellerPayout) bool {
	account, err := uc.AccountRepo.GetBankAccountBySellerID(ctx, payout.SellerID)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		slog.Error("failed to load seller bank account",
			"payout_id", payout.ID, "seller_id", payout.SellerID, "error", err.Error())
		uc.markFailed(ctx, payout, err.Error())
		return false
	}
	if account == nil || !account.Enabled {
		// Dead end requiring operator action: no automatic retry once the
		// seller adds a destination.
		uc.markFailed(ctx, payout, domain.ErrMissingBankAccount.Error())
		return false
	}

	// Claim before transfer so overlapping runs and a concurrent
	// refund-cancellation cannot both settle this payout.
	claimed, err := uc.PayoutRepo.MarkProcessing(ctx, payout.ID)
	if err != nil {
		slog.Error("failed to claim payout", "payout_id", payout.ID, "error", err.Error())
		return false
	}
	if !claimed {
		slog.Info("payout no longer claimable, skipping", "payout_id", payout.ID)
		return false
	}

	transferErr := uc.Transfer.Transfer(ctx, &domain.TransferRequest{
		PayoutID:      payout.ID,
		SellerID:      payout.SellerID,
		Amount:        payout.Amount,
		Currency:      payout.Currency,
		BankName:      account.BankName,
		AccountHolder: account.AccountHolder,
		AccountRef:    account.AccountRef,
	})
	if transferErr != nil {
		uc.markFailed(ctx, payout, transferErr.Error())
		return false
	}

	processedAt := time.Now()
	completed, err := uc.PayoutRepo.MarkCompleted(ctx, payout.ID, processedAt)
	if err != nil {
		slog.Error("failed to record payout completion",
			"payout_id", payout.ID, "error", err.Error())
		return false
	}
	if !completed {
		// A refund cancelled the payout while the transfer was in flight.
		// The money left the platform; this needs an operator.
		slog.Error("payout settled externally but was cancelled in the ledger",
			"payout_id", payout.ID, "order_id", payout.OrderID)
		return false
	}

	// Settlement closes the order.
	if err := uc.OrderRepo.UpdateOrderStatus(ctx, payout.OrderID,
		[]domain.OrderStatus{domain.OrderStatusPaid, domain.OrderStatusDelivered},
		domain.OrderStatusCompleted); err != nil && !errors.Is(err, domain.ErrStatusConflict) {
		slog.Error("failed to complete order after payout",
			"payout_id", payout.ID, "order_id", payout.OrderID, "error", err.Error())
	}

	uc.Metrics.PayoutsProcessedTotal.WithLabelValues(string(domain.PayoutStatusCompleted)).Inc()
	go func(event publisher.PayoutEvent) {
		if err := uc.Publisher.PublishPayout(event); err != nil {
			slog.Error("failed to publish payout event", "stage", "completed", "error", err.Error())
		}
	}(publisher.PayoutEvent{
		PayoutID: payout.ID,
		OrderID:  payout.OrderID,
		SellerID: payout.SellerID,
		Amount:   payout.Amount,
		Currency: payout.Currency,
		Status:   string(domain.PayoutStatusCompleted),
	})

	return true
}

func (uc *DefaultPayoutUsecase) markFailed(ctx context.Context, payout *domain.SellerPayout, message string) {
	if _, err := uc.PayoutRepo.MarkFailed(ctx, payout.ID, message); err != nil {
		slog.Error("failed to record payout failure",
			"payout_id", payout.ID, "error", err.Error())
		return
	}
	uc.Metrics.PayoutsProcessedTotal.WithLabelValues(string(domain.PayoutStatusFailed)).Inc()
	go func(event publisher.PayoutEvent) {
		if err := uc.Publisher.PublishPayout(event); err != nil {
			slog.Error("failed to publish payout event", "stage", "failed", "error", err.Error())
		}
	}(publisher.PayoutEvent{
		PayoutID: payout.ID,
		OrderID:  payout.OrderID,
		SellerID: payout.SellerID,
		Amount:   payout.Amount,
		Currency: payout.Currency,
		Status:   string(domain.PayoutStatusFailed),
		Error:    message,
	})
}
