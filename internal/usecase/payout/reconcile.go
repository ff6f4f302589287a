package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RequeueStale returns payouts abandoned in PROCESSING by a crashed batch
// run back to SCHEDULED. The next batch picks them up again; nothing is
// silently lost.
func (uc *DefaultPayoutUsecase) RequeueStale(ctx context.Context, now time.Time) (int64, error) {
	deadline := now.Add(-uc.StaleAfter)
	n, err := uc.PayoutRepo.RequeueStale(ctx, deadline)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stale payouts: %w", err)
	}
	if n > 0 {
		uc.Metrics.PayoutsRequeuedTotal.Add(float64(n))
		slog.Warn("requeued stale payouts", "count", n)
	}
	return n, nil
}
