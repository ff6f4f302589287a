package usecase

import (
	"context"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
)

// BatchResult aggregates one scheduler run. Individual payout failures are
// recorded on the payout rows, never surfaced as a batch error.
type BatchResult struct {
	Processed int
	Failed    int
	Total     int
}

type PayoutUsecase interface {
	RunBatch(ctx context.Context, now time.Time, limit int) (*BatchResult, error)
	RequeueStale(ctx context.Context, now time.Time) (int64, error)
	GetPayoutByOrderID(ctx context.Context, orderID string) (*domain.SellerPayout, error)
}

type DefaultPayoutUsecase struct {
	PayoutRepo  domain.PayoutRepository
	OrderRepo   domain.OrderRepository
	AccountRepo domain.SellerAccountRepository
	Transfer    domain.TransferService
	Publisher   publisher.SettlementPublisher
	Metrics     *metrics.SettlementMetrics

	// Workers bounds concurrent transfer calls per batch run.
	Workers    int
	StaleAfter time.Duration
}

func NewDefaultPayoutUsecase(
	payoutRepo domain.PayoutRepository,
	orderRepo domain.OrderRepository,
	accountRepo domain.SellerAccountRepository,
	transfer domain.TransferService,
	settlementPublisher publisher.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics,
	workers int,
	staleAfter time.Duration) *DefaultPayoutUsecase {

	if workers < 1 {
		workers = 1
	}
	return &DefaultPayoutUsecase{
		PayoutRepo:  payoutRepo,
		OrderRepo:   orderRepo,
		AccountRepo: accountRepo,
		Transfer:    transfer,
		Publisher:   settlementPublisher,
		Metrics:     settlementMetrics,
		Workers:     workers,
		StaleAfter:  staleAfter,
	}
}

func (uc *DefaultPayoutUsecase) GetPayoutByOrderID(ctx context.Context, orderID string) (*domain.SellerPayout, error) {
	return uc.PayoutRepo.GetPayoutByOrderID(ctx, orderID)
}
