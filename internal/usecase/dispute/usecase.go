package usecase

import (
	"context"
	"log"

	"github.com/jaevor/go-nanoid"
	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
)

type RaiseDisputeInput struct {
	OrderID  string
	RaisedBy string
	Reason   string
}

type ResolveDisputeInput struct {
	DisputeID string
	Outcome   domain.DisputeOutcome
	Note      string
}

type DisputeUsecase interface {
	RaiseDispute(ctx context.Context, input *RaiseDisputeInput) (*domain.Dispute, error)
	ReviewDispute(ctx context.Context, disputeID string) error
	ResolveDispute(ctx context.Context, input *ResolveDisputeInput) error
	GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error)
	ListDisputes(ctx context.Context, filter domain.DisputeFilter, page, limit int) ([]*domain.Dispute, int64, error)
}

type DefaultDisputeUsecase struct {
	DisputeRepo domain.DisputeRepository
	OrderRepo   domain.OrderRepository
	Ledger      domain.SettlementLedger
	Publisher   publisher.SettlementPublisher
	Metrics     *metrics.SettlementMetrics

	newDisputeID func() string
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	orderRepo domain.OrderRepository,
	ledger domain.SettlementLedger,
	settlementPublisher publisher.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics) *DefaultDisputeUsecase {

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		log.Fatalf("failed to init dispute id generator: %v", err)
	}

	return &DefaultDisputeUsecase{
		DisputeRepo:  disputeRepo,
		OrderRepo:    orderRepo,
		Ledger:       ledger,
		Publisher:    settlementPublisher,
		Metrics:      settlementMetrics,
		newDisputeID: idGenerator,
	}
}

func (uc *DefaultDisputeUsecase) GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	return uc.DisputeRepo.GetDisputeByID(ctx, disputeID)
}

func (uc *DefaultDisputeUsecase) ListDisputes(ctx context.Context, filter domain.DisputeFilter, page, limit int) ([]*domain.Dispute, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.DisputeRepo.ListDisputes(ctx, filter, page, limit)
}
