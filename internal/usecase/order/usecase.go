package usecase

import (
	"context"
	"log"

	"github.com/jaevor/go-nanoid"
	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
)

type CreateOrderInput struct {
	BuyerID   string
	ListingID string
}

type CreateOrderOutput struct {
	Order   *domain.Order
	Payment *domain.Payment
}

type CheckoutOutput struct {
	Order           *domain.Order
	GatewayOrderRef string
}

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*CreateOrderOutput, error)
	BeginCheckout(ctx context.Context, orderID, buyerID string) (*CheckoutOutput, error)
	RegisterDownload(ctx context.Context, orderID, buyerID string) (*domain.OrderAccess, error)
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]*domain.Order, int64, error)
}

type DefaultOrderUsecase struct {
	OrderRepo      domain.OrderRepository
	PaymentRepo    domain.PaymentRepository
	AccessRepo     domain.AccessRepository
	ListingDir     domain.ListingDirectory
	ConfigProvider domain.ConfigProvider
	Publisher      publisher.SettlementPublisher
	Metrics        *metrics.SettlementMetrics

	newGatewayRef func() string
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	paymentRepo domain.PaymentRepository,
	accessRepo domain.AccessRepository,
	listingDir domain.ListingDirectory,
	configProvider domain.ConfigProvider,
	settlementPublisher publisher.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics) *DefaultOrderUsecase {

	refGenerator, err := nanoid.CustomASCII("0123456789abcdefghijklmnopqrstuvwxyz", 21)
	if err != nil {
		log.Fatalf("failed to init gateway ref generator: %v", err)
	}

	return &DefaultOrderUsecase{
		OrderRepo:      orderRepo,
		PaymentRepo:    paymentRepo,
		AccessRepo:     accessRepo,
		ListingDir:     listingDir,
		ConfigProvider: configProvider,
		Publisher:      settlementPublisher,
		Metrics:        settlementMetrics,
		newGatewayRef:  refGenerator,
	}
}
