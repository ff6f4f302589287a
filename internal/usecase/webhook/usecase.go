package usecase

import (
	"context"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
)

// Gateway event types this service understands. Anything else is
// acknowledged and ignored so a gateway rollout never turns into a retry
// storm against us.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventRefundCreated   = "refund.created"
)

// GatewayEvent is the signed payload the payment gateway POSTs to us.
type GatewayEvent struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	Data      GatewayEventData `json:"data"`
}

type GatewayEventData struct {
	GatewayOrderRef   string `json:"gateway_order_ref"`
	GatewayPaymentRef string `json:"gateway_payment_ref"`
	Method            string `json:"method"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	ErrorCode         string `json:"error_code"`
	ErrorDescription  string `json:"error_description"`
	RefundRef         string `json:"refund_ref"`
}

type WebhookUsecase interface {
	// HandleEvent verifies and applies one raw webhook delivery. A nil
	// return is an Ack; domain.ErrInvalidSignature is the only Reject that
	// must map to 401.
	HandleEvent(ctx context.Context, rawBody []byte, signature string) error
}

type DefaultWebhookUsecase struct {
	secret         []byte
	PaymentRepo    domain.PaymentRepository
	OrderRepo      domain.OrderRepository
	Ledger         domain.SettlementLedger
	ConfigProvider domain.ConfigProvider
	Publisher      publisher.SettlementPublisher
	Metrics        *metrics.SettlementMetrics

	now func() time.Time
}

func NewDefaultWebhookUsecase(
	secret string,
	paymentRepo domain.PaymentRepository,
	orderRepo domain.OrderRepository,
	ledger domain.SettlementLedger,
	configProvider domain.ConfigProvider,
	settlementPublisher publisher.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics) *DefaultWebhookUsecase {

	return &DefaultWebhookUsecase{
		secret:         []byte(secret),
		PaymentRepo:    paymentRepo,
		OrderRepo:      orderRepo,
		Ledger:         ledger,
		ConfigProvider: configProvider,
		Publisher:      settlementPublisher,
		Metrics:        settlementMetrics,
		now:            time.Now,
	}
}
