package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the full order lifecycle: creation, webhook
// ingestion, payout batches and disputes.
type SettlementMetrics struct {
	OrdersCreatedTotal       *prometheus.CounterVec
	OrdersCreatedAmountTotal *prometheus.CounterVec

	WebhookEventsTotal            *prometheus.CounterVec
	WebhookSignatureFailuresTotal prometheus.Counter

	PayoutsProcessedTotal      *prometheus.CounterVec
	PayoutBatchDurationSeconds prometheus.Histogram
	PayoutsRequeuedTotal       prometheus.Counter

	DisputesTotal *prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return NewSettlementMetricsWith(prometheus.DefaultRegisterer)
}

// NewSettlementMetricsWith registers on the given registerer; tests pass
// a fresh prometheus.NewRegistry.
func NewSettlementMetricsWith(reg prometheus.Registerer) *SettlementMetrics {
	factory := promauto.With(reg)

	return &SettlementMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_orders_created_total",
				Help: "Orders created, by currency",
			},
			[]string{"currency"},
		),

		OrdersCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_orders_created_amount_total",
				Help: "Total created order amount in minor units",
			},
			[]string{"currency"},
		),

		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_webhook_events_total",
				Help: "Gateway webhook events, by type and outcome",
			},
			[]string{"type", "outcome"},
		),

		WebhookSignatureFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_webhook_signature_failures_total",
				Help: "Webhook deliveries rejected for a bad signature",
			},
		),

		PayoutsProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_payouts_processed_total",
				Help: "Payout batch outcomes, by terminal status",
			},
			[]string{"status"},
		),

		PayoutBatchDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settlement_payout_batch_duration_seconds",
				Help:    "Wall time of one payout batch run",
				Buckets: prometheus.DefBuckets,
			},
		),

		PayoutsRequeuedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_payouts_requeued_total",
				Help: "Stale PROCESSING payouts returned to SCHEDULED",
			},
		),

		DisputesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_disputes_total",
				Help: "Dispute lifecycle events, by action",
			},
			[]string{"action"},
		),
	}
}
