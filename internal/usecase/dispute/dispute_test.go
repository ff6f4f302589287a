package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
	"github.com/lunamarket/settlement-service/internal/testutil"
)

func newTestDisputeUsecase(store *testutil.Store) *DefaultDisputeUsecase {
	return NewDefaultDisputeUsecase(
		&testutil.DisputeRepo{S: store},
		&testutil.OrderRepo{S: store},
		&testutil.Ledger{S: store},
		&testutil.Publisher{},
		metrics.NewSettlementMetricsWith(prometheus.NewRegistry()),
	)
}

func seedSettledOrder(store *testutil.Store, status domain.OrderStatus) {
	store.Orders["order-1"] = &domain.Order{
		ID: "order-1", BuyerID: "buyer-1", SellerID: "seller-1", ListingID: "listing-1",
		PriceAmount: 1000, SellerAmount: 850, Currency: "USD", Status: status,
	}
	store.Payouts["payout-1"] = &domain.SellerPayout{
		ID: "payout-1", OrderID: "order-1", SellerID: "seller-1",
		Amount: 850, Currency: "USD", Status: domain.PayoutStatusScheduled,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}
	store.Access["order-1"] = &domain.OrderAccess{OrderID: "order-1", MaxDownloads: 5}
}

func TestRaiseDispute(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusDelivered)
	uc := newTestDisputeUsecase(store)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "file is corrupted",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	if dispute.Status != domain.DisputeStatusOpen {
		t.Errorf("dispute status = %s, want OPEN", dispute.Status)
	}
	if dispute.OrderStatusPrior != domain.OrderStatusDelivered {
		t.Errorf("prior status = %s, want DELIVERED", dispute.OrderStatusPrior)
	}
	if store.Orders["order-1"].Status != domain.OrderStatusDisputed {
		t.Errorf("order status = %s, want DISPUTED", store.Orders["order-1"].Status)
	}
}

func TestRaiseDisputeUnsettledOrder(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusCreated)
	uc := newTestDisputeUsecase(store)

	_, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "x",
	})
	if !errors.Is(err, domain.ErrDisputeNotDisputable) {
		t.Errorf("err = %v, want ErrDisputeNotDisputable", err)
	}
}

func TestRaiseDisputeRefundedOrder(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusRefunded)
	uc := newTestDisputeUsecase(store)

	_, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "x",
	})
	if !errors.Is(err, domain.ErrTerminalState) {
		t.Errorf("err = %v, want ErrTerminalState", err)
	}
}

func TestRaiseDisputeTwice(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusPaid)
	uc := newTestDisputeUsecase(store)

	if _, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "first",
	}); err != nil {
		t.Fatalf("first RaiseDispute: %v", err)
	}

	_, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "second",
	})
	if !errors.Is(err, domain.ErrDisputeAlreadyOpen) {
		t.Errorf("err = %v, want ErrDisputeAlreadyOpen", err)
	}
}

func TestReviewDispute(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusPaid)
	uc := newTestDisputeUsecase(store)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "x",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	if err := uc.ReviewDispute(context.Background(), dispute.ID); err != nil {
		t.Fatalf("ReviewDispute: %v", err)
	}
	if store.Disputes[dispute.ID].Status != domain.DisputeStatusUnderReview {
		t.Errorf("status = %s, want UNDER_REVIEW", store.Disputes[dispute.ID].Status)
	}

	// Reviewing twice is a conflict, not a transition.
	if err := uc.ReviewDispute(context.Background(), dispute.ID); !errors.Is(err, domain.ErrDisputeResolved) {
		t.Errorf("second review err = %v, want ErrDisputeResolved", err)
	}
}

func TestResolveDisputeNoRefundRestoresPriorStatus(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusDelivered)
	uc := newTestDisputeUsecase(store)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "x",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	if err := uc.ResolveDispute(context.Background(), &ResolveDisputeInput{
		DisputeID: dispute.ID, Outcome: domain.DisputeOutcomeNoRefund, Note: "buyer error",
	}); err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}

	// The order resumes exactly where it was, not at a guessed status.
	if store.Orders["order-1"].Status != domain.OrderStatusDelivered {
		t.Errorf("order status = %s, want DELIVERED restored", store.Orders["order-1"].Status)
	}
	stored := store.Disputes[dispute.ID]
	if stored.Status != domain.DisputeStatusResolvedNoRefund {
		t.Errorf("dispute status = %s, want RESOLVED_NO_REFUND", stored.Status)
	}
	if stored.Resolution != "buyer error" {
		t.Errorf("resolution = %q, want note recorded", stored.Resolution)
	}
	if stored.ResolvedAt == nil {
		t.Error("resolved_at not set")
	}
	// The payout keeps running.
	if store.Payouts["payout-1"].Status != domain.PayoutStatusScheduled {
		t.Errorf("payout status = %s, want SCHEDULED", store.Payouts["payout-1"].Status)
	}
}

func TestResolveDisputeRefund(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusPaid)
	uc := newTestDisputeUsecase(store)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "never delivered",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	if err := uc.ResolveDispute(context.Background(), &ResolveDisputeInput{
		DisputeID: dispute.ID, Outcome: domain.DisputeOutcomeRefund, Note: "seller at fault",
	}); err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}

	if store.Orders["order-1"].Status != domain.OrderStatusRefunded {
		t.Errorf("order status = %s, want REFUNDED", store.Orders["order-1"].Status)
	}
	if store.Payouts["payout-1"].Status != domain.PayoutStatusCancelled {
		t.Errorf("payout status = %s, want CANCELLED", store.Payouts["payout-1"].Status)
	}
	if len(store.Access) != 0 {
		t.Error("access grant survived the refund")
	}
	if store.Disputes[dispute.ID].Status != domain.DisputeStatusResolvedRefund {
		t.Errorf("dispute status = %s, want RESOLVED_REFUND", store.Disputes[dispute.ID].Status)
	}
}

func TestResolveDisputeTwice(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusPaid)
	uc := newTestDisputeUsecase(store)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "x",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	if err := uc.ResolveDispute(context.Background(), &ResolveDisputeInput{
		DisputeID: dispute.ID, Outcome: domain.DisputeOutcomeNoRefund,
	}); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	err = uc.ResolveDispute(context.Background(), &ResolveDisputeInput{
		DisputeID: dispute.ID, Outcome: domain.DisputeOutcomeRefund,
	})
	if !errors.Is(err, domain.ErrDisputeResolved) {
		t.Errorf("second resolve err = %v, want ErrDisputeResolved", err)
	}
	// The losing resolution must not have refunded anything.
	if store.Orders["order-1"].Status != domain.OrderStatusPaid {
		t.Errorf("order status = %s, want PAID", store.Orders["order-1"].Status)
	}
}

// flakyLedger fails a set number of ApplyRefund calls before delegating.
type flakyLedger struct {
	*testutil.Ledger
	failures int
}

func (l *flakyLedger) ApplyRefund(ctx context.Context, orderID, reason string, now time.Time) error {
	if l.failures > 0 {
		l.failures--
		return errors.New("ledger store unreachable")
	}
	return l.Ledger.ApplyRefund(ctx, orderID, reason, now)
}

func TestResolveDisputeRefundRetriesAfterLedgerFailure(t *testing.T) {
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusPaid)
	uc := NewDefaultDisputeUsecase(
		&testutil.DisputeRepo{S: store},
		&testutil.OrderRepo{S: store},
		&flakyLedger{Ledger: &testutil.Ledger{S: store}, failures: 1},
		&testutil.Publisher{},
		metrics.NewSettlementMetricsWith(prometheus.NewRegistry()),
	)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "never delivered",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	input := &ResolveDisputeInput{
		DisputeID: dispute.ID, Outcome: domain.DisputeOutcomeRefund, Note: "seller at fault",
	}
	err = uc.ResolveDispute(context.Background(), input)
	if err == nil {
		t.Fatal("first resolve succeeded despite the ledger being down")
	}
	if errors.Is(err, domain.ErrDisputeResolved) {
		t.Fatalf("first resolve err = %v, want a retryable ledger error", err)
	}
	// Nothing moved: the dispute is still open, the payout still live and
	// the buyer keeps access until the refund actually lands.
	if store.Disputes[dispute.ID].Status != domain.DisputeStatusOpen {
		t.Errorf("dispute status = %s, want OPEN after failed refund", store.Disputes[dispute.ID].Status)
	}
	if store.Orders["order-1"].Status != domain.OrderStatusDisputed {
		t.Errorf("order status = %s, want DISPUTED", store.Orders["order-1"].Status)
	}
	if store.Payouts["payout-1"].Status != domain.PayoutStatusScheduled {
		t.Errorf("payout status = %s, want SCHEDULED", store.Payouts["payout-1"].Status)
	}
	if len(store.Access) != 1 {
		t.Error("access grant revoked before the refund was applied")
	}

	// The retry goes through once the ledger is back.
	if err := uc.ResolveDispute(context.Background(), input); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if store.Orders["order-1"].Status != domain.OrderStatusRefunded {
		t.Errorf("order status = %s, want REFUNDED", store.Orders["order-1"].Status)
	}
	if store.Payouts["payout-1"].Status != domain.PayoutStatusCancelled {
		t.Errorf("payout status = %s, want CANCELLED", store.Payouts["payout-1"].Status)
	}
	if len(store.Access) != 0 {
		t.Error("access grant survived the refund")
	}
	if store.Disputes[dispute.ID].Status != domain.DisputeStatusResolvedRefund {
		t.Errorf("dispute status = %s, want RESOLVED_REFUND", store.Disputes[dispute.ID].Status)
	}
}

func TestResolveDisputeAfterRefundViaWebhook(t *testing.T) {
	// A gateway refund can land while the dispute is open; the order is
	// already REFUNDED and a refund resolution is then a no-op refund.
	store := testutil.NewStore()
	seedSettledOrder(store, domain.OrderStatusPaid)
	uc := newTestDisputeUsecase(store)

	dispute, err := uc.RaiseDispute(context.Background(), &RaiseDisputeInput{
		OrderID: "order-1", RaisedBy: "buyer-1", Reason: "x",
	})
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}

	ledger := &testutil.Ledger{S: store}
	if err := ledger.ApplyRefund(context.Background(), "order-1", "gateway refund rf-1", time.Now()); err != nil {
		t.Fatalf("ApplyRefund: %v", err)
	}

	if err := uc.ResolveDispute(context.Background(), &ResolveDisputeInput{
		DisputeID: dispute.ID, Outcome: domain.DisputeOutcomeRefund,
	}); err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	if store.Orders["order-1"].Status != domain.OrderStatusRefunded {
		t.Errorf("order status = %s, want REFUNDED", store.Orders["order-1"].Status)
	}
}
