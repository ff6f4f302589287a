package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
	"github.com/lunamarket/settlement-service/internal/testutil"
)

const testSecret = "test-webhook-secret"

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestWebhookUsecase(store *testutil.Store) *DefaultWebhookUsecase {
	uc := NewDefaultWebhookUsecase(
		testSecret,
		&testutil.PaymentRepo{S: store},
		&testutil.OrderRepo{S: store},
		&testutil.Ledger{S: store},
		&testutil.ConfigProvider{Config: domain.PlatformConfig{
			CommissionRateBps: 1500,
			PayoutDelayDays:   3,
			MaxDownloads:      5,
		}},
		&testutil.Publisher{},
		metrics.NewSettlementMetricsWith(prometheus.NewRegistry()),
	)
	uc.now = func() time.Time { return testNow }
	return uc
}

func seedPendingOrder(store *testutil.Store) {
	store.Orders["order-1"] = &domain.Order{
		ID: "order-1", BuyerID: "buyer-1", SellerID: "seller-1", ListingID: "listing-1",
		PriceAmount: 1000, CommissionRateBps: 1500, CommissionAmount: 150, SellerAmount: 850,
		Currency: "USD", Status: domain.OrderStatusPaymentPending,
	}
	store.Payments["payment-1"] = &domain.Payment{
		ID: "payment-1", OrderID: "order-1", GatewayOrderRef: "ref-1",
		Amount: 1000, Currency: "USD", Status: domain.PaymentStatusPending,
	}
}

func capturedBody(ref string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt-1","type":"payment.captured","data":{"gateway_order_ref":%q,"gateway_payment_ref":"pay-abc","method":"card","amount":1000,"currency":"USD"}}`, ref))
}

func TestHandleEventRejectsBadSignature(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	body := capturedBody("ref-1")
	err := uc.HandleEvent(context.Background(), body, "deadbeef")
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	// A forged event must leave the ledger untouched.
	if store.Orders["order-1"].Status != domain.OrderStatusPaymentPending {
		t.Errorf("order status changed to %s", store.Orders["order-1"].Status)
	}
	if store.Payments["payment-1"].Status != domain.PaymentStatusPending {
		t.Errorf("payment status changed to %s", store.Payments["payment-1"].Status)
	}
	if len(store.Payouts) != 0 || len(store.Access) != 0 {
		t.Error("forged event created payouts or access grants")
	}
}

func TestHandleEventRejectsMalformedSignature(t *testing.T) {
	uc := newTestWebhookUsecase(testutil.NewStore())
	err := uc.HandleEvent(context.Background(), []byte(`{}`), "not-hex!")
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestHandleCaptured(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	body := capturedBody("ref-1")
	if err := uc.HandleEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	order := store.Orders["order-1"]
	if order.Status != domain.OrderStatusPaid {
		t.Errorf("order status = %s, want PAID", order.Status)
	}
	if order.PaidAt == nil || !order.PaidAt.Equal(testNow) {
		t.Errorf("paid_at = %v, want %v", order.PaidAt, testNow)
	}

	payment := store.Payments["payment-1"]
	if payment.Status != domain.PaymentStatusCaptured {
		t.Errorf("payment status = %s, want CAPTURED", payment.Status)
	}
	if payment.GatewayPaymentRef != "pay-abc" {
		t.Errorf("gateway payment ref = %s, want pay-abc", payment.GatewayPaymentRef)
	}

	access := store.Access["order-1"]
	if access == nil {
		t.Fatal("no access grant created")
	}
	if access.MaxDownloads != 5 {
		t.Errorf("max downloads = %d, want 5", access.MaxDownloads)
	}

	if len(store.Payouts) != 1 {
		t.Fatalf("payouts = %d, want 1", len(store.Payouts))
	}
	for _, payout := range store.Payouts {
		if payout.Amount != 850 {
			t.Errorf("payout amount = %d, want seller share 850", payout.Amount)
		}
		if payout.Status != domain.PayoutStatusScheduled {
			t.Errorf("payout status = %s, want SCHEDULED", payout.Status)
		}
		wantScheduled := testNow.AddDate(0, 0, 3)
		if !payout.ScheduledAt.Equal(wantScheduled) {
			t.Errorf("scheduled_at = %v, want %v", payout.ScheduledAt, wantScheduled)
		}
	}
}

func TestHandleCapturedRedelivery(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	body := capturedBody("ref-1")
	for i := 0; i < 3; i++ {
		if err := uc.HandleEvent(context.Background(), body, sign(body)); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	if len(store.Payouts) != 1 {
		t.Errorf("payouts = %d, want exactly 1 after redelivery", len(store.Payouts))
	}
	if len(store.Access) != 1 {
		t.Errorf("access grants = %d, want exactly 1 after redelivery", len(store.Access))
	}
	if store.Orders["order-1"].Status != domain.OrderStatusPaid {
		t.Errorf("order status = %s, want PAID", store.Orders["order-1"].Status)
	}
}

func TestHandleFailed(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	body := []byte(`{"id":"evt-2","type":"payment.failed","data":{"gateway_order_ref":"ref-1","error_code":"card_declined","error_description":"insufficient funds"}}`)
	if err := uc.HandleEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if store.Payments["payment-1"].Status != domain.PaymentStatusFailed {
		t.Errorf("payment status = %s, want FAILED", store.Payments["payment-1"].Status)
	}
	if store.Payments["payment-1"].ErrorCode != "card_declined" {
		t.Errorf("error code = %s, want card_declined", store.Payments["payment-1"].ErrorCode)
	}
	// The buyer can retry: the order returns to CREATED.
	if store.Orders["order-1"].Status != domain.OrderStatusCreated {
		t.Errorf("order status = %s, want CREATED", store.Orders["order-1"].Status)
	}
}

func TestHandleFailedAfterCapture(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	captured := capturedBody("ref-1")
	if err := uc.HandleEvent(context.Background(), captured, sign(captured)); err != nil {
		t.Fatalf("capture: %v", err)
	}

	// A late failure notice must not undo a settled capture.
	failed := []byte(`{"id":"evt-3","type":"payment.failed","data":{"gateway_order_ref":"ref-1","error_code":"timeout"}}`)
	if err := uc.HandleEvent(context.Background(), failed, sign(failed)); err != nil {
		t.Fatalf("failed notice: %v", err)
	}

	if store.Payments["payment-1"].Status != domain.PaymentStatusCaptured {
		t.Errorf("payment status = %s, want CAPTURED", store.Payments["payment-1"].Status)
	}
	if store.Orders["order-1"].Status != domain.OrderStatusPaid {
		t.Errorf("order status = %s, want PAID", store.Orders["order-1"].Status)
	}
}

func TestHandleRefund(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	captured := capturedBody("ref-1")
	if err := uc.HandleEvent(context.Background(), captured, sign(captured)); err != nil {
		t.Fatalf("capture: %v", err)
	}

	refund := []byte(`{"id":"evt-4","type":"refund.created","data":{"gateway_order_ref":"ref-1","refund_ref":"rf-9"}}`)
	if err := uc.HandleEvent(context.Background(), refund, sign(refund)); err != nil {
		t.Fatalf("refund: %v", err)
	}

	order := store.Orders["order-1"]
	if order.Status != domain.OrderStatusRefunded {
		t.Errorf("order status = %s, want REFUNDED", order.Status)
	}
	if order.RefundedAt == nil {
		t.Error("refunded_at not set")
	}
	for _, payout := range store.Payouts {
		if payout.Status != domain.PayoutStatusCancelled {
			t.Errorf("payout status = %s, want CANCELLED", payout.Status)
		}
		if payout.CancelReason != "gateway refund rf-9" {
			t.Errorf("cancel reason = %q", payout.CancelReason)
		}
	}
	if len(store.Access) != 0 {
		t.Error("access grant survived the refund")
	}

	// Redelivery of the refund is an ack, not an error.
	if err := uc.HandleEvent(context.Background(), refund, sign(refund)); err != nil {
		t.Errorf("refund redelivery: %v", err)
	}
}

func TestHandleUnknownEventType(t *testing.T) {
	store := testutil.NewStore()
	seedPendingOrder(store)
	uc := newTestWebhookUsecase(store)

	body := []byte(`{"id":"evt-5","type":"payout.reconciled","data":{}}`)
	if err := uc.HandleEvent(context.Background(), body, sign(body)); err != nil {
		t.Errorf("unknown event type should be acked, got %v", err)
	}
}

func TestHandleCapturedUnknownRef(t *testing.T) {
	uc := newTestWebhookUsecase(testutil.NewStore())
	body := capturedBody("no-such-ref")
	err := uc.HandleEvent(context.Background(), body, sign(body))
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("err = %v, want ErrPaymentNotFound", err)
	}
}
