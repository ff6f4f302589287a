package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
	"github.com/lunamarket/settlement-service/internal/testutil"
)

func newTestOrderUsecase(store *testutil.Store, listings map[string]*domain.Listing, cfg domain.PlatformConfig) *DefaultOrderUsecase {
	return NewDefaultOrderUsecase(
		&testutil.OrderRepo{S: store},
		&testutil.PaymentRepo{S: store},
		&testutil.AccessRepo{S: store},
		&testutil.ListingDirectory{Listings: listings},
		&testutil.ConfigProvider{Config: cfg},
		&testutil.Publisher{},
		metrics.NewSettlementMetricsWith(prometheus.NewRegistry()),
	)
}

func defaultConfig() domain.PlatformConfig {
	return domain.PlatformConfig{
		CommissionRateBps: 1500,
		PayoutDelayDays:   3,
		MaxDownloads:      5,
	}
}

func TestSplitCommission(t *testing.T) {
	cases := []struct {
		name           string
		price, rateBps int64
		commission     int64
	}{
		{"fifteen percent of 1000", 1000, 1500, 150},
		{"rounds up toward platform", 999, 1500, 150},
		{"zero rate", 1000, 0, 0},
		{"full rate", 1000, 10000, 1000},
		{"single minor unit", 1, 1, 1},
		{"one basis point of 9999", 9999, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			commission, seller := SplitCommission(tc.price, tc.rateBps)
			if commission != tc.commission {
				t.Errorf("commission = %d, want %d", commission, tc.commission)
			}
			if commission+seller != tc.price {
				t.Errorf("commission %d + seller %d != price %d", commission, seller, tc.price)
			}
		})
	}
}

func TestSplitCommissionSumInvariant(t *testing.T) {
	for price := int64(0); price <= 500; price++ {
		for _, rate := range []int64{0, 1, 33, 1500, 9999, 10000} {
			commission, seller := SplitCommission(price, rate)
			if commission+seller != price {
				t.Fatalf("price=%d rate=%d: commission %d + seller %d != price", price, rate, commission, seller)
			}
			if commission < 0 || seller < 0 {
				t.Fatalf("price=%d rate=%d: negative share", price, rate)
			}
		}
	}
}

func TestCreateOrder(t *testing.T) {
	store := testutil.NewStore()
	uc := newTestOrderUsecase(store, map[string]*domain.Listing{
		"listing-1": {ID: "listing-1", SellerID: "seller-1", PriceAmount: 1000, Currency: "USD", Sellable: true},
	}, defaultConfig())

	out, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "buyer-1", ListingID: "listing-1"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if out.Order.Status != domain.OrderStatusCreated {
		t.Errorf("order status = %s, want CREATED", out.Order.Status)
	}
	if out.Order.CommissionAmount != 150 || out.Order.SellerAmount != 850 {
		t.Errorf("split = %d/%d, want 150/850", out.Order.CommissionAmount, out.Order.SellerAmount)
	}
	if out.Order.CommissionRateBps != 1500 {
		t.Errorf("frozen rate = %d, want 1500", out.Order.CommissionRateBps)
	}
	if out.Payment.Status != domain.PaymentStatusPending {
		t.Errorf("payment status = %s, want PENDING", out.Payment.Status)
	}
	if out.Payment.GatewayOrderRef == "" {
		t.Error("payment has no gateway order ref")
	}
	if out.Payment.Amount != 1000 {
		t.Errorf("payment amount = %d, want 1000", out.Payment.Amount)
	}
}

func TestCreateOrderFrozenRateSurvivesConfigChange(t *testing.T) {
	store := testutil.NewStore()
	listings := map[string]*domain.Listing{
		"listing-1": {ID: "listing-1", SellerID: "seller-1", PriceAmount: 1000, Currency: "USD", Sellable: true},
	}

	uc := newTestOrderUsecase(store, listings, domain.PlatformConfig{CommissionRateBps: 1000, PayoutDelayDays: 3, MaxDownloads: 5})
	out, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "buyer-1", ListingID: "listing-1"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if out.Order.CommissionAmount != 100 {
		t.Fatalf("commission = %d, want 100", out.Order.CommissionAmount)
	}

	// Later rate changes must not rewrite the stored order.
	stored := store.Orders[out.Order.ID]
	if stored.CommissionRateBps != 1000 || stored.CommissionAmount != 100 {
		t.Errorf("stored order lost its frozen split: rate=%d commission=%d", stored.CommissionRateBps, stored.CommissionAmount)
	}
}

func TestCreateOrderSelfPurchase(t *testing.T) {
	uc := newTestOrderUsecase(testutil.NewStore(), map[string]*domain.Listing{
		"listing-1": {ID: "listing-1", SellerID: "seller-1", PriceAmount: 1000, Currency: "USD", Sellable: true},
	}, defaultConfig())

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "seller-1", ListingID: "listing-1"})
	if !errors.Is(err, domain.ErrInvalidPurchase) {
		t.Errorf("err = %v, want ErrInvalidPurchase", err)
	}
}

func TestCreateOrderUnsellableListing(t *testing.T) {
	uc := newTestOrderUsecase(testutil.NewStore(), map[string]*domain.Listing{
		"listing-1": {ID: "listing-1", SellerID: "seller-1", PriceAmount: 1000, Currency: "USD", Sellable: false},
	}, defaultConfig())

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "buyer-1", ListingID: "listing-1"})
	if !errors.Is(err, domain.ErrListingUnavailable) {
		t.Errorf("err = %v, want ErrListingUnavailable", err)
	}
}

func TestCreateOrderUnknownListing(t *testing.T) {
	uc := newTestOrderUsecase(testutil.NewStore(), map[string]*domain.Listing{}, defaultConfig())

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "buyer-1", ListingID: "missing"})
	if !errors.Is(err, domain.ErrListingUnavailable) {
		t.Errorf("err = %v, want ErrListingUnavailable", err)
	}
}

func TestCreateOrderDuplicatePurchase(t *testing.T) {
	store := testutil.NewStore()
	store.Orders["existing"] = &domain.Order{
		ID: "existing", BuyerID: "buyer-1", ListingID: "listing-1",
		Status: domain.OrderStatusPaid,
	}
	uc := newTestOrderUsecase(store, map[string]*domain.Listing{
		"listing-1": {ID: "listing-1", SellerID: "seller-1", PriceAmount: 1000, Currency: "USD", Sellable: true},
	}, defaultConfig())

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "buyer-1", ListingID: "listing-1"})
	if !errors.Is(err, domain.ErrDuplicatePurchase) {
		t.Errorf("err = %v, want ErrDuplicatePurchase", err)
	}
}

func TestCreateOrderAfterUnsettledAttempt(t *testing.T) {
	// A prior attempt that never settled does not block a new purchase.
	store := testutil.NewStore()
	store.Orders["existing"] = &domain.Order{
		ID: "existing", BuyerID: "buyer-1", ListingID: "listing-1",
		Status: domain.OrderStatusRefunded,
	}
	uc := newTestOrderUsecase(store, map[string]*domain.Listing{
		"listing-1": {ID: "listing-1", SellerID: "seller-1", PriceAmount: 1000, Currency: "USD", Sellable: true},
	}, defaultConfig())

	if _, err := uc.CreateOrder(context.Background(), &CreateOrderInput{BuyerID: "buyer-1", ListingID: "listing-1"}); err != nil {
		t.Errorf("CreateOrder after refunded attempt: %v", err)
	}
}
