// Package testutil provides in-memory implementations of the repository
// and external-service ports. They mirror the conditional-update semantics
// of the postgres layer so usecase tests exercise the same state machines.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
)

// Store is one shared in-memory ledger backing all fakes, so a webhook
// test can assert on orders, payments, payouts and access grants together.
type Store struct {
	mu sync.Mutex

	Orders   map[string]*domain.Order
	Payments map[string]*domain.Payment
	Payouts  map[string]*domain.SellerPayout
	Disputes map[string]*domain.Dispute
	Access   map[string]*domain.OrderAccess
	Accounts map[string]*domain.SellerBankAccount
	Settings map[string]string
}

func NewStore() *Store {
	return &Store{
		Orders:   make(map[string]*domain.Order),
		Payments: make(map[string]*domain.Payment),
		Payouts:  make(map[string]*domain.SellerPayout),
		Disputes: make(map[string]*domain.Dispute),
		Access:   make(map[string]*domain.OrderAccess),
		Accounts: make(map[string]*domain.SellerBankAccount),
		Settings: make(map[string]string),
	}
}

// --- order repository ---

type OrderRepo struct{ S *Store }

func (r *OrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *order
	r.S.Orders[order.ID] = &cp
	return nil
}

func (r *OrderRepo) GetOrderByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	order, ok := r.S.Orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *OrderRepo) GetSettledOrderByBuyerListing(_ context.Context, buyerID, listingID string) (*domain.Order, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, order := range r.S.Orders {
		if order.BuyerID == buyerID && order.ListingID == listingID && order.Status.Settled() {
			cp := *order
			return &cp, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *OrderRepo) UpdateOrderStatus(_ context.Context, orderID string, from []domain.OrderStatus, to domain.OrderStatus) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return r.S.updateOrderStatusLocked(orderID, from, to)
}

func (s *Store) updateOrderStatusLocked(orderID string, from []domain.OrderStatus, to domain.OrderStatus) error {
	order, ok := s.Orders[orderID]
	if !ok {
		return domain.ErrStatusConflict
	}
	for _, f := range from {
		if order.Status == f {
			order.Status = to
			order.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrStatusConflict
}

func (r *OrderRepo) ListOrders(_ context.Context, filter domain.OrderFilter, page, limit int) ([]*domain.Order, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*domain.Order
	for _, order := range r.S.Orders {
		if filter.BuyerID != nil && order.BuyerID != *filter.BuyerID {
			continue
		}
		if filter.SellerID != nil && order.SellerID != *filter.SellerID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		cp := *order
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// --- payment repository ---

type PaymentRepo struct{ S *Store }

func (r *PaymentRepo) CreatePayment(_ context.Context, payment *domain.Payment) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *payment
	r.S.Payments[payment.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetPaymentByGatewayOrderRef(_ context.Context, ref string) (*domain.Payment, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, payment := range r.S.Payments {
		if payment.GatewayOrderRef == ref {
			cp := *payment
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *PaymentRepo) GetLatestPaymentByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var latest *domain.Payment
	for _, payment := range r.S.Payments {
		if payment.OrderID != orderID {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			latest = payment
		}
	}
	if latest == nil {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *latest
	return &cp, nil
}

// --- payout repository ---

type PayoutRepo struct{ S *Store }

func (r *PayoutRepo) DueScheduled(_ context.Context, now time.Time, limit int) ([]*domain.SellerPayout, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*domain.SellerPayout
	for _, payout := range r.S.Payouts {
		if payout.Status == domain.PayoutStatusScheduled && !payout.ScheduledAt.After(now) {
			cp := *payout
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *PayoutRepo) GetPayoutByID(_ context.Context, payoutID string) (*domain.SellerPayout, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	payout, ok := r.S.Payouts[payoutID]
	if !ok {
		return nil, domain.ErrPayoutNotFound
	}
	cp := *payout
	return &cp, nil
}

func (r *PayoutRepo) GetPayoutByOrderID(_ context.Context, orderID string) (*domain.SellerPayout, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, payout := range r.S.Payouts {
		if payout.OrderID == orderID {
			cp := *payout
			return &cp, nil
		}
	}
	return nil, domain.ErrPayoutNotFound
}

func (r *PayoutRepo) MarkProcessing(_ context.Context, payoutID string) (bool, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	payout, ok := r.S.Payouts[payoutID]
	if !ok || payout.Status != domain.PayoutStatusScheduled {
		return false, nil
	}
	payout.Status = domain.PayoutStatusProcessing
	payout.UpdatedAt = time.Now()
	return true, nil
}

func (r *PayoutRepo) MarkCompleted(_ context.Context, payoutID string, processedAt time.Time) (bool, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	payout, ok := r.S.Payouts[payoutID]
	if !ok || payout.Status != domain.PayoutStatusProcessing {
		return false, nil
	}
	payout.Status = domain.PayoutStatusCompleted
	payout.ProcessedAt = &processedAt
	payout.UpdatedAt = time.Now()
	return true, nil
}

func (r *PayoutRepo) MarkFailed(_ context.Context, payoutID string, errorMessage string) (bool, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	payout, ok := r.S.Payouts[payoutID]
	if !ok {
		return false, nil
	}
	if payout.Status != domain.PayoutStatusScheduled && payout.Status != domain.PayoutStatusProcessing {
		return false, nil
	}
	payout.Status = domain.PayoutStatusFailed
	payout.ErrorMessage = errorMessage
	payout.UpdatedAt = time.Now()
	return true, nil
}

func (r *PayoutRepo) RequeueStale(_ context.Context, deadline time.Time) (int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var n int64
	for _, payout := range r.S.Payouts {
		if payout.Status == domain.PayoutStatusProcessing && payout.UpdatedAt.Before(deadline) {
			payout.Status = domain.PayoutStatusScheduled
			payout.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

// --- dispute repository ---

type DisputeRepo struct{ S *Store }

func (r *DisputeRepo) CreateDispute(_ context.Context, dispute *domain.Dispute) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *dispute
	r.S.Disputes[dispute.ID] = &cp
	return nil
}

func (r *DisputeRepo) GetDisputeByID(_ context.Context, disputeID string) (*domain.Dispute, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	dispute, ok := r.S.Disputes[disputeID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	cp := *dispute
	return &cp, nil
}

func (r *DisputeRepo) GetActiveDisputeByOrderID(_ context.Context, orderID string) (*domain.Dispute, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, dispute := range r.S.Disputes {
		if dispute.OrderID == orderID && dispute.Status.Active() {
			cp := *dispute
			return &cp, nil
		}
	}
	return nil, domain.ErrDisputeNotFound
}

func (r *DisputeRepo) UpdateDisputeStatus(_ context.Context, disputeID string, from []domain.DisputeStatus, to domain.DisputeStatus, resolution string, resolvedAt *time.Time) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	dispute, ok := r.S.Disputes[disputeID]
	if !ok {
		return domain.ErrStatusConflict
	}
	for _, f := range from {
		if dispute.Status == f {
			dispute.Status = to
			if resolution != "" {
				dispute.Resolution = resolution
			}
			if resolvedAt != nil {
				dispute.ResolvedAt = resolvedAt
			}
			dispute.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrStatusConflict
}

func (r *DisputeRepo) ListDisputes(_ context.Context, filter domain.DisputeFilter, page, limit int) ([]*domain.Dispute, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*domain.Dispute
	for _, dispute := range r.S.Disputes {
		if filter.OrderID != nil && dispute.OrderID != *filter.OrderID {
			continue
		}
		if filter.Status != nil && dispute.Status != *filter.Status {
			continue
		}
		cp := *dispute
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// --- access repository ---

type AccessRepo struct{ S *Store }

func (r *AccessRepo) GetAccessByOrderID(_ context.Context, orderID string) (*domain.OrderAccess, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	access, ok := r.S.Access[orderID]
	if !ok {
		return nil, domain.ErrAccessNotFound
	}
	cp := *access
	return &cp, nil
}

func (r *AccessRepo) RegisterDownload(_ context.Context, orderID string) (bool, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	access, ok := r.S.Access[orderID]
	if !ok {
		return false, domain.ErrAccessNotFound
	}
	if access.DownloadCount >= access.MaxDownloads {
		return false, nil
	}
	access.DownloadCount++
	return true, nil
}

// --- seller account repository ---

type AccountRepo struct{ S *Store }

func (r *AccountRepo) UpsertBankAccount(_ context.Context, account *domain.SellerBankAccount) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *account
	r.S.Accounts[account.SellerID] = &cp
	return nil
}

func (r *AccountRepo) GetBankAccountBySellerID(_ context.Context, sellerID string) (*domain.SellerBankAccount, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	account, ok := r.S.Accounts[sellerID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// --- settings repository ---

type SettingsRepo struct{ S *Store }

func (r *SettingsRepo) GetSetting(_ context.Context, key string) (string, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return r.S.Settings[key], nil
}

func (r *SettingsRepo) SetSetting(_ context.Context, key, value string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Settings[key] = value
	return nil
}

func (r *SettingsRepo) AllSettings(_ context.Context) (map[string]string, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := make(map[string]string, len(r.S.Settings))
	for k, v := range r.S.Settings {
		out[k] = v
	}
	return out, nil
}

// --- settlement ledger ---

// Ledger applies capture/failure/refund side effects against the shared
// store under one lock, matching the transactional postgres ledger.
type Ledger struct{ S *Store }

func (l *Ledger) ApplyCapture(_ context.Context, app *domain.CaptureApplication) (bool, error) {
	l.S.mu.Lock()
	defer l.S.mu.Unlock()

	payment, ok := l.S.Payments[app.PaymentID]
	if !ok || payment.Status != domain.PaymentStatusPending {
		return false, nil
	}
	if _, exists := l.S.Access[app.OrderID]; exists {
		return false, nil
	}
	for _, payout := range l.S.Payouts {
		if payout.OrderID == app.OrderID &&
			payout.Status != domain.PayoutStatusCancelled && payout.Status != domain.PayoutStatusFailed {
			return false, nil
		}
	}

	if err := l.S.updateOrderStatusLocked(app.OrderID,
		[]domain.OrderStatus{domain.OrderStatusCreated, domain.OrderStatusPaymentPending},
		domain.OrderStatusPaid); err != nil {
		return false, err
	}
	paidAt := app.PaidAt
	l.S.Orders[app.OrderID].PaidAt = &paidAt

	payment.Status = domain.PaymentStatusCaptured
	payment.GatewayPaymentRef = app.GatewayPaymentRef
	payment.Method = app.Method

	accessCp := *app.Access
	l.S.Access[app.OrderID] = &accessCp
	payoutCp := *app.Payout
	l.S.Payouts[app.Payout.ID] = &payoutCp
	return true, nil
}

func (l *Ledger) ApplyPaymentFailure(_ context.Context, paymentID, orderID, errorCode, errorDescription string) error {
	l.S.mu.Lock()
	defer l.S.mu.Unlock()

	payment, ok := l.S.Payments[paymentID]
	if !ok || payment.Status != domain.PaymentStatusPending {
		return nil
	}
	payment.Status = domain.PaymentStatusFailed
	payment.ErrorCode = errorCode
	payment.ErrorDescription = errorDescription

	// Conflict here just means the order never left CREATED.
	_ = l.S.updateOrderStatusLocked(orderID,
		[]domain.OrderStatus{domain.OrderStatusPaymentPending}, domain.OrderStatusCreated)
	return nil
}

func (l *Ledger) ApplyRefund(_ context.Context, orderID, reason string, now time.Time) error {
	l.S.mu.Lock()
	defer l.S.mu.Unlock()

	order, ok := l.S.Orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status == domain.OrderStatusRefunded {
		return nil
	}
	err := l.S.updateOrderStatusLocked(orderID,
		[]domain.OrderStatus{domain.OrderStatusPaid, domain.OrderStatusDelivered,
			domain.OrderStatusCompleted, domain.OrderStatusDisputed},
		domain.OrderStatusRefunded)
	if err != nil {
		return err
	}
	order.RefundedAt = &now

	for _, payout := range l.S.Payouts {
		if payout.OrderID == orderID &&
			(payout.Status == domain.PayoutStatusScheduled || payout.Status == domain.PayoutStatusProcessing) {
			payout.Status = domain.PayoutStatusCancelled
			payout.CancelReason = reason
		}
	}
	delete(l.S.Access, orderID)
	return nil
}

// --- external ports ---

// Publisher records published events for assertions.
type Publisher struct {
	mu            sync.Mutex
	OrderEvents   []publisher.OrderEvent
	PayoutEvents  []publisher.PayoutEvent
	DisputeEvents []publisher.DisputeEvent
}

func (p *Publisher) PublishOrder(event publisher.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OrderEvents = append(p.OrderEvents, event)
	return nil
}

func (p *Publisher) PublishPayout(event publisher.PayoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PayoutEvents = append(p.PayoutEvents, event)
	return nil
}

func (p *Publisher) PublishDispute(event publisher.DisputeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.DisputeEvents = append(p.DisputeEvents, event)
	return nil
}

// ListingDirectory serves listings from a fixed map.
type ListingDirectory struct {
	Listings map[string]*domain.Listing
}

func (d *ListingDirectory) GetListing(_ context.Context, listingID string) (*domain.Listing, error) {
	listing, ok := d.Listings[listingID]
	if !ok {
		return nil, domain.ErrListingUnavailable
	}
	cp := *listing
	return &cp, nil
}

// TransferService counts calls and fails with Err when set.
type TransferService struct {
	mu       sync.Mutex
	Err      error
	Requests []*domain.TransferRequest
}

func (t *TransferService) Transfer(_ context.Context, req *domain.TransferRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *req
	t.Requests = append(t.Requests, &cp)
	return t.Err
}

func (t *TransferService) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Requests)
}

// ConfigProvider returns a fixed platform config.
type ConfigProvider struct {
	Config domain.PlatformConfig
}

func (p *ConfigProvider) Snapshot(_ context.Context) (*domain.PlatformConfig, error) {
	cp := p.Config
	return &cp, nil
}
