package domain

import "context"

type TransferRequest struct {
	PayoutID      string
	SellerID      string
	Amount        int64
	Currency      string
	BankName      string
	AccountHolder string
	AccountRef    string
}

// TransferService is the external payout network. Transfer blocks until the
// network confirms or the call times out; a timeout is a failure, never a
// settlement.
type TransferService interface {
	Transfer(ctx context.Context, req *TransferRequest) error
}
