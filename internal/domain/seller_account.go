package domain

import (
	"context"
	"time"
)

// SellerBankAccount is the payout destination the scheduler requires before
// it attempts a transfer. One row per seller.
type SellerBankAccount struct {
	SellerID      string
	BankName      string
	AccountHolder string
	AccountRef    string
	Currency      string
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SellerAccountRepository interface {
	UpsertBankAccount(ctx context.Context, account *SellerBankAccount) error
	GetBankAccountBySellerID(ctx context.Context, sellerID string) (*SellerBankAccount, error)
}
