package usecase

import (
	"context"
	"fmt"

	"github.com/lunamarket/settlement-service/internal/domain"
)

type UpsertBankAccountInput struct {
	SellerID      string
	BankName      string
	AccountHolder string
	AccountRef    string
	Currency      string
	Enabled       bool
}

type SellerUsecase interface {
	UpsertBankAccount(ctx context.Context, input *UpsertBankAccountInput) error
	GetBankAccount(ctx context.Context, sellerID string) (*domain.SellerBankAccount, error)
}

type DefaultSellerUsecase struct {
	accountRepo domain.SellerAccountRepository
}

func NewDefaultSellerUsecase(accountRepo domain.SellerAccountRepository) *DefaultSellerUsecase {
	return &DefaultSellerUsecase{accountRepo: accountRepo}
}

func (uc *DefaultSellerUsecase) UpsertBankAccount(ctx context.Context, input *UpsertBankAccountInput) error {
	if input.BankName == "" || input.AccountHolder == "" || input.AccountRef == "" {
		return fmt.Errorf("bank name, account holder and account ref are required")
	}
	return uc.accountRepo.UpsertBankAccount(ctx, &domain.SellerBankAccount{
		SellerID:      input.SellerID,
		BankName:      input.BankName,
		AccountHolder: input.AccountHolder,
		AccountRef:    input.AccountRef,
		Currency:      input.Currency,
		Enabled:       input.Enabled,
	})
}

func (uc *DefaultSellerUsecase) GetBankAccount(ctx context.Context, sellerID string) (*domain.SellerBankAccount, error) {
	return uc.accountRepo.GetBankAccountBySellerID(ctx, sellerID)
}
