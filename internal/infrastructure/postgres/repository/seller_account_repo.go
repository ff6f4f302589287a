package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSellerAccountRepository struct {
	db *gorm.DB
}

func NewDefaultSellerAccountRepository(db *gorm.DB) *DefaultSellerAccountRepository {
	return &DefaultSellerAccountRepository{db: db}
}

func (r *DefaultSellerAccountRepository) UpsertBankAccount(ctx context.Context, account *domain.SellerBankAccount) error {
	accountModel := models.SellerBankAccountModel{
		SellerID:      account.SellerID,
		BankName:      account.BankName,
		AccountHolder: account.AccountHolder,
		AccountRef:    account.AccountRef,
		Currency:      account.Currency,
		Enabled:       account.Enabled,
		UpdatedAt:     time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "seller_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bank_name", "account_holder", "account_ref", "currency", "enabled", "updated_at",
			}),
		}).
		Create(&accountModel).Error
}

func (r *DefaultSellerAccountRepository) GetBankAccountBySellerID(ctx context.Context, sellerID string) (*domain.SellerBankAccount, error) {
	var accountModel models.SellerBankAccountModel
	if err := r.db.WithContext(ctx).First(&accountModel, "seller_id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &domain.SellerBankAccount{
		SellerID:      accountModel.SellerID,
		BankName:      accountModel.BankName,
		AccountHolder: accountModel.AccountHolder,
		AccountRef:    accountModel.AccountRef,
		Currency:      accountModel.Currency,
		Enabled:       accountModel.Enabled,
		CreatedAt:     accountModel.CreatedAt,
		UpdatedAt:     accountModel.UpdatedAt,
	}, nil
}
