package mappers

import (
	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMPayout(payout *domain.SellerPayout) *models.SellerPayoutModel {
	return &models.SellerPayoutModel{
		ID:           payout.ID,
		OrderID:      payout.OrderID,
		SellerID:     payout.SellerID,
		Amount:       payout.Amount,
		Currency:     payout.Currency,
		Status:       payout.Status,
		ScheduledAt:  payout.ScheduledAt,
		ProcessedAt:  payout.ProcessedAt,
		ErrorMessage: payout.ErrorMessage,
		CancelReason: payout.CancelReason,
		CreatedAt:    payout.CreatedAt,
		UpdatedAt:    payout.UpdatedAt,
	}
}

func ToDomainPayout(model *models.SellerPayoutModel) *domain.SellerPayout {
	return &domain.SellerPayout{
		ID:           model.ID,
		OrderID:      model.OrderID,
		SellerID:     model.SellerID,
		Amount:       model.Amount,
		Currency:     model.Currency,
		Status:       model.Status,
		ScheduledAt:  model.ScheduledAt,
		ProcessedAt:  model.ProcessedAt,
		ErrorMessage: model.ErrorMessage,
		CancelReason: model.CancelReason,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
