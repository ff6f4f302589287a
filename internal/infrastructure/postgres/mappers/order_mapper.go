package mappers

import (
	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                order.ID,
		BuyerID:           order.BuyerID,
		SellerID:          order.SellerID,
		ListingID:         order.ListingID,
		PriceAmount:       order.PriceAmount,
		CommissionRateBps: order.CommissionRateBps,
		CommissionAmount:  order.CommissionAmount,
		SellerAmount:      order.SellerAmount,
		Currency:          order.Currency,
		Status:            order.Status,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
		PaidAt:            order.PaidAt,
		RefundedAt:        order.RefundedAt,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:                model.ID,
		BuyerID:           model.BuyerID,
		SellerID:          model.SellerID,
		ListingID:         model.ListingID,
		PriceAmount:       model.PriceAmount,
		CommissionRateBps: model.CommissionRateBps,
		CommissionAmount:  model.CommissionAmount,
		SellerAmount:      model.SellerAmount,
		Currency:          model.Currency,
		Status:            model.Status,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		PaidAt:            model.PaidAt,
		RefundedAt:        model.RefundedAt,
	}
}
