package mappers

import (
	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:                payment.ID,
		OrderID:           payment.OrderID,
		GatewayOrderRef:   payment.GatewayOrderRef,
		GatewayPaymentRef: payment.GatewayPaymentRef,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		Status:            payment.Status,
		Method:            payment.Method,
		ErrorCode:         payment.ErrorCode,
		ErrorDescription:  payment.ErrorDescription,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                model.ID,
		OrderID:           model.OrderID,
		GatewayOrderRef:   model.GatewayOrderRef,
		GatewayPaymentRef: model.GatewayPaymentRef,
		Amount:            model.Amount,
		Currency:          model.Currency,
		Status:            model.Status,
		Method:            model.Method,
		ErrorCode:         model.ErrorCode,
		ErrorDescription:  model.ErrorDescription,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
