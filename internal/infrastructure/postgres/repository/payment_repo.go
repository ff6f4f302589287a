package repository

import (
	"context"
	"errors"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	paymentModel := mappers.ToGORMPayment(payment)
	if err := r.db.WithContext(ctx).Create(paymentModel).Error; err != nil {
		return err
	}
	payment.CreatedAt = paymentModel.CreatedAt
	payment.UpdatedAt = paymentModel.UpdatedAt
	return nil
}

func (r *DefaultPaymentRepository) GetPaymentByGatewayOrderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var paymentModel models.PaymentModel
	if err := r.db.WithContext(ctx).First(&paymentModel, "gateway_order_ref = ?", ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&paymentModel), nil
}

func (r *DefaultPaymentRepository) GetLatestPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var paymentModel models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&paymentModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&paymentModel), nil
}
