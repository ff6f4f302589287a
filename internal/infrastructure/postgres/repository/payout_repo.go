package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPayoutRepository struct {
	db *gorm.DB
}

func NewDefaultPayoutRepository(db *gorm.DB) *DefaultPayoutRepository {
	return &DefaultPayoutRepository{db: db}
}

func (r *DefaultPayoutRepository) DueScheduled(ctx context.Context, now time.Time, limit int) ([]*domain.SellerPayout, error) {
	var payoutModels []models.SellerPayoutModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", domain.PayoutStatusScheduled, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&payoutModels).Error
	if err != nil {
		return nil, err
	}
	payouts := make([]*domain.SellerPayout, len(payoutModels))
	for i, payoutModel := range payoutModels {
		payouts[i] = mappers.ToDomainPayout(&payoutModel)
	}
	return payouts, nil
}

func (r *DefaultPayoutRepository) GetPayoutByID(ctx context.Context, payoutID string) (*domain.SellerPayout, error) {
	var payoutModel models.SellerPayoutModel
	if err := r.db.WithContext(ctx).First(&payoutModel, "id = ?", payoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPayoutNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayout(&payoutModel), nil
}

func (r *DefaultPayoutRepository) GetPayoutByOrderID(ctx context.Context, orderID string) (*domain.SellerPayout, error) {
	var payoutModel models.SellerPayoutModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&payoutModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPayoutNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayout(&payoutModel), nil
}

func (r *DefaultPayoutRepository) MarkProcessing(ctx context.Context, payoutID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerPayoutModel{}).
		Where("id = ? AND status = ?", payoutID, domain.PayoutStatusScheduled).
		Updates(map[string]interface{}{
			"status":     domain.PayoutStatusProcessing,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultPayoutRepository) MarkCompleted(ctx context.Context, payoutID string, processedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerPayoutModel{}).
		Where("id = ? AND status = ?", payoutID, domain.PayoutStatusProcessing).
		Updates(map[string]interface{}{
			"status":       domain.PayoutStatusCompleted,
			"processed_at": processedAt,
			"updated_at":   processedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultPayoutRepository) MarkFailed(ctx context.Context, payoutID string, errorMessage string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerPayoutModel{}).
		Where("id = ? AND status IN ?", payoutID, []domain.PayoutStatus{
			domain.PayoutStatusScheduled,
			domain.PayoutStatusProcessing,
		}).
		Updates(map[string]interface{}{
			"status":        domain.PayoutStatusFailed,
			"error_message": errorMessage,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultPayoutRepository) RequeueStale(ctx context.Context, deadline time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerPayoutModel{}).
		Where("status = ? AND updated_at < ?", domain.PayoutStatusProcessing, deadline).
		Updates(map[string]interface{}{
			"status":     domain.PayoutStatusScheduled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
