package repository

import (
	"context"
	"errors"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAccessRepository struct {
	db *gorm.DB
}

func NewDefaultAccessRepository(db *gorm.DB) *DefaultAccessRepository {
	return &DefaultAccessRepository{db: db}
}

func (r *DefaultAccessRepository) GetAccessByOrderID(ctx context.Context, orderID string) (*domain.OrderAccess, error) {
	var accessModel models.OrderAccessModel
	if err := r.db.WithContext(ctx).First(&accessModel, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccessNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAccess(&accessModel), nil
}

func (r *DefaultAccessRepository) RegisterDownload(ctx context.Context, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderAccessModel{}).
		Where("order_id = ? AND download_count < max_downloads", orderID).
		Update("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
