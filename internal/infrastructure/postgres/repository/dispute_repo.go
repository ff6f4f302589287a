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

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) CreateDispute(ctx context.Context, dispute *domain.Dispute) error {
	disputeModel := mappers.ToGORMDispute(dispute)
	if err := r.db.WithContext(ctx).Create(disputeModel).Error; err != nil {
		return err
	}
	dispute.CreatedAt = disputeModel.CreatedAt
	dispute.UpdatedAt = disputeModel.UpdatedAt
	return nil
}

func (r *DefaultDisputeRepository) GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.WithContext(ctx).First(&disputeModel, "id = ?", disputeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) GetActiveDisputeByOrderID(ctx context.Context, orderID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, []domain.DisputeStatus{
			domain.DisputeStatusOpen,
			domain.DisputeStatusUnderReview,
		}).
		First(&disputeModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) UpdateDisputeStatus(ctx context.Context, disputeID string, from []domain.DisputeStatus, to domain.DisputeStatus, resolution string, resolvedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if resolution != "" {
		updates["resolution"] = resolution
	}
	if resolvedAt != nil {
		updates["resolved_at"] = resolvedAt
	}
	res := r.db.WithContext(ctx).
		Model(&models.DisputeModel{}).
		Where("id = ? AND status IN ?", disputeID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}

func (r *DefaultDisputeRepository) ListDisputes(ctx context.Context, filter domain.DisputeFilter, page, limit int) ([]*domain.Dispute, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DisputeModel{})
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var disputeModels []models.DisputeModel
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&disputeModels).Error; err != nil {
		return nil, 0, err
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i, disputeModel := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModel)
	}
	return disputes, total, nil
}
