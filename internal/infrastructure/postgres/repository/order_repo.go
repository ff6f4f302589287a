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

type DefaultOrderRepository struct {
	db *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{db: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.db.WithContext(ctx).Create(orderModel).Error; err != nil {
		return err
	}
	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.db.WithContext(ctx).First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) GetSettledOrderByBuyerListing(ctx context.Context, buyerID, listingID string) (*domain.Order, error) {
	settled := []domain.OrderStatus{
		domain.OrderStatusPaid,
		domain.OrderStatusDelivered,
		domain.OrderStatusCompleted,
	}
	var orderModel models.OrderModel
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND listing_id = ? AND status IN ?", buyerID, listingID, settled).
		First(&orderModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&orderModel), nil
}

// UpdateOrderStatus is the conditional transition primitive: the row moves
// only if its status is still one of from, so concurrent writers resolve to
// one winner.
func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, from []domain.OrderStatus, to domain.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}

func (r *DefaultOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]*domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
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

	var orderModels []models.OrderModel
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}
	return orders, total, nil
}
