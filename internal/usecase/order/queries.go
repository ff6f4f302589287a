package usecase

import (
	"context"

	"github.com/lunamarket/settlement-service/internal/domain"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

func (uc *DefaultOrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]*domain.Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.OrderRepo.ListOrders(ctx, filter, page, limit)
}
