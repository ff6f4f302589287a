package mappers

import (
	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:               dispute.ID,
		OrderID:          dispute.OrderID,
		RaisedBy:         dispute.RaisedBy,
		Reason:           dispute.Reason,
		Status:           dispute.Status,
		Resolution:       dispute.Resolution,
		OrderStatusPrior: string(dispute.OrderStatusPrior),
		CreatedAt:        dispute.CreatedAt,
		UpdatedAt:        dispute.UpdatedAt,
		ResolvedAt:       dispute.ResolvedAt,
	}
}

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:               model.ID,
		OrderID:          model.OrderID,
		RaisedBy:         model.RaisedBy,
		Reason:           model.Reason,
		Status:           model.Status,
		Resolution:       model.Resolution,
		OrderStatusPrior: domain.OrderStatus(model.OrderStatusPrior),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
		ResolvedAt:       model.ResolvedAt,
	}
}

func ToDomainAccess(model *models.OrderAccessModel) *domain.OrderAccess {
	return &domain.OrderAccess{
		OrderID:       model.OrderID,
		GrantedAt:     model.GrantedAt,
		DownloadCount: model.DownloadCount,
		MaxDownloads:  model.MaxDownloads,
	}
}
