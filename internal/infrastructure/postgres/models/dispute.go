package models

import (
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
)

type DisputeModel struct {
	ID               string               `gorm:"primaryKey"`
	OrderID          string               `gorm:"type:uuid;not null;index"`
	Order            OrderModel           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	RaisedBy         string
	Reason           string
	Status           domain.DisputeStatus `gorm:"index"`
	Resolution       string
	OrderStatusPrior string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}
