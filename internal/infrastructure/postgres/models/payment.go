package models

import (
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
)

type PaymentModel struct {
	ID                string               `gorm:"primaryKey;type:uuid"`
	OrderID           string               `gorm:"type:uuid;not null;index"`
	Order             OrderModel           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	GatewayOrderRef   string               `gorm:"uniqueIndex;not null"`
	GatewayPaymentRef string               `gorm:"index"`
	Amount            int64
	Currency          string
	Status            domain.PaymentStatus `gorm:"index"`
	Method            string
	ErrorCode         string
	ErrorDescription  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
