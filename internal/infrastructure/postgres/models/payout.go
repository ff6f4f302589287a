package models

import (
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
)

// SellerPayoutModel relies on a partial unique index (see migrations) to
// keep at most one non-CANCELLED, non-FAILED payout per order.
type SellerPayoutModel struct {
	ID           string              `gorm:"primaryKey;type:uuid"`
	OrderID      string              `gorm:"type:uuid;not null;index"`
	Order        OrderModel          `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	SellerID     string              `gorm:"index"`
	Amount       int64
	Currency     string
	Status       domain.PayoutStatus `gorm:"index:idx_payouts_status_scheduled"`
	ScheduledAt  time.Time           `gorm:"index:idx_payouts_status_scheduled"`
	ProcessedAt  *time.Time
	ErrorMessage string
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
