package models

import (
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
)

type OrderModel struct {
	ID                string             `gorm:"primaryKey;type:uuid"`
	BuyerID           string             `gorm:"index:idx_orders_buyer_listing"`
	SellerID          string             `gorm:"index:idx_orders_seller"`
	ListingID         string             `gorm:"index:idx_orders_buyer_listing"`
	PriceAmount       int64
	CommissionRateBps int64
	CommissionAmount  int64
	SellerAmount      int64
	Currency          string
	Status            domain.OrderStatus `gorm:"index:idx_orders_status"`
	CreatedAt         time.Time          `gorm:"index:idx_orders_created_at"`
	UpdatedAt         time.Time
	PaidAt            *time.Time
	RefundedAt        *time.Time
}
