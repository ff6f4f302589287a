package models

import "time"

type OrderAccessModel struct {
	OrderID       string     `gorm:"primaryKey;type:uuid"`
	Order         OrderModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	GrantedAt     time.Time
	DownloadCount int
	MaxDownloads  int
}
