package domain

import (
	"context"
	"time"
)

// OrderAccess grants the buyer delivery rights once payment is captured.
// Exactly one row per order; removed again on refund.
type OrderAccess struct {
	OrderID       string
	GrantedAt     time.Time
	DownloadCount int
	MaxDownloads  int
}

type AccessRepository interface {
	GetAccessByOrderID(ctx context.Context, orderID string) (*OrderAccess, error)
	// RegisterDownload increments download_count if the grant exists and the
	// count is still below max_downloads. Returns false when the allowance
	// is exhausted.
	RegisterDownload(ctx context.Context, orderID string) (bool, error)
}
