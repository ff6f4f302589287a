package domain

import "context"

// Platform setting keys.
const (
	SettingCommissionRateBps = "commission_rate_bps"
	SettingPayoutDelayDays   = "payout_delay_days"
	SettingMaxDownloads      = "max_downloads"
)

// PlatformConfig is a point-in-time snapshot of the platform settings.
// It is read fresh at each order-creation and payout-scheduling decision;
// later changes never alter existing orders or payouts.
type PlatformConfig struct {
	CommissionRateBps int64
	PayoutDelayDays   int
	MaxDownloads      int
}

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]string, error)
}

// ConfigProvider yields the current platform configuration snapshot.
type ConfigProvider interface {
	Snapshot(ctx context.Context) (*PlatformConfig, error)
}
