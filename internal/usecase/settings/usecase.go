package usecase

import (
	"context"
	"strconv"

	"github.com/lunamarket/settlement-service/internal/domain"
)

// Defaults applied when a setting was never written.
const (
	defaultCommissionRateBps = 1500
	defaultPayoutDelayDays   = 3
	defaultMaxDownloads      = 5
)

type SettingsUsecase interface {
	domain.ConfigProvider
	AllSettings(ctx context.Context) (map[string]string, error)
	UpdateSetting(ctx context.Context, key, value string) error
}

type DefaultSettingsUsecase struct {
	settingsRepo domain.SettingsRepository
}

func NewDefaultSettingsUsecase(settingsRepo domain.SettingsRepository) *DefaultSettingsUsecase {
	return &DefaultSettingsUsecase{settingsRepo: settingsRepo}
}

// Snapshot reads the settings fresh on every call. Orders and payouts
// freeze the values they need at creation time, so a later change never
// rewrites history.
func (uc *DefaultSettingsUsecase) Snapshot(ctx context.Context) (*domain.PlatformConfig, error) {
	cfg := &domain.PlatformConfig{
		CommissionRateBps: defaultCommissionRateBps,
		PayoutDelayDays:   defaultPayoutDelayDays,
		MaxDownloads:      defaultMaxDownloads,
	}

	if raw, err := uc.settingsRepo.GetSetting(ctx, domain.SettingCommissionRateBps); err != nil {
		return nil, err
	} else if raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.CommissionRateBps = v
	}

	if raw, err := uc.settingsRepo.GetSetting(ctx, domain.SettingPayoutDelayDays); err != nil {
		return nil, err
	} else if raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		cfg.PayoutDelayDays = v
	}

	if raw, err := uc.settingsRepo.GetSetting(ctx, domain.SettingMaxDownloads); err != nil {
		return nil, err
	} else if raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		cfg.MaxDownloads = v
	}

	return cfg, nil
}

func (uc *DefaultSettingsUsecase) AllSettings(ctx context.Context) (map[string]string, error) {
	return uc.settingsRepo.AllSettings(ctx)
}

func (uc *DefaultSettingsUsecase) UpdateSetting(ctx context.Context, key, value string) error {
	return uc.settingsRepo.SetSetting(ctx, key, value)
}
