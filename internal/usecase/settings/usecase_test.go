package usecase

import (
	"context"
	"testing"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/testutil"
)

func TestSnapshotDefaults(t *testing.T) {
	store := testutil.NewStore()
	uc := NewDefaultSettingsUsecase(&testutil.SettingsRepo{S: store})

	cfg, err := uc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if cfg.CommissionRateBps != 1500 {
		t.Errorf("commission rate = %d, want default 1500", cfg.CommissionRateBps)
	}
	if cfg.PayoutDelayDays != 3 {
		t.Errorf("payout delay = %d, want default 3", cfg.PayoutDelayDays)
	}
	if cfg.MaxDownloads != 5 {
		t.Errorf("max downloads = %d, want default 5", cfg.MaxDownloads)
	}
}

func TestSnapshotReadsStoredValues(t *testing.T) {
	store := testutil.NewStore()
	uc := NewDefaultSettingsUsecase(&testutil.SettingsRepo{S: store})

	if err := uc.UpdateSetting(context.Background(), domain.SettingCommissionRateBps, "1000"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}
	if err := uc.UpdateSetting(context.Background(), domain.SettingPayoutDelayDays, "7"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}

	cfg, err := uc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if cfg.CommissionRateBps != 1000 {
		t.Errorf("commission rate = %d, want 1000", cfg.CommissionRateBps)
	}
	if cfg.PayoutDelayDays != 7 {
		t.Errorf("payout delay = %d, want 7", cfg.PayoutDelayDays)
	}
	if cfg.MaxDownloads != 5 {
		t.Errorf("max downloads = %d, want untouched default 5", cfg.MaxDownloads)
	}
}

func TestSnapshotRejectsGarbageValue(t *testing.T) {
	store := testutil.NewStore()
	store.Settings[domain.SettingCommissionRateBps] = "fifteen"
	uc := NewDefaultSettingsUsecase(&testutil.SettingsRepo{S: store})

	if _, err := uc.Snapshot(context.Background()); err == nil {
		t.Error("Snapshot accepted a non-numeric commission rate")
	}
}
