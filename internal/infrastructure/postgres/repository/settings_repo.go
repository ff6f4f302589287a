package repository

import (
	"context"
	"time"

	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSettingsRepository struct {
	db *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{db: db}
}

func (r *DefaultSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var settingModel models.PlatformSettingModel
	if err := r.db.WithContext(ctx).First(&settingModel, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return settingModel.Value, nil
}

func (r *DefaultSettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	settingModel := models.PlatformSettingModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&settingModel).Error
}

func (r *DefaultSettingsRepository) AllSettings(ctx context.Context) (map[string]string, error) {
	var settingModels []models.PlatformSettingModel
	if err := r.db.WithContext(ctx).Find(&settingModels).Error; err != nil {
		return nil, err
	}
	settings := make(map[string]string, len(settingModels))
	for _, settingModel := range settingModels {
		settings[settingModel.Key] = settingModel.Value
	}
	return settings, nil
}
