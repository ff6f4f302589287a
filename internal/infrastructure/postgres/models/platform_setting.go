package models

import "time"

type PlatformSettingModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
