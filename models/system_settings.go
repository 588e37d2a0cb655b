package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// SystemSettings is a key/value row with a human description. Typed access
// with defaults lives in services.LoadSettings; this model only persists.
type SystemSettings struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"type:varchar(100);unique;not null" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:text" json:"description"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (SystemSettings) TableName() string { return "system_settings" }

// GetSetting returns the stored value for key, or fallback when absent.
func GetSetting(db *gorm.DB, key, fallback string) string {
	var s SystemSettings
	if err := db.Where("key = ?", key).First(&s).Error; err != nil {
		return fallback
	}
	return s.Value
}

// SetSetting updates or creates a setting row.
func SetSetting(db *gorm.DB, key, value, description string) error {
	var s SystemSettings
	err := db.Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&SystemSettings{Key: key, Value: value, Description: description}).Error
	}
	if err != nil {
		return err
	}
	s.Value = value
	if description != "" {
		s.Description = description
	}
	return db.Save(&s).Error
}
