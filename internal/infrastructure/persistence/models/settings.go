package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/settings"
)

// BakerySettingsModel is the persistence model for per-bakery report preferences
type BakerySettingsModel struct {
	BakeryID         string    `gorm:"type:varchar(64);primaryKey"`
	DefaultDateField string    `gorm:"type:varchar(32)"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BakerySettingsModel) TableName() string {
	return "bakery_settings"
}

// ToDomain converts the persistence model to bakery settings
func (m *BakerySettingsModel) ToDomain() (*settings.BakerySettings, error) {
	return settings.NewBakerySettings(m.BakeryID, order.DateField(m.DefaultDateField))
}
