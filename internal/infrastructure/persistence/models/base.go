package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BakeryModel provides the fields shared by every bakery-owned row
type BakeryModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	BakeryID  string    `gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func moneyPtr(d decimal.NullDecimal) *valueobject.Money {
	if !d.Valid {
		return nil
	}
	m := valueobject.NewMoney(d.Decimal)
	return &m
}

func nullDecimal(m *valueobject.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(m.Amount())
}

// All returns every model reporting reads, for schema setup in tests and sqlite mode
func All() []any {
	return []any{
		&OrderModel{},
		&OrderItemModel{},
		&ProductModel{},
		&ClientModel{},
		&BakerySettingsModel{},
	}
}
