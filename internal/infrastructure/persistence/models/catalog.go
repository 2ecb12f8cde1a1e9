package models

import (
	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductModel is the persistence model for a catalog product.
// Removed products are soft-deleted so past sales keep their names.
type ProductModel struct {
	BakeryModel
	Name           string              `gorm:"type:varchar(200);not null"`
	CollectionID   string              `gorm:"type:varchar(64);index"`
	CollectionName string              `gorm:"type:varchar(200)"`
	CostPrice      decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	DeletedAt      gorm.DeletedAt      `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a catalog product
func (m *ProductModel) ToDomain() (catalog.Product, error) {
	return catalog.NewProduct(
		m.ID,
		m.Name,
		m.CollectionID,
		m.CollectionName,
		moneyPtr(m.CostPrice),
		m.DeletedAt.Valid,
	)
}
