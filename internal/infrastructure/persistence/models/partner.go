package models

import (
	"github.com/bakery/backend/internal/domain/partner"
)

// ClientModel is the persistence model for a bakery client
type ClientModel struct {
	BakeryModel
	Name string `gorm:"type:varchar(200);not null"`
	Type string `gorm:"type:varchar(20);not null;default:'individual';index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain client
func (m *ClientModel) ToDomain() (*partner.Client, error) {
	return partner.NewClient(m.ID, m.BakeryID, m.Name, partner.ClientType(m.Type))
}
