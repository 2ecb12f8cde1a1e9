package persistence

import (
	"context"

	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *Database
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *Database) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindB2BClientIDs returns the ids of the bakery's business clients
func (r *GormClientRepository) FindB2BClientIDs(ctx context.Context, bakeryID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithBakery(ctx, bakeryID).
		Model(&models.ClientModel{}).
		Where("type = ?", string(partner.ClientTypeBusiness)).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
