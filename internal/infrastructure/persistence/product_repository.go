package persistence

import (
	"context"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db     *Database
	logger *zap.Logger
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *Database, logger *zap.Logger) *GormProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormProductRepository{db: db, logger: logger}
}

// FindAll returns the bakery's products, soft-deleted ones included, in creation order
func (r *GormProductRepository) FindAll(ctx context.Context, bakeryID string) ([]catalog.Product, error) {
	var rows []models.ProductModel
	err := r.db.WithBakery(ctx, bakeryID).
		Unscoped().
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			r.logger.Warn("Skipping invalid product row",
				zap.String("bakery_id", bakeryID),
				zap.String("product_id", rows[i].ID),
				zap.Error(err),
			)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
