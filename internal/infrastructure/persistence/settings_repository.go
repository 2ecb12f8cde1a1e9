package persistence

import (
	"context"
	"errors"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db     *Database
	logger *zap.Logger
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *Database, logger *zap.Logger) *GormSettingsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormSettingsRepository{db: db, logger: logger}
}

// DefaultDateField returns the bakery's report date field.
// A missing row or an unknown stored value reads as no preference.
func (r *GormSettingsRepository) DefaultDateField(ctx context.Context, bakeryID string) (order.DateField, error) {
	var row models.BakerySettingsModel
	err := r.db.WithBakery(ctx, bakeryID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	s, err := row.ToDomain()
	if err != nil {
		r.logger.Warn("Ignoring invalid bakery settings",
			zap.String("bakery_id", bakeryID),
			zap.String("default_date_field", row.DefaultDateField),
			zap.Error(err),
		)
		return "", nil
	}
	return s.DefaultDateField, nil
}

// SaveDefaultDateField stores the bakery's report date field; empty clears it
func (r *GormSettingsRepository) SaveDefaultDateField(ctx context.Context, bakeryID string, field order.DateField) error {
	if _, err := (&models.BakerySettingsModel{BakeryID: bakeryID, DefaultDateField: string(field)}).ToDomain(); err != nil {
		return err
	}
	return r.db.DB.WithContext(ctx).Save(&models.BakerySettingsModel{
		BakeryID:         bakeryID,
		DefaultDateField: string(field),
	}).Error
}
