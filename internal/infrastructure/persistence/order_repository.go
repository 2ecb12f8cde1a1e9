package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dateColumns maps report date fields to order columns
var dateColumns = map[order.DateField]string{
	order.DateFieldDue:         "due_date",
	order.DateFieldPayment:     "payment_date",
	order.DateFieldPreparation: "preparation_date",
}

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db     *Database
	logger *zap.Logger
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *Database, logger *zap.Logger) *GormOrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormOrderRepository{db: db, logger: logger}
}

// FindForReport loads the bakery's orders with their lines.
// Rows that fail domain validation are logged and skipped.
func (r *GormOrderRepository) FindForReport(ctx context.Context, bakeryID string, filter order.ReportFilter) ([]order.Order, error) {
	column, ok := dateColumns[filter.DateField]
	if !ok {
		return nil, fmt.Errorf("unknown report date field %q", filter.DateField)
	}

	query := r.db.WithBakery(ctx, bakeryID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC").Order("position ASC")
		})
	if filter.StartDate != nil {
		query = query.Where(column+" >= ?", startOfDay(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where(column+" < ?", startOfDay(*filter.EndDate).AddDate(0, 0, 1))
	}
	if filter.PaidOnly {
		query = query.Where("is_paid = ?", true)
	}

	var rows []models.OrderModel
	err := query.
		Order("CASE WHEN " + column + " IS NULL THEN 1 ELSE 0 END").
		Order(column + " ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].ToDomain()
		if err != nil {
			r.logger.Warn("Skipping invalid order row",
				zap.String("bakery_id", bakeryID),
				zap.String("order_id", rows[i].ID),
				zap.Error(err),
			)
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Save inserts or replaces an order and its lines
func (r *GormOrderRepository) Save(ctx context.Context, o order.Order) error {
	var m models.OrderModel
	m.FromDomain(o)
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", o.ID).Delete(&models.OrderModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
}

// startOfDay truncates t to midnight in its own location
func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
