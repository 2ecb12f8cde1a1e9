package settings

import (
	"context"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/shared"
)

// BakerySettings holds per-bakery reporting preferences
type BakerySettings struct {
	BakeryID         string
	DefaultDateField order.DateField
}

// NewBakerySettings validates and creates bakery settings.
// An empty date field means the bakery has no preference.
func NewBakerySettings(bakeryID string, dateField order.DateField) (*BakerySettings, error) {
	if bakeryID == "" {
		return nil, shared.ErrInvalidBakery
	}
	if dateField != "" && !dateField.IsValid() {
		return nil, shared.NewDomainError("INVALID_DATE_FIELD", "Unknown report date field: "+dateField.String())
	}
	return &BakerySettings{BakeryID: bakeryID, DefaultDateField: dateField}, nil
}

// Repository defines the interface for reading bakery settings
type Repository interface {
	// DefaultDateField returns the bakery's report date field, empty when unset
	DefaultDateField(ctx context.Context, bakeryID string) (order.DateField, error)
}

// Writer persists bakery settings
type Writer interface {
	// SaveDefaultDateField stores the bakery's report date field; empty clears it
	SaveDefaultDateField(ctx context.Context, bakeryID string, field order.DateField) error
}

// ReadWriter combines reading and persisting bakery settings
type ReadWriter interface {
	Repository
	Writer
}
