package settings

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// SettingsResponse is the bakery's effective report preference
type SettingsResponse struct {
	BakeryID         string `json:"bakeryId"`
	DefaultDateField string `json:"defaultDateField"`
	// Inherited is true when the bakery has no stored preference and the server default applies
	Inherited bool `json:"inherited"`
}

// SettingsService reads and updates per-bakery report settings
type SettingsService struct {
	repo              settings.ReadWriter
	fallbackDateField order.DateField
	logger            *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.ReadWriter, fallback order.DateField, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !fallback.IsValid() {
		fallback = order.DateFieldDue
	}
	return &SettingsService{repo: repo, fallbackDateField: fallback, logger: logger}
}

// Get returns the bakery's report date field, or the server default when unset
func (s *SettingsService) Get(ctx context.Context, bakeryID string) (*SettingsResponse, error) {
	if _, err := settings.NewBakerySettings(bakeryID, ""); err != nil {
		return nil, err
	}
	field, err := s.repo.DefaultDateField(ctx, bakeryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bakery settings: %w", err)
	}
	if field == "" {
		return &SettingsResponse{BakeryID: bakeryID, DefaultDateField: s.fallbackDateField.String(), Inherited: true}, nil
	}
	return &SettingsResponse{BakeryID: bakeryID, DefaultDateField: field.String()}, nil
}

// UpdateDefaultDateField stores the bakery's report date field. An empty field clears it.
func (s *SettingsService) UpdateDefaultDateField(ctx context.Context, bakeryID string, field order.DateField) (*SettingsResponse, error) {
	bs, err := settings.NewBakerySettings(bakeryID, field)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveDefaultDateField(ctx, bs.BakeryID, bs.DefaultDateField); err != nil {
		return nil, fmt.Errorf("failed to save bakery settings: %w", err)
	}
	s.logger.Info("Bakery report date field updated",
		zap.String("bakery_id", bakeryID),
		zap.String("default_date_field", field.String()),
	)
	return s.Get(ctx, bakeryID)
}
