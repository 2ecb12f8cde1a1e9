package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSettingsRepository is a mock implementation of settings.ReadWriter
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) DefaultDateField(ctx context.Context, bakeryID string) (order.DateField, error) {
	args := m.Called(ctx, bakeryID)
	return args.Get(0).(order.DateField), args.Error(1)
}

func (m *MockSettingsRepository) SaveDefaultDateField(ctx context.Context, bakeryID string, field order.DateField) error {
	args := m.Called(ctx, bakeryID, field)
	return args.Error(0)
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("stored preference", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("DefaultDateField", ctx, "bk-1").Return(order.DateFieldPayment, nil)
		svc := NewSettingsService(repo, order.DateFieldDue, nil)

		got, err := svc.Get(ctx, "bk-1")
		require.NoError(t, err)
		assert.Equal(t, &SettingsResponse{BakeryID: "bk-1", DefaultDateField: "paymentDate"}, got)
		repo.AssertExpectations(t)
	})

	t.Run("unset falls back to server default", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("DefaultDateField", ctx, "bk-1").Return(order.DateField(""), nil)
		svc := NewSettingsService(repo, order.DateFieldPreparation, nil)

		got, err := svc.Get(ctx, "bk-1")
		require.NoError(t, err)
		assert.Equal(t, "preparationDate", got.DefaultDateField)
		assert.True(t, got.Inherited)
	})

	t.Run("invalid fallback becomes dueDate", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("DefaultDateField", ctx, "bk-1").Return(order.DateField(""), nil)
		svc := NewSettingsService(repo, order.DateField("shipDate"), nil)

		got, err := svc.Get(ctx, "bk-1")
		require.NoError(t, err)
		assert.Equal(t, "dueDate", got.DefaultDateField)
	})

	t.Run("missing bakery", func(t *testing.T) {
		svc := NewSettingsService(new(MockSettingsRepository), order.DateFieldDue, nil)

		_, err := svc.Get(ctx, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BAKERY", domainErr.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("DefaultDateField", ctx, "bk-1").Return(order.DateField(""), errors.New("db down"))
		svc := NewSettingsService(repo, order.DateFieldDue, nil)

		_, err := svc.Get(ctx, "bk-1")
		assert.ErrorContains(t, err, "db down")
	})
}

func TestSettingsService_UpdateDefaultDateField(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and returns the new value", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("SaveDefaultDateField", ctx, "bk-1", order.DateFieldPreparation).Return(nil)
		repo.On("DefaultDateField", ctx, "bk-1").Return(order.DateFieldPreparation, nil)
		svc := NewSettingsService(repo, order.DateFieldDue, nil)

		got, err := svc.UpdateDefaultDateField(ctx, "bk-1", order.DateFieldPreparation)
		require.NoError(t, err)
		assert.Equal(t, "preparationDate", got.DefaultDateField)
		assert.False(t, got.Inherited)
		repo.AssertExpectations(t)
	})

	t.Run("empty clears the preference", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("SaveDefaultDateField", ctx, "bk-1", order.DateField("")).Return(nil)
		repo.On("DefaultDateField", ctx, "bk-1").Return(order.DateField(""), nil)
		svc := NewSettingsService(repo, order.DateFieldDue, nil)

		got, err := svc.UpdateDefaultDateField(ctx, "bk-1", "")
		require.NoError(t, err)
		assert.True(t, got.Inherited)
	})

	t.Run("unknown field is rejected before saving", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		svc := NewSettingsService(repo, order.DateFieldDue, nil)

		_, err := svc.UpdateDefaultDateField(ctx, "bk-1", "shipDate")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATE_FIELD", domainErr.Code)
		repo.AssertNotCalled(t, "SaveDefaultDateField", mock.Anything, mock.Anything, mock.Anything)
	})
}
