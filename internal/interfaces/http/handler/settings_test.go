package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	settingsapp "github.com/bakery/backend/internal/application/settings"
	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, bakeryID string) (*settingsapp.SettingsResponse, error) {
	args := m.Called(ctx, bakeryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settingsapp.SettingsResponse), args.Error(1)
}

func (m *MockSettingsService) UpdateDefaultDateField(ctx context.Context, bakeryID string, field order.DateField) (*settingsapp.SettingsResponse, error) {
	args := m.Called(ctx, bakeryID, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settingsapp.SettingsResponse), args.Error(1)
}

func serveSettings(svc SettingsService, method, body string) *httptest.ResponseRecorder {
	h := NewSettingsHandler(svc)
	router := gin.New()
	group := router.Group("/api/v1/settings", middleware.BakeryMiddleware())
	group.GET("/reports", h.GetReportSettings)
	group.PUT("/reports", h.UpdateReportSettings)

	req := httptest.NewRequest(method, "/api/v1/settings/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.BakeryHeaderKey, "bk-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSettingsHandler_GetReportSettings(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Get", mock.Anything, "bk-1").Return(&settingsapp.SettingsResponse{
		BakeryID:         "bk-1",
		DefaultDateField: "dueDate",
		Inherited:        true,
	}, nil)

	w := serveSettings(svc, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "dueDate", data["defaultDateField"])
	assert.Equal(t, true, data["inherited"])
}

func TestSettingsHandler_UpdateReportSettings(t *testing.T) {
	t.Run("updates", func(t *testing.T) {
		svc := new(MockSettingsService)
		svc.On("UpdateDefaultDateField", mock.Anything, "bk-1", order.DateFieldPreparation).
			Return(&settingsapp.SettingsResponse{BakeryID: "bk-1", DefaultDateField: "preparationDate"}, nil)

		w := serveSettings(svc, http.MethodPut, `{"defaultDateField":"preparationDate"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty string clears", func(t *testing.T) {
		svc := new(MockSettingsService)
		svc.On("UpdateDefaultDateField", mock.Anything, "bk-1", order.DateField("")).
			Return(&settingsapp.SettingsResponse{BakeryID: "bk-1", DefaultDateField: "dueDate", Inherited: true}, nil)

		w := serveSettings(svc, http.MethodPut, `{"defaultDateField":""}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		svc := new(MockSettingsService)
		w := serveSettings(svc, http.MethodPut, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "UpdateDefaultDateField", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown field value", func(t *testing.T) {
		svc := new(MockSettingsService)
		svc.On("UpdateDefaultDateField", mock.Anything, "bk-1", order.DateField("shipDate")).
			Return(nil, shared.NewDomainError("INVALID_DATE_FIELD", "Unknown report date field: shipDate"))

		w := serveSettings(svc, http.MethodPut, `{"defaultDateField":"shipDate"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
	})
}
