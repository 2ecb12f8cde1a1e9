package handler

import (
	"context"

	settingsapp "github.com/bakery/backend/internal/application/settings"
	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SettingsService reads and updates per-bakery report settings
type SettingsService interface {
	Get(ctx context.Context, bakeryID string) (*settingsapp.SettingsResponse, error)
	UpdateDefaultDateField(ctx context.Context, bakeryID string, field order.DateField) (*settingsapp.SettingsResponse, error)
}

// SettingsHandler handles bakery report settings
type SettingsHandler struct {
	BaseHandler
	settingsService SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetReportSettings godoc
// @Summary      Get report settings
// @Description  The date field reports use when a request does not pick one
// @Tags         settings
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Success      200 {object} dto.Response{data=settingsapp.SettingsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /settings/reports [get]
func (h *SettingsHandler) GetReportSettings(c *gin.Context) {
	resp, err := h.settingsService.Get(c.Request.Context(), getBakeryID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateReportSettings godoc
// @Summary      Update report settings
// @Description  Set the bakery's default report date field; an empty value restores the server default
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Param        request body dto.UpdateReportSettingsRequest true "New settings"
// @Success      200 {object} dto.Response{data=settingsapp.SettingsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /settings/reports [put]
func (h *SettingsHandler) UpdateReportSettings(c *gin.Context) {
	var req dto.UpdateReportSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.settingsService.UpdateDefaultDateField(c.Request.Context(), getBakeryID(c), order.DateField(*req.DefaultDateField))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
