package handler

import (
	"context"
	"time"

	reportapp "github.com/bakery/backend/internal/application/report"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReportService builds the bakery reports
type ReportService interface {
	GetSalesReport(ctx context.Context, bakeryID string, opts report.Options) (*report.SalesReport, error)
	GetSalesOverview(ctx context.Context, bakeryID string, opts report.Options) (*report.SalesOverview, error)
	GetProductReport(ctx context.Context, bakeryID string, opts report.Options) (*report.ProductReport, error)
	GetIncomeStatement(ctx context.Context, bakeryID string, opts report.Options) (*reportapp.IncomeStatementResult, error)
	GetReportBundle(ctx context.Context, bakeryID string, opts report.Options) (*reportapp.ReportBundle, error)
}

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService ReportService
	location      *time.Location
}

// NewReportHandler creates a new ReportHandler. Query dates are read in loc.
func NewReportHandler(reportService ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		reportService: reportService,
		location:      loc,
	}
}

// GetSalesReport godoc
// @Summary      Get sales report
// @Description  Summary, time series, product breakdown and payment/delivery splits over every order, paid or not
// @Tags         reports
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Param        period query string false "daily, weekly or monthly"
// @Param        segment query string false "none, all, b2b or b2c"
// @Param        categories query string false "Comma separated category IDs"
// @Param        date_field query string false "dueDate, paymentDate or preparationDate"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Success      200 {object} dto.Response{data=report.SalesReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/sales [get]
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	serveReport(h, c, h.reportService.GetSalesReport)
}

// GetSalesOverview godoc
// @Summary      Get sales overview
// @Description  Counts, totals and per-period figures over every order, paid or not
// @Tags         reports
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Param        period query string false "daily, weekly or monthly"
// @Param        date_field query string false "dueDate, paymentDate or preparationDate"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Success      200 {object} dto.Response{data=report.SalesOverview}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/sales/overview [get]
func (h *ReportHandler) GetSalesOverview(c *gin.Context) {
	serveReport(h, c, h.reportService.GetSalesOverview)
}

// GetProductReport godoc
// @Summary      Get product report
// @Description  Per-product revenue and quantity with period figures and best/lowest sellers
// @Tags         reports
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Param        period query string false "daily, weekly or monthly"
// @Param        metrics query string false "ingresos, cantidad or both"
// @Param        segment query string false "none, all, b2b or b2c"
// @Param        categories query string false "Comma separated category IDs"
// @Success      200 {object} dto.Response{data=report.ProductReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/products [get]
func (h *ReportHandler) GetProductReport(c *gin.Context) {
	serveReport(h, c, h.reportService.GetProductReport)
}

// GetIncomeStatement godoc
// @Summary      Get income statement
// @Description  Revenue, cost of goods sold, gross profit and margin over paid orders, in total or per month
// @Tags         reports
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Param        group_by query string false "total or month"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Success      200 {object} dto.Response{data=report.IncomeStatement}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/income-statement [get]
func (h *ReportHandler) GetIncomeStatement(c *gin.Context) {
	serveReport(h, c, h.reportService.GetIncomeStatement)
}

// GetReportBundle godoc
// @Summary      Get report bundle
// @Description  Sales, product and income reports built from a single fetch
// @Tags         reports
// @Produce      json
// @Param        X-Bakery-ID header string true "Bakery ID"
// @Success      200 {object} dto.Response{data=reportapp.ReportBundle}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/bundle [get]
func (h *ReportHandler) GetReportBundle(c *gin.Context) {
	serveReport(h, c, h.reportService.GetReportBundle)
}

// serveReport binds the shared query, runs build and writes the envelope
func serveReport[T any](
	h *ReportHandler,
	c *gin.Context,
	build func(context.Context, string, report.Options) (*T, error),
) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	opts, err := query.ToOptions(h.location)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := build(c.Request.Context(), getBakeryID(c), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}
