package report

import (
	"github.com/bakery/backend/internal/domain/shared/valueobject"
)

// ProductFigures are the figures a product row exposes.
// Fields left nil were not requested by the metrics selector.
type ProductFigures struct {
	Quantity     *int64             `json:"quantity,omitempty"`
	Revenue      *valueobject.Money `json:"revenue,omitempty"`
	AveragePrice *valueobject.Money `json:"averagePrice,omitempty"`
}

// NewProductFigures projects accumulated figures through the metrics selector
func NewProductFigures(f Figures, metrics Metrics) ProductFigures {
	var out ProductFigures
	if metrics.IncludesQuantity() {
		qty := f.Quantity
		out.Quantity = &qty
	}
	if metrics.IncludesRevenue() {
		revenue := f.Revenue
		avg := f.AveragePrice()
		out.Revenue = &revenue
		out.AveragePrice = &avg
	}
	return out
}

// PeriodFigures are a product's figures within one period bucket
type PeriodFigures struct {
	Key string `json:"key"`
	ProductFigures
}

// ProductRow is one line of the product report
type ProductRow struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Totals       ProductFigures  `json:"totals"`
	B2B          *ProductFigures `json:"b2b,omitempty"`
	B2C          *ProductFigures `json:"b2c,omitempty"`
	Periods      []PeriodFigures `json:"periods,omitempty"`
}

// ProductReportSummary totals the product report
type ProductReportSummary struct {
	TotalProducts     int               `json:"totalProducts"`
	ProductsWithSales int               `json:"productsWithSales"`
	TotalQuantity     int64             `json:"totalQuantity"`
	TotalRevenue      valueobject.Money `json:"totalRevenue"`
	B2B               *ProductFigures   `json:"b2b,omitempty"`
	B2C               *ProductFigures   `json:"b2c,omitempty"`
}

// ProductReport lists every reportable product with its sales
type ProductReport struct {
	Metadata Metadata             `json:"metadata"`
	Products []ProductRow         `json:"products"`
	Summary  ProductReportSummary `json:"summary"`
}
