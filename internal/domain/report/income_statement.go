package report

import (
	"github.com/bakery/backend/internal/domain/shared/valueobject"
)

// IncomeRevenue is what paid orders brought in.
// Taxes collected are reported separately and not netted out.
type IncomeRevenue struct {
	ProductSales   valueobject.Money `json:"productSales"`
	DeliveryFees   valueobject.Money `json:"deliveryFees"`
	TaxesCollected valueobject.Money `json:"taxesCollected"`
	TotalRevenue   valueobject.Money `json:"totalRevenue"`
	OrderDiscounts valueobject.Money `json:"orderDiscounts"`
}

// IncomeCosts is what producing and delivering those orders cost
type IncomeCosts struct {
	CostOfGoodsSold valueobject.Money `json:"costOfGoodsSold"`
	DeliveryCosts   valueobject.Money `json:"deliveryCosts"`
	TotalCosts      valueobject.Money `json:"totalCosts"`
}

// GrossProfit is revenue minus costs
type GrossProfit struct {
	Amount        valueobject.Money `json:"amount"`
	MarginPercent float64           `json:"marginPercent"`
}

// CostCoverage reports how much of the sold items had a known cost.
// Items are order-item rows, not units. A product with any uncosted row counts
// as without cost, so ProductsWithCost + ProductsWithoutCost == UniqueProducts.
type CostCoverage struct {
	TotalItems          int   `json:"totalItems"`
	ItemsWithCost       int   `json:"itemsWithCost"`
	PercentCovered      int64 `json:"percentCovered"`
	UniqueProducts      int   `json:"uniqueProducts"`
	ProductsWithCost    int   `json:"productsWithCost"`
	ProductsWithoutCost int   `json:"productsWithoutCost"`
}

// IncomeFigures is one income statement block
type IncomeFigures struct {
	OrderCount  int           `json:"orderCount"`
	Revenue     IncomeRevenue `json:"revenue"`
	Costs       IncomeCosts   `json:"costs"`
	GrossProfit GrossProfit   `json:"grossProfit"`
	Coverage    CostCoverage  `json:"coverage"`
}

// IncomeStatement is the single-aggregate income statement
type IncomeStatement struct {
	IncomeFigures
	ExcludedProducts []ExcludedProduct `json:"excludedProducts"`
}

// IncomePeriod is the income statement of one calendar month
type IncomePeriod struct {
	Month string `json:"month"`
	IncomeFigures
}

// MonthlyIncomeStatement groups the income statement by calendar month
type MonthlyIncomeStatement struct {
	Periods          []IncomePeriod    `json:"periods"`
	Totals           IncomeFigures     `json:"totals"`
	ExcludedProducts []ExcludedProduct `json:"excludedProducts"`
}
