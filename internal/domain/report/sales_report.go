package report

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Metadata describes how a report was produced
type Metadata struct {
	ReportID    uuid.UUID     `json:"reportId"`
	ReportType  string        `json:"reportType"`
	BakeryID    string        `json:"bakeryId"`
	GeneratedAt time.Time     `json:"generatedAt"`
	DateField   string        `json:"dateField"`
	Period      Period        `json:"period,omitempty"`
	Metrics     Metrics       `json:"metrics"`
	Segment     SegmentFilter `json:"segment"`
	Categories  []string      `json:"categories,omitempty"`
	StartDate   string        `json:"startDate,omitempty"`
	EndDate     string        `json:"endDate,omitempty"`
	OrderCount  int           `json:"orderCount"`
}

// PaymentMethodRevenue is revenue collected through one payment method
type PaymentMethodRevenue struct {
	Method     string            `json:"method"`
	Total      valueobject.Money `json:"total"`
	OrderCount int               `json:"orderCount"`
	Percentage Ratio             `json:"percentage"`
}

// CategoryRevenue is line-item revenue of one category
type CategoryRevenue struct {
	CategoryID         string            `json:"categoryId"`
	CategoryName       string            `json:"categoryName"`
	Revenue            valueobject.Money `json:"revenue"`
	Quantity           int64             `json:"quantity"`
	AveragePrice       valueobject.Money `json:"averagePrice"`
	PercentageRevenue  Ratio             `json:"percentageRevenue"`
	PercentageQuantity Ratio             `json:"percentageQuantity"`
}

// SegmentFigures are order totals of one customer segment
type SegmentFigures struct {
	Total             valueobject.Money `json:"total"`
	Orders            int               `json:"orders"`
	AveragePrice      Ratio             `json:"averagePrice"`
	PercentageRevenue Ratio             `json:"percentageRevenue"`
}

// SegmentRevenue splits order revenue into business and consumer customers
type SegmentRevenue struct {
	B2B SegmentFigures `json:"b2b"`
	B2C SegmentFigures `json:"b2c"`
}

// PeriodTotals are revenue figures of one day, week or month
type PeriodTotals struct {
	Key           string            `json:"key"`
	B2B           valueobject.Money `json:"b2b"`
	B2C           valueobject.Money `json:"b2c"`
	Subtotal      valueobject.Money `json:"subtotal"`
	Delivery      valueobject.Money `json:"delivery"`
	Total         valueobject.Money `json:"total"`
	Orders        int               `json:"orders"`
	B2BPercentage float64           `json:"b2bPercentage"`
	B2CPercentage float64           `json:"b2cPercentage"`
}

// TimeSeries holds daily totals and their weekly and monthly rollups
type TimeSeries struct {
	Daily   []PeriodTotals `json:"daily"`
	Weekly  []PeriodTotals `json:"weekly"`
	Monthly []PeriodTotals `json:"monthly"`
}

// SellerEntry is one product in a best or lowest seller list
type SellerEntry struct {
	ProductID    string            `json:"productId"`
	Name         string            `json:"name"`
	CategoryName string            `json:"categoryName"`
	Quantity     int64             `json:"quantity"`
	Revenue      valueobject.Money `json:"revenue"`
}

// SellerRanking ranks products by quantity and by revenue
type SellerRanking struct {
	ByQuantity []SellerEntry `json:"byQuantity"`
	ByRevenue  []SellerEntry `json:"byRevenue"`
}

// Sellers holds the top and bottom ends of a ranking
type Sellers struct {
	Best   SellerRanking `json:"best"`
	Lowest SellerRanking `json:"lowest"`
}

// ProductMetrics summarizes product performance
type ProductMetrics struct {
	TotalProducts     int           `json:"totalProducts"`
	ProductsWithSales int           `json:"productsWithSales"`
	TotalQuantity     int64         `json:"totalQuantity"`
	BestSellers       SellerRanking `json:"bestSellers"`
	LowestSellers     SellerRanking `json:"lowestSellers"`
	B2B               *Sellers      `json:"b2b,omitempty"`
	B2C               *Sellers      `json:"b2c,omitempty"`
}

// FulfillmentMetrics counts delivery and pickup orders
type FulfillmentMetrics struct {
	DeliveryOrders     int   `json:"deliveryOrders"`
	PickupOrders       int   `json:"pickupOrders"`
	DeliveryPercentage Ratio `json:"deliveryPercentage"`
	PickupPercentage   Ratio `json:"pickupPercentage"`
}

// DeliveryMetrics reports what delivery earned against what it cost
type DeliveryMetrics struct {
	DeliveryOrders  int               `json:"deliveryOrders"`
	TotalFees       valueobject.Money `json:"totalFees"`
	TotalCost       valueobject.Money `json:"totalCost"`
	DeliveryRevenue valueobject.Money `json:"deliveryRevenue"`
	AverageFee      valueobject.Money `json:"averageFee"`
	AverageCost     valueobject.Money `json:"averageCost"`
}

// OperationalMetrics groups fulfillment and delivery figures
type OperationalMetrics struct {
	Fulfillment FulfillmentMetrics `json:"fulfillment"`
	Delivery    DeliveryMetrics    `json:"delivery"`
}

// TaxMetrics covers taxable, non-complimentary line items
type TaxMetrics struct {
	TaxableItems int               `json:"taxableItems"`
	PreTaxAmount valueobject.Money `json:"preTaxAmount"`
	TaxAmount    valueobject.Money `json:"taxAmount"`
	Total        valueobject.Money `json:"total"`
	// TaxCollected is order tax after order discounts
	TaxCollected valueobject.Money `json:"taxCollected"`
}

// SalesSummary is the headline block of a sales report
type SalesSummary struct {
	TotalOrders         int               `json:"totalOrders"`
	TotalRevenue        valueobject.Money `json:"totalRevenue"`
	ProductSales        valueobject.Money `json:"productSales"`
	DeliveryFees        valueobject.Money `json:"deliveryFees"`
	OrderDiscounts      valueobject.Money `json:"orderDiscounts"`
	ItemDiscounts       valueobject.Money `json:"itemDiscounts"`
	TotalQuantity       int64             `json:"totalQuantity"`
	AverageOrderValue   valueobject.Money `json:"averageOrderValue"`
	ComplimentaryOrders int               `json:"complimentaryOrders"`
}

// SalesMetrics breaks revenue down by payment method, category, segment and time
type SalesMetrics struct {
	ByPaymentMethod []PaymentMethodRevenue `json:"byPaymentMethod"`
	ByCategory      []CategoryRevenue      `json:"byCategory"`
	BySegment       SegmentRevenue         `json:"bySegment"`
	TimeSeries      TimeSeries             `json:"timeSeries"`
}

// SalesReport is the summary-shaped sales report
type SalesReport struct {
	Summary            SalesSummary       `json:"summary"`
	SalesMetrics       SalesMetrics       `json:"salesMetrics"`
	ProductMetrics     ProductMetrics     `json:"productMetrics"`
	OperationalMetrics OperationalMetrics `json:"operationalMetrics"`
	TaxMetrics         TaxMetrics         `json:"taxMetrics"`
}

// RevenueMetrics is the revenue block of the overview-shaped sales report
type RevenueMetrics struct {
	TotalRevenue      valueobject.Money      `json:"totalRevenue"`
	ProductSales      valueobject.Money      `json:"productSales"`
	DeliveryFees      valueobject.Money      `json:"deliveryFees"`
	OrderDiscounts    valueobject.Money      `json:"orderDiscounts"`
	ItemDiscounts     valueobject.Money      `json:"itemDiscounts"`
	TotalOrders       int                    `json:"totalOrders"`
	AverageOrderValue valueobject.Money      `json:"averageOrderValue"`
	ByPaymentMethod   []PaymentMethodRevenue `json:"byPaymentMethod"`
	ByCategory        []CategoryRevenue      `json:"byCategory"`
	BySegment         SegmentRevenue         `json:"bySegment"`
	// ByPeriod is bucketed by the requested period, daily when none was given
	ByPeriod []PeriodTotals `json:"byPeriod"`
}

// SalesOverview is the metadata-shaped sales report
type SalesOverview struct {
	Metadata           Metadata           `json:"metadata"`
	RevenueMetrics     RevenueMetrics     `json:"revenueMetrics"`
	ProductMetrics     ProductMetrics     `json:"productMetrics"`
	OperationalMetrics OperationalMetrics `json:"operationalMetrics"`
	TaxMetrics         TaxMetrics         `json:"taxMetrics"`
}
