package report

import (
	"sort"
	"time"

	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const unspecifiedPaymentMethod = "unspecified"

const (
	ReportTypeSales           = "sales"
	ReportTypeSalesOverview   = "sales_overview"
	ReportTypeProducts        = "products"
	ReportTypeIncomeStatement = "income_statement"
)

// salesSections are computed once and shaped into either sales report family
type salesSections struct {
	summary     report.SalesSummary
	sales       report.SalesMetrics
	products    report.ProductMetrics
	operational report.OperationalMetrics
	tax         report.TaxMetrics
	orderCount  int
}

// BuildSalesReport builds the summary-shaped sales report
func (e *Engine) BuildSalesReport(in Input, opts report.Options) *report.SalesReport {
	s := e.buildSalesSections(e.newBuildContext(in, opts))
	return &report.SalesReport{
		Summary:            s.summary,
		SalesMetrics:       s.sales,
		ProductMetrics:     s.products,
		OperationalMetrics: s.operational,
		TaxMetrics:         s.tax,
	}
}

// BuildSalesOverview builds the metadata-shaped sales report
func (e *Engine) BuildSalesOverview(in Input, opts report.Options) *report.SalesOverview {
	bc := e.newBuildContext(in, opts)
	s := e.buildSalesSections(bc)

	var byPeriod []report.PeriodTotals
	switch bc.opts.Period {
	case report.PeriodWeekly:
		byPeriod = s.sales.TimeSeries.Weekly
	case report.PeriodMonthly:
		byPeriod = s.sales.TimeSeries.Monthly
	default:
		byPeriod = s.sales.TimeSeries.Daily
	}

	return &report.SalesOverview{
		Metadata: e.metadata(bc, ReportTypeSalesOverview, s.orderCount),
		RevenueMetrics: report.RevenueMetrics{
			TotalRevenue:      s.summary.TotalRevenue,
			ProductSales:      s.summary.ProductSales,
			DeliveryFees:      s.summary.DeliveryFees,
			OrderDiscounts:    s.summary.OrderDiscounts,
			ItemDiscounts:     s.summary.ItemDiscounts,
			TotalOrders:       s.summary.TotalOrders,
			AverageOrderValue: s.summary.AverageOrderValue,
			ByPaymentMethod:   s.sales.ByPaymentMethod,
			ByCategory:        s.sales.ByCategory,
			BySegment:         s.sales.BySegment,
			ByPeriod:          byPeriod,
		},
		ProductMetrics:     s.products,
		OperationalMetrics: s.operational,
		TaxMetrics:         s.tax,
	}
}

func (e *Engine) metadata(bc *buildContext, reportType string, orderCount int) report.Metadata {
	md := report.Metadata{
		ReportID:    uuid.New(),
		ReportType:  reportType,
		BakeryID:    bc.input.BakeryID,
		GeneratedAt: time.Now().UTC(),
		DateField:   bc.opts.DateField.String(),
		Period:      bc.opts.Period,
		Metrics:     bc.opts.Metrics,
		Segment:     bc.opts.Segment,
		Categories:  bc.opts.Categories,
		OrderCount:  orderCount,
	}
	if bc.opts.StartDate != nil {
		md.StartDate = report.DailyKey(bc.opts.StartDate.In(e.loc))
	}
	if bc.opts.EndDate != nil {
		md.EndDate = report.DailyKey(bc.opts.EndDate.In(e.loc))
	}
	return md
}

func (e *Engine) buildSalesSections(bc *buildContext) salesSections {
	scope := e.scopeSales(bc)
	pa := e.aggregateProducts(bc, scope)

	return salesSections{
		summary: e.salesSummary(scope),
		sales: report.SalesMetrics{
			ByPaymentMethod: revenueByPaymentMethod(scope),
			ByCategory:      e.revenueByCategory(bc, scope),
			BySegment:       revenueBySegment(scope),
			TimeSeries:      timeSeries(scope),
		},
		products: e.productMetrics(bc, pa),
		operational: report.OperationalMetrics{
			Fulfillment: fulfillmentMetrics(scope),
			Delivery:    deliveryMetrics(scope),
		},
		tax:        taxMetrics(scope),
		orderCount: len(scope.orders),
	}
}

func (e *Engine) salesSummary(scope salesScope) report.SalesSummary {
	sum := report.SalesSummary{
		TotalOrders:         len(scope.orders),
		TotalRevenue:        valueobject.Zero(),
		ProductSales:        valueobject.Zero(),
		DeliveryFees:        valueobject.Zero(),
		OrderDiscounts:      valueobject.Zero(),
		ItemDiscounts:       valueobject.Zero(),
		AverageOrderValue:   valueobject.Zero(),
		ComplimentaryOrders: scope.complimentary,
	}
	for _, so := range scope.orders {
		sum.TotalRevenue = sum.TotalRevenue.Add(so.totals.Total)
		sum.ProductSales = sum.ProductSales.Add(so.netSales())
		sum.DeliveryFees = sum.DeliveryFees.Add(so.totals.DeliveryFee)
		sum.OrderDiscounts = sum.OrderDiscounts.Add(so.totals.OrderDiscountAmount)
		for _, item := range so.items {
			sum.TotalQuantity += item.Quantity
			sum.ItemDiscounts = sum.ItemDiscounts.Add(item.TotalItemDiscount())
		}
	}
	sum.AverageOrderValue = sum.TotalRevenue.Average(int64(sum.TotalOrders))
	return sum
}

// revenueByPaymentMethod groups order totals by payment method, largest first
func revenueByPaymentMethod(scope salesScope) []report.PaymentMethodRevenue {
	index := make(map[string]int)
	out := make([]report.PaymentMethodRevenue, 0)
	grand := valueobject.Zero()
	for _, so := range scope.orders {
		method := so.order.PaymentMethod
		if method == "" {
			method = unspecifiedPaymentMethod
		}
		i, ok := index[method]
		if !ok {
			i = len(out)
			index[method] = i
			out = append(out, report.PaymentMethodRevenue{Method: method, Total: valueobject.Zero()})
		}
		out[i].Total = out[i].Total.Add(so.totals.Total)
		out[i].OrderCount++
		grand = grand.Add(so.totals.Total)
	}
	for i := range out {
		out[i].Percentage = report.Percent(out[i].Total.Float64(), grand.Float64())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// revenueByCategory groups line-item revenue by category name
func (e *Engine) revenueByCategory(bc *buildContext, scope salesScope) []report.CategoryRevenue {
	index := make(map[string]int)
	out := make([]report.CategoryRevenue, 0)
	totalRevenue := valueobject.Zero()
	var totalQty int64
	for _, so := range scope.orders {
		for _, item := range so.items {
			_, categoryID, categoryName := bc.itemLabels(item)
			i, ok := index[categoryName]
			if !ok {
				i = len(out)
				index[categoryName] = i
				out = append(out, report.CategoryRevenue{
					CategoryID:   categoryID,
					CategoryName: categoryName,
					Revenue:      valueobject.Zero(),
				})
			}
			subtotal := item.Amounts().Subtotal
			out[i].Revenue = out[i].Revenue.Add(subtotal)
			out[i].Quantity += item.Quantity
			totalRevenue = totalRevenue.Add(subtotal)
			totalQty += item.Quantity
		}
	}
	for i := range out {
		out[i].AveragePrice = out[i].Revenue.Average(out[i].Quantity)
		out[i].PercentageRevenue = report.Percent(out[i].Revenue.Float64(), totalRevenue.Float64())
		out[i].PercentageQuantity = report.Percent(float64(out[i].Quantity), float64(totalQty))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return bc.compareNames(out[i].CategoryName, out[j].CategoryName) < 0
	})
	return out
}

// revenueBySegment splits order totals into b2b and b2c.
// Empty order sets yield NaN percentages and averages.
func revenueBySegment(scope salesScope) report.SegmentRevenue {
	b2b, b2c := valueobject.Zero(), valueobject.Zero()
	var b2bOrders, b2cOrders int
	for _, so := range scope.orders {
		if so.segment == report.SegmentB2B {
			b2b = b2b.Add(so.totals.Total)
			b2bOrders++
		} else {
			b2c = b2c.Add(so.totals.Total)
			b2cOrders++
		}
	}
	grand := b2b.Add(b2c).Float64()
	figures := func(total valueobject.Money, orders int) report.SegmentFigures {
		return report.SegmentFigures{
			Total:             total,
			Orders:            orders,
			AveragePrice:      report.Div(total.Float64(), float64(orders)),
			PercentageRevenue: report.Percent(total.Float64(), grand),
		}
	}
	return report.SegmentRevenue{B2B: figures(b2b, b2bOrders), B2C: figures(b2c, b2cOrders)}
}

func fulfillmentMetrics(scope salesScope) report.FulfillmentMetrics {
	var m report.FulfillmentMetrics
	for _, so := range scope.orders {
		if so.order.IsDelivery() {
			m.DeliveryOrders++
		} else {
			m.PickupOrders++
		}
	}
	total := float64(m.DeliveryOrders + m.PickupOrders)
	m.DeliveryPercentage = report.Percent(float64(m.DeliveryOrders), total)
	m.PickupPercentage = report.Percent(float64(m.PickupOrders), total)
	return m
}

// deliveryMetrics averages are 0, not NaN, when there are no delivery orders
func deliveryMetrics(scope salesScope) report.DeliveryMetrics {
	m := report.DeliveryMetrics{
		TotalFees:   valueobject.Zero(),
		TotalCost:   valueobject.Zero(),
		AverageFee:  valueobject.Zero(),
		AverageCost: valueobject.Zero(),
	}
	for _, so := range scope.orders {
		if !so.order.IsDelivery() {
			continue
		}
		m.DeliveryOrders++
		m.TotalFees = m.TotalFees.Add(so.order.DeliveryFee)
		m.TotalCost = m.TotalCost.Add(so.order.DeliveryCost)
	}
	m.DeliveryRevenue = m.TotalFees.Subtract(m.TotalCost)
	m.AverageFee = m.TotalFees.Average(int64(m.DeliveryOrders))
	m.AverageCost = m.TotalCost.Average(int64(m.DeliveryOrders))
	return m
}

func taxMetrics(scope salesScope) report.TaxMetrics {
	m := report.TaxMetrics{
		PreTaxAmount: valueobject.Zero(),
		TaxAmount:    valueobject.Zero(),
		Total:        valueobject.Zero(),
		TaxCollected: valueobject.Zero(),
	}
	for _, so := range scope.orders {
		m.TaxCollected = m.TaxCollected.Add(so.totals.TotalTaxAmount)
		for _, item := range so.items {
			if !item.IsTaxable() {
				continue
			}
			m.TaxableItems++
			m.PreTaxAmount = m.PreTaxAmount.Add(item.TotalPreTax())
			m.TaxAmount = m.TaxAmount.Add(item.TotalTax())
			m.Total = m.Total.Add(item.Amounts().Subtotal)
		}
	}
	return m
}

// timeSeries builds per-day totals first, then rolls them up into weeks and months.
// Orders without a date are not bucketed.
func timeSeries(scope salesScope) report.TimeSeries {
	days := newPeriodBuckets()
	for _, so := range scope.orders {
		key, ok := report.PeriodDaily.Key(so.date)
		if !ok {
			continue
		}
		b := days.get(key)
		net := so.netSales()
		if so.segment == report.SegmentB2B {
			b.B2B = b.B2B.Add(net)
		} else {
			b.B2C = b.B2C.Add(net)
		}
		b.Delivery = b.Delivery.Add(so.totals.DeliveryFee)
		b.Orders++
	}

	weeks, months := newPeriodBuckets(), newPeriodBuckets()
	for _, d := range days.list() {
		t, err := report.ParseDay(d.Key, time.UTC)
		if err != nil {
			continue
		}
		weeks.get(report.WeeklyKey(t)).merge(d)
		months.get(report.MonthlyKey(t)).merge(d)
	}

	return report.TimeSeries{
		Daily:   days.finish(),
		Weekly:  weeks.finish(),
		Monthly: months.finish(),
	}
}

type periodBuckets struct {
	byKey map[string]*report.PeriodTotals
}

func newPeriodBuckets() *periodBuckets {
	return &periodBuckets{byKey: make(map[string]*report.PeriodTotals)}
}

func (pb *periodBuckets) get(key string) *bucket {
	b, ok := pb.byKey[key]
	if !ok {
		b = &report.PeriodTotals{
			Key:      key,
			B2B:      valueobject.Zero(),
			B2C:      valueobject.Zero(),
			Subtotal: valueobject.Zero(),
			Delivery: valueobject.Zero(),
			Total:    valueobject.Zero(),
		}
		pb.byKey[key] = b
	}
	return (*bucket)(b)
}

// list returns buckets sorted by key; keys sort chronologically
func (pb *periodBuckets) list() []report.PeriodTotals {
	out := make([]report.PeriodTotals, 0, len(pb.byKey))
	for _, b := range pb.byKey {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// finish derives subtotal, total and segment shares, then lists the buckets
func (pb *periodBuckets) finish() []report.PeriodTotals {
	for _, b := range pb.byKey {
		b.Subtotal = b.B2B.Add(b.B2C)
		b.Total = b.Subtotal.Add(b.Delivery)
		b.B2BPercentage, b.B2CPercentage = 0, 0
		if b.Subtotal.IsPositive() {
			sub := b.Subtotal.Float64()
			b.B2BPercentage = b.B2B.Float64() / sub * 100
			b.B2CPercentage = b.B2C.Float64() / sub * 100
		}
	}
	return pb.list()
}

type bucket report.PeriodTotals

func (b *bucket) merge(d report.PeriodTotals) {
	b.B2B = b.B2B.Add(d.B2B)
	b.B2C = b.B2C.Add(d.B2C)
	b.Delivery = b.Delivery.Add(d.Delivery)
	b.Orders += d.Orders
}
