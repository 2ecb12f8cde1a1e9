package report

import (
	"math"
	"sort"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
)

// excludedLedger collects products sold without a resolvable cost.
// Entries merge across orders and keep first-seen order.
type excludedLedger struct {
	entries   []*report.ExcludedProduct
	byID      map[string]*report.ExcludedProduct
	lastOrder map[string]string
}

func newExcludedLedger() *excludedLedger {
	return &excludedLedger{
		byID:      make(map[string]*report.ExcludedProduct),
		lastOrder: make(map[string]string),
	}
}

func (l *excludedLedger) record(orderID, productID, name string, quantity int64) {
	entry, ok := l.byID[productID]
	if !ok {
		entry = &report.ExcludedProduct{ProductID: productID, Name: name, Reason: report.ExcludedReasonNoCost}
		l.byID[productID] = entry
		l.entries = append(l.entries, entry)
	}
	entry.TotalQuantity += quantity
	if l.lastOrder[productID] != orderID {
		entry.OrderCount++
		l.lastOrder[productID] = orderID
	}
}

func (l *excludedLedger) list() []report.ExcludedProduct {
	out := make([]report.ExcludedProduct, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	return out
}

// incomeAccumulator folds paid orders into one income statement block
type incomeAccumulator struct {
	orders        int
	productSales  valueobject.Money
	deliveryFees  valueobject.Money
	taxes         valueobject.Money
	discounts     valueobject.Money
	cogs          valueobject.Money
	deliveryCosts valueobject.Money
	items         int
	itemsWithCost int
	products      map[string]struct{}
	uncostedByID  map[string]struct{}
}

func newIncomeAccumulator() *incomeAccumulator {
	return &incomeAccumulator{
		productSales:  valueobject.Zero(),
		deliveryFees:  valueobject.Zero(),
		taxes:         valueobject.Zero(),
		discounts:     valueobject.Zero(),
		cogs:          valueobject.Zero(),
		deliveryCosts: valueobject.Zero(),
		products:      make(map[string]struct{}),
		uncostedByID:  make(map[string]struct{}),
	}
}

// resolveUnitCost walks the cost waterfall: sale-time snapshot, then current catalog cost
func (bc *buildContext) resolveUnitCost(item order.LineItem) (valueobject.Money, bool) {
	if item.UnitCost != nil {
		return *item.UnitCost, true
	}
	if p, ok := bc.catalog.Get(item.ProductID); ok && p.HasCost() {
		return moneyOrZero(p.CostPrice), true
	}
	return valueobject.Zero(), false
}

func (acc *incomeAccumulator) addOrder(bc *buildContext, o order.Order, ledger *excludedLedger) {
	totals := o.Totals()
	acc.orders++
	acc.productSales = acc.productSales.Add(totals.PreTaxTotal)
	acc.taxes = acc.taxes.Add(totals.TotalTaxAmount)
	acc.discounts = acc.discounts.Add(totals.OrderDiscountAmount)
	if o.IsDelivery() {
		acc.deliveryFees = acc.deliveryFees.Add(totals.DeliveryFee)
		acc.deliveryCosts = acc.deliveryCosts.Add(o.DeliveryCost)
	}

	for _, item := range o.Items {
		if item.IsComplimentary {
			continue
		}
		acc.items++
		acc.products[item.ProductID] = struct{}{}
		cost, ok := bc.resolveUnitCost(item)
		if !ok {
			acc.uncostedByID[item.ProductID] = struct{}{}
			if ledger != nil {
				name, _, _ := bc.itemLabels(item)
				ledger.record(o.ID, item.ProductID, name, item.Quantity)
			}
			continue
		}
		acc.itemsWithCost++
		acc.cogs = acc.cogs.Add(cost.MultiplyByInt(item.Quantity))
	}
}

func (acc *incomeAccumulator) figures() report.IncomeFigures {
	totalRevenue := acc.productSales.Add(acc.deliveryFees).Add(acc.taxes)
	totalCosts := acc.cogs.Add(acc.deliveryCosts)
	gross := totalRevenue.Subtract(totalCosts)

	margin := 0.0
	if !totalRevenue.IsZero() {
		margin = report.Round1(gross.Float64() / totalRevenue.Float64() * 100)
	}
	var covered int64
	if acc.items > 0 {
		covered = int64(math.Round(float64(acc.itemsWithCost) / float64(acc.items) * 100))
	}

	return report.IncomeFigures{
		OrderCount: acc.orders,
		Revenue: report.IncomeRevenue{
			ProductSales:   acc.productSales,
			DeliveryFees:   acc.deliveryFees,
			TaxesCollected: acc.taxes,
			TotalRevenue:   totalRevenue,
			OrderDiscounts: acc.discounts,
		},
		Costs: report.IncomeCosts{
			CostOfGoodsSold: acc.cogs,
			DeliveryCosts:   acc.deliveryCosts,
			TotalCosts:      totalCosts,
		},
		GrossProfit: report.GrossProfit{
			Amount:        gross,
			MarginPercent: margin,
		},
		Coverage: report.CostCoverage{
			TotalItems:          acc.items,
			ItemsWithCost:       acc.itemsWithCost,
			PercentCovered:      covered,
			UniqueProducts:      len(acc.products),
			ProductsWithCost:    len(acc.products) - len(acc.uncostedByID),
			ProductsWithoutCost: len(acc.uncostedByID),
		},
	}
}

// incomeOrders selects paid, non-complimentary orders in range.
// The income statement covers the whole bakery, so category and segment selectors do not apply.
func (e *Engine) incomeOrders(bc *buildContext) []order.Order {
	out := make([]order.Order, 0, len(bc.input.Orders))
	for _, o := range bc.input.Orders {
		if !o.IsPaid || o.IsComplimentary() {
			continue
		}
		if !bc.opts.InRange(e.localDate(o.Date(bc.opts.DateField))) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// BuildIncomeStatement builds a single-aggregate income statement
func (e *Engine) BuildIncomeStatement(in Input, opts report.Options) *report.IncomeStatement {
	bc := e.newBuildContext(in, opts)
	acc := newIncomeAccumulator()
	ledger := newExcludedLedger()
	for _, o := range e.incomeOrders(bc) {
		acc.addOrder(bc, o, ledger)
	}
	return &report.IncomeStatement{
		IncomeFigures:    acc.figures(),
		ExcludedProducts: ledger.list(),
	}
}

// BuildMonthlyIncomeStatement groups the income statement by calendar month.
// Orders without a date cannot be placed in a month and are left out, totals included.
// The excluded-products ledger covers the whole call once.
func (e *Engine) BuildMonthlyIncomeStatement(in Input, opts report.Options) *report.MonthlyIncomeStatement {
	bc := e.newBuildContext(in, opts)
	months := make(map[string]*incomeAccumulator)
	totals := newIncomeAccumulator()
	ledger := newExcludedLedger()

	for _, o := range e.incomeOrders(bc) {
		key, ok := report.PeriodMonthly.Key(e.localDate(o.Date(bc.opts.DateField)))
		if !ok {
			continue
		}
		acc, exists := months[key]
		if !exists {
			acc = newIncomeAccumulator()
			months[key] = acc
		}
		acc.addOrder(bc, o, nil)
		totals.addOrder(bc, o, ledger)
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	periods := make([]report.IncomePeriod, 0, len(keys))
	for _, k := range keys {
		periods = append(periods, report.IncomePeriod{Month: k, IncomeFigures: months[k].figures()})
	}

	return &report.MonthlyIncomeStatement{
		Periods:          periods,
		Totals:           totals.figures(),
		ExcludedProducts: ledger.list(),
	}
}
