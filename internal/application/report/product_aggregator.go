package report

import (
	"sort"

	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
)

// productAggregation holds per-product accumulators in two orders:
// insertion (first sale, then catalog fill) and display (category, then name)
type productAggregation struct {
	inserted []*report.ProductAggregate
	sorted   []*report.ProductAggregate
	byID     map[string]*report.ProductAggregate
}

// aggregateProducts runs the sales pass to completion, then the catalog-fill pass
func (e *Engine) aggregateProducts(bc *buildContext, scope salesScope) *productAggregation {
	pa := &productAggregation{byID: make(map[string]*report.ProductAggregate)}

	// sales pass
	for _, so := range scope.orders {
		periodKey, hasPeriod := "", false
		if bc.opts.Period != "" {
			periodKey, hasPeriod = bc.opts.Period.Key(so.date)
		}
		for _, item := range so.items {
			agg, ok := pa.byID[item.ProductID]
			if !ok {
				agg = report.NewProductAggregate(item.ProductID, item.ProductName, item.CategoryID, item.CategoryName)
				pa.add(agg)
			}
			subtotal := item.Amounts().Subtotal
			agg.Add(item.Quantity, item.UnitPrice, subtotal)
			if bc.opts.SplitSegments() {
				agg.SegmentFigures(so.segment).Add(item.Quantity, item.UnitPrice, subtotal)
			}
			if hasPeriod {
				agg.PeriodFigures(periodKey).Add(item.Quantity, item.UnitPrice, subtotal)
			}
		}
	}

	// catalog-fill pass
	for _, p := range bc.catalog.Products() {
		if agg, ok := pa.byID[p.ID]; ok {
			if p.Name != "" {
				agg.Name = p.Name
			}
			if p.CollectionID != "" || p.CollectionName != "" {
				agg.CategoryID, agg.CategoryName = p.CollectionID, p.CollectionName
			}
			continue
		}
		if !p.IsActive() || !bc.opts.CategoryAllowed(p.CollectionID) {
			continue
		}
		pa.add(report.NewProductAggregate(p.ID, p.Name, p.CollectionID, p.CollectionName))
	}

	pa.sorted = make([]*report.ProductAggregate, len(pa.inserted))
	copy(pa.sorted, pa.inserted)
	bc.sortAggregates(pa.sorted)
	return pa
}

func (pa *productAggregation) add(agg *report.ProductAggregate) {
	pa.byID[agg.ProductID] = agg
	pa.inserted = append(pa.inserted, agg)
}

// withSales counts products that sold at least one unit
func (pa *productAggregation) withSales() int {
	n := 0
	for _, agg := range pa.inserted {
		if agg.HasSales() {
			n++
		}
	}
	return n
}

// totals sums the overall figures of every product
func (pa *productAggregation) totals() report.Figures {
	total := report.NewFigures()
	for _, agg := range pa.inserted {
		total.Merge(agg.Figures)
	}
	return total
}

// segmentTotals sums one segment's figures of every product
func (pa *productAggregation) segmentTotals(seg report.CustomerSegment) report.Figures {
	total := report.NewFigures()
	for _, agg := range pa.inserted {
		total.Merge(segmentOf(agg, seg))
	}
	return total
}

// segmentOf returns a product's figures for a segment, zero when it never sold there
func segmentOf(agg *report.ProductAggregate, seg report.CustomerSegment) report.Figures {
	f := agg.B2C
	if seg == report.SegmentB2B {
		f = agg.B2B
	}
	if f == nil {
		return report.NewFigures()
	}
	return *f
}

// figurePicker selects which figures of a product a ranking looks at
type figurePicker func(*report.ProductAggregate) report.Figures

func overall(agg *report.ProductAggregate) report.Figures {
	return agg.Figures
}

func inSegment(seg report.CustomerSegment) figurePicker {
	return func(agg *report.ProductAggregate) report.Figures {
		return segmentOf(agg, seg)
	}
}

// rankSellers builds best and lowest lists by quantity and revenue.
// Sorting is stable over insertion order so ties keep first-sale order.
// Lowest lists include products with no sales.
func (e *Engine) rankSellers(pa *productAggregation, pick figurePicker) report.Sellers {
	byQty := func(desc bool) []report.SellerEntry {
		return e.topSellers(pa.inserted, pick, func(a, b report.Figures) bool {
			if desc {
				return a.Quantity > b.Quantity
			}
			return a.Quantity < b.Quantity
		})
	}
	byRevenue := func(desc bool) []report.SellerEntry {
		return e.topSellers(pa.inserted, pick, func(a, b report.Figures) bool {
			if desc {
				return a.Revenue.GreaterThan(b.Revenue)
			}
			return a.Revenue.LessThan(b.Revenue)
		})
	}
	return report.Sellers{
		Best:   report.SellerRanking{ByQuantity: byQty(true), ByRevenue: byRevenue(true)},
		Lowest: report.SellerRanking{ByQuantity: byQty(false), ByRevenue: byRevenue(false)},
	}
}

func (e *Engine) topSellers(aggs []*report.ProductAggregate, pick figurePicker, less func(a, b report.Figures) bool) []report.SellerEntry {
	ranked := make([]*report.ProductAggregate, len(aggs))
	copy(ranked, aggs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(pick(ranked[i]), pick(ranked[j]))
	})
	if len(ranked) > e.topN {
		ranked = ranked[:e.topN]
	}
	out := make([]report.SellerEntry, 0, len(ranked))
	for _, agg := range ranked {
		f := pick(agg)
		out = append(out, report.SellerEntry{
			ProductID:    agg.ProductID,
			Name:         agg.Name,
			CategoryName: agg.CategoryName,
			Quantity:     f.Quantity,
			Revenue:      f.Revenue,
		})
	}
	return out
}

// productMetrics summarizes the aggregation for sales reports
func (e *Engine) productMetrics(bc *buildContext, pa *productAggregation) report.ProductMetrics {
	sellers := e.rankSellers(pa, overall)
	pm := report.ProductMetrics{
		TotalProducts:     len(pa.inserted),
		ProductsWithSales: pa.withSales(),
		TotalQuantity:     pa.totals().Quantity,
		BestSellers:       sellers.Best,
		LowestSellers:     sellers.Lowest,
	}
	if bc.opts.SplitSegments() {
		b2b := e.rankSellers(pa, inSegment(report.SegmentB2B))
		b2c := e.rankSellers(pa, inSegment(report.SegmentB2C))
		pm.B2B = &b2b
		pm.B2C = &b2c
	}
	return pm
}

// moneyOrZero guards a nil money pointer
func moneyOrZero(m *valueobject.Money) valueobject.Money {
	if m == nil {
		return valueobject.Zero()
	}
	return *m
}
