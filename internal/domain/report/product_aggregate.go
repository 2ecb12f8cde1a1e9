package report

import "github.com/bakery/backend/internal/domain/shared/valueobject"

// Figures accumulates sales of one product in one slice (overall, segment or period)
type Figures struct {
	Revenue  valueobject.Money
	Quantity int64
	PriceSum valueobject.Money
}

// NewFigures returns zeroed figures
func NewFigures() Figures {
	return Figures{Revenue: valueobject.Zero(), PriceSum: valueobject.Zero()}
}

// Add records quantity units sold at unitPrice for subtotal
func (f *Figures) Add(quantity int64, unitPrice, subtotal valueobject.Money) {
	f.Revenue = f.Revenue.Add(subtotal)
	f.Quantity += quantity
	f.PriceSum = f.PriceSum.Add(unitPrice.MultiplyByInt(quantity))
}

// Merge adds other into f
func (f *Figures) Merge(other Figures) {
	f.Revenue = f.Revenue.Add(other.Revenue)
	f.Quantity += other.Quantity
	f.PriceSum = f.PriceSum.Add(other.PriceSum)
}

// AveragePrice is the quantity-weighted mean unit price, 0 when nothing sold
func (f Figures) AveragePrice() valueobject.Money {
	return f.PriceSum.Average(f.Quantity)
}

// ProductAggregate is the report-internal accumulator for one product.
// It lives for a single report build and is never cached.
type ProductAggregate struct {
	ProductID    string
	Name         string
	CategoryID   string
	CategoryName string
	Figures
	B2B *Figures
	B2C *Figures
	// Periods holds per-bucket figures keyed by period key
	Periods map[string]*Figures
}

// NewProductAggregate creates an empty aggregate for a product
func NewProductAggregate(productID, name, categoryID, categoryName string) *ProductAggregate {
	return &ProductAggregate{
		ProductID:    productID,
		Name:         name,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Figures:      NewFigures(),
	}
}

// HasSales reports whether any unit was sold
func (a *ProductAggregate) HasSales() bool {
	return a.Quantity > 0
}

// SegmentFigures returns the figures of a segment, creating them on first use
func (a *ProductAggregate) SegmentFigures(seg CustomerSegment) *Figures {
	target := &a.B2C
	if seg == SegmentB2B {
		target = &a.B2B
	}
	if *target == nil {
		f := NewFigures()
		*target = &f
	}
	return *target
}

// PeriodFigures returns the figures of a period bucket, creating them on first use
func (a *ProductAggregate) PeriodFigures(key string) *Figures {
	if a.Periods == nil {
		a.Periods = make(map[string]*Figures)
	}
	f, ok := a.Periods[key]
	if !ok {
		nf := NewFigures()
		f = &nf
		a.Periods[key] = f
	}
	return f
}

// ExcludedReasonNoCost is recorded for products with no resolvable unit cost
const ExcludedReasonNoCost = "no cost defined"

// ExcludedProduct is an income statement ledger entry for a product sold without a known cost
type ExcludedProduct struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	TotalQuantity int64  `json:"totalQuantity"`
	OrderCount    int    `json:"orderCount"`
	Reason        string `json:"reason"`
}
