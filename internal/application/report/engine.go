package report

import (
	"sort"
	"time"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultTopN is the length of best and lowest seller lists
const DefaultTopN = 10

// Input is the already-fetched data a report is built from.
// Builders treat it as read-only so one Input can feed several reports at once.
type Input struct {
	BakeryID     string
	Orders       []order.Order
	B2BClientIDs []string
	Products     []catalog.Product
}

// EngineConfig tunes the report engine
type EngineConfig struct {
	// TopN is the length of seller lists
	TopN int
	// Language drives locale-aware sorting of category and product names
	Language language.Tag
	// Location is the time zone period keys and date ranges are evaluated in
	Location *time.Location
}

// Engine builds report documents from in-memory records.
// Every build is a deterministic fold with no I/O; the engine itself holds no mutable state.
type Engine struct {
	topN int
	lang language.Tag
	loc  *time.Location
}

// NewEngine creates a report engine
func NewEngine(cfg EngineConfig) *Engine {
	topN := cfg.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	lang := cfg.Language
	if lang == language.Und {
		lang = language.Spanish
	}
	return &Engine{topN: topN, lang: lang, loc: loc}
}

// Location returns the engine's time zone
func (e *Engine) Location() *time.Location {
	return e.loc
}

// buildContext carries report-scoped lookups built once per report
type buildContext struct {
	input   Input
	opts    report.Options
	b2b     report.B2BSet
	catalog *catalog.Catalog
	// collator is not safe for concurrent use; each build owns one
	collator *collate.Collator
}

func (e *Engine) newBuildContext(in Input, opts report.Options) *buildContext {
	return &buildContext{
		input:    in,
		opts:     opts.Normalize(),
		b2b:      report.NewB2BSet(in.B2BClientIDs),
		catalog:  catalog.NewCatalog(in.Products),
		collator: collate.New(e.lang),
	}
}

// compareNames orders strings with the report's locale rules
func (bc *buildContext) compareNames(a, b string) int {
	return bc.collator.CompareString(a, b)
}

// sortAggregates orders products by category name, then product name
func (bc *buildContext) sortAggregates(aggs []*report.ProductAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		if c := bc.compareNames(aggs[i].CategoryName, aggs[j].CategoryName); c != 0 {
			return c < 0
		}
		return bc.compareNames(aggs[i].Name, aggs[j].Name) < 0
	})
}

// itemLabels returns the product's current name and category, falling back to the sale-time snapshot
func (bc *buildContext) itemLabels(item order.LineItem) (name, categoryID, categoryName string) {
	name, categoryID, categoryName = item.ProductName, item.CategoryID, item.CategoryName
	if p, ok := bc.catalog.Get(item.ProductID); ok {
		if p.Name != "" {
			name = p.Name
		}
		if p.CollectionID != "" || p.CollectionName != "" {
			categoryID, categoryName = p.CollectionID, p.CollectionName
		}
	}
	return name, categoryID, categoryName
}

// scopedOrder is an order admitted to a report together with its derived values
type scopedOrder struct {
	order   order.Order
	totals  order.Totals
	segment report.CustomerSegment
	// date is the report date field in the engine's location, nil when unset
	date *time.Time
	// items are the order's non-complimentary items that pass the category filter
	items []order.LineItem
}

// netSales is product revenue after the order discount, excluding delivery
func (so scopedOrder) netSales() valueobject.Money {
	return so.totals.Subtotal.Subtract(so.totals.OrderDiscountAmount).ClampZero()
}

// salesScope is the order set sales and product reports fold over
type salesScope struct {
	orders        []scopedOrder
	complimentary int
}

// scopeSales admits non-complimentary orders in range, in the requested segment
// and with at least one item in an allowed category
func (e *Engine) scopeSales(bc *buildContext) salesScope {
	var scope salesScope
	field := bc.opts.DateField
	for _, o := range bc.input.Orders {
		date := e.localDate(o.Date(field))
		if !bc.opts.InRange(date) {
			continue
		}
		seg := bc.b2b.Classify(o.CustomerID)
		if !bc.opts.AcceptsSegment(seg) {
			continue
		}
		if o.IsComplimentary() {
			scope.complimentary++
			continue
		}

		items := make([]order.LineItem, 0, len(o.Items))
		for _, item := range o.Items {
			if item.IsComplimentary {
				continue
			}
			_, categoryID, _ := bc.itemLabels(item)
			if !bc.opts.CategoryAllowed(categoryID) && !bc.opts.CategoryAllowed(item.CategoryID) {
				continue
			}
			items = append(items, item)
		}
		if len(bc.opts.Categories) > 0 && len(items) == 0 {
			continue
		}

		scope.orders = append(scope.orders, scopedOrder{
			order:   o,
			totals:  o.Totals(),
			segment: seg,
			date:    date,
			items:   items,
		})
	}
	return scope
}

func (e *Engine) localDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	local := t.In(e.loc)
	return &local
}
