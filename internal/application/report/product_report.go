package report

import (
	"sort"

	"github.com/bakery/backend/internal/domain/report"
)

// BuildProductReport lists every reportable product, sorted by category then name
func (e *Engine) BuildProductReport(in Input, opts report.Options) *report.ProductReport {
	bc := e.newBuildContext(in, opts)
	scope := e.scopeSales(bc)
	pa := e.aggregateProducts(bc, scope)
	metrics := bc.opts.Metrics

	rows := make([]report.ProductRow, 0, len(pa.sorted))
	for _, agg := range pa.sorted {
		row := report.ProductRow{
			ProductID:    agg.ProductID,
			Name:         agg.Name,
			CategoryID:   agg.CategoryID,
			CategoryName: agg.CategoryName,
			Totals:       report.NewProductFigures(agg.Figures, metrics),
		}
		if bc.opts.SplitSegments() {
			b2b := report.NewProductFigures(segmentOf(agg, report.SegmentB2B), metrics)
			b2c := report.NewProductFigures(segmentOf(agg, report.SegmentB2C), metrics)
			row.B2B, row.B2C = &b2b, &b2c
		}
		if len(agg.Periods) > 0 {
			row.Periods = periodRows(agg, metrics)
		}
		rows = append(rows, row)
	}

	totals := pa.totals()
	summary := report.ProductReportSummary{
		TotalProducts:     len(rows),
		ProductsWithSales: pa.withSales(),
		TotalQuantity:     totals.Quantity,
		TotalRevenue:      totals.Revenue,
	}
	if bc.opts.SplitSegments() {
		b2b := report.NewProductFigures(pa.segmentTotals(report.SegmentB2B), metrics)
		b2c := report.NewProductFigures(pa.segmentTotals(report.SegmentB2C), metrics)
		summary.B2B, summary.B2C = &b2b, &b2c
	}

	return &report.ProductReport{
		Metadata: e.metadata(bc, ReportTypeProducts, len(scope.orders)),
		Products: rows,
		Summary:  summary,
	}
}

func periodRows(agg *report.ProductAggregate, metrics report.Metrics) []report.PeriodFigures {
	keys := make([]string, 0, len(agg.Periods))
	for k := range agg.Periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]report.PeriodFigures, 0, len(keys))
	for _, k := range keys {
		out = append(out, report.PeriodFigures{
			Key:            k,
			ProductFigures: report.NewProductFigures(*agg.Periods[k], metrics),
		})
	}
	return out
}
