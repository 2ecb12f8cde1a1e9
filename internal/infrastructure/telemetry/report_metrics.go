package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ReportMetrics counts report builds and cache hits by report type.
// A nil *ReportMetrics records nothing.
type ReportMetrics struct {
	builds    *Counter
	orders    *Counter
	duration  *Histogram
	cacheHits *Counter
}

func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	in := NewInstruments(meter)
	rm := &ReportMetrics{
		builds:    in.Counter("bakery_report_builds_total", "Report documents built", "{report}"),
		orders:    in.Counter("bakery_report_orders_total", "Orders folded into built reports", "{order}"),
		duration:  in.Histogram("bakery_report_build_duration_seconds", "Time to load inputs and build one report", "s", BuildDurationBuckets...),
		cacheHits: in.Counter("bakery_report_cache_hits_total", "Reports served from cache", "{report}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return rm, nil
}

// RecordBuild records one finished build over the given number of orders
func (rm *ReportMetrics) RecordBuild(ctx context.Context, reportType string, orders int, elapsed time.Duration) {
	if rm == nil {
		return
	}
	kind := AttrReportType.String(reportType)
	rm.builds.Inc(ctx, kind)
	rm.orders.Add(ctx, int64(orders), kind)
	rm.duration.RecordDuration(ctx, elapsed, kind)
}

func (rm *ReportMetrics) RecordCacheHit(ctx context.Context, reportType string) {
	if rm == nil {
		return
	}
	rm.cacheHits.Inc(ctx, AttrReportType.String(reportType))
}
