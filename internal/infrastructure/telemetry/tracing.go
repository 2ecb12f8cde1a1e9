package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for report spans
const TracerName = "github.com/bakery/backend/report"

// Span attribute keys for report builds. Metric attribute keys live in metrics.go.
const (
	SpanAttrBakeryID   = attribute.Key("bakery_id")
	SpanAttrReportType = attribute.Key("report_type")
	SpanAttrOrderCount = attribute.Key("report.order_count")
	SpanAttrDateField  = attribute.Key("report.date_field")
	SpanAttrCacheHit   = attribute.Key("report.cache_hit")
)

// ReportSpan covers one report request from validation to the finished document.
// A nil ReportSpan is valid and records nothing.
type ReportSpan struct {
	span trace.Span
}

// StartReportSpan starts a span named "report.<reportType>" on the global tracer provider.
// The caller must call End.
func StartReportSpan(ctx context.Context, reportType, bakeryID string) (context.Context, *ReportSpan) {
	ctx, span := otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "report."+reportType,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			SpanAttrReportType.String(reportType),
			SpanAttrBakeryID.String(bakeryID),
		),
	)
	return ctx, &ReportSpan{span: span}
}

// DateField records the date field the report was filtered and bucketed on
func (s *ReportSpan) DateField(field string) {
	if s == nil {
		return
	}
	s.span.SetAttributes(SpanAttrDateField.String(field))
}

// Built records how many orders went into the document
func (s *ReportSpan) Built(orderCount int) {
	if s == nil {
		return
	}
	s.span.SetAttributes(SpanAttrOrderCount.Int(orderCount), SpanAttrCacheHit.Bool(false))
}

// CacheHit marks the document as served from the result cache
func (s *ReportSpan) CacheHit() {
	if s == nil {
		return
	}
	s.span.SetAttributes(SpanAttrCacheHit.Bool(true))
	s.span.AddEvent("cache_hit")
}

// Fail records err and marks the span as failed. A nil err is ignored.
func (s *ReportSpan) Fail(err error) {
	if s == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End finishes the span
func (s *ReportSpan) End() {
	if s == nil {
		return
	}
	s.span.End()
}
