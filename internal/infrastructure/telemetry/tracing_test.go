package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(span sdktrace.ReadOnlySpan) map[string]any {
	out := make(map[string]any)
	for _, attr := range span.Attributes() {
		out[string(attr.Key)] = attr.Value.AsInterface()
	}
	return out
}

func TestStartReportSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartReportSpan(context.Background(), "sales", "bakery-1")
	span.DateField("paymentDate")
	span.Built(42)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "report.sales", spans[0].Name())
	attrs := attrMap(spans[0])
	assert.Equal(t, "bakery-1", attrs["bakery_id"])
	assert.Equal(t, "sales", attrs["report_type"])
	assert.Equal(t, "paymentDate", attrs["report.date_field"])
	assert.Equal(t, int64(42), attrs["report.order_count"])
	assert.Equal(t, false, attrs["report.cache_hit"])
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestReportSpan_CacheHit(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartReportSpan(context.Background(), "products", "bakery-1")
	span.CacheHit()
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, true, attrMap(ended)["report.cache_hit"])
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "cache_hit", ended.Events()[0].Name)
}

func TestReportSpan_Fail(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartReportSpan(context.Background(), "income_statement", "bakery-1")
	span.Fail(errors.New("connection refused"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "connection refused", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)

	t.Run("nil error leaves status unset", func(t *testing.T) {
		_, span := telemetry.StartReportSpan(context.Background(), "sales", "bakery-1")
		span.Fail(nil)
		span.End()
		assert.Equal(t, codes.Unset, sr.Ended()[1].Status().Code)
	})
}

func TestReportSpan_Nil(t *testing.T) {
	var span *telemetry.ReportSpan
	assert.NotPanics(t, func() {
		span.DateField("dueDate")
		span.Built(1)
		span.CacheHit()
		span.Fail(errors.New("boom"))
		span.End()
	})
}

func TestReportSpan_Nested(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, parent := telemetry.StartReportSpan(context.Background(), "bundle", "bakery-1")
	_, child := telemetry.StartReportSpan(ctx, "sales", "bakery-1")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
}
