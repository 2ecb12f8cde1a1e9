package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is created without a meter.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Attribute keys shared by the HTTP, database and report instruments.
var (
	AttrBakeryID   = attribute.Key("bakery_id")
	AttrReportType = attribute.Key("report_type")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBState = attribute.Key("db.pool.state")
)

// Bucket boundaries in seconds
var (
	HTTPDurationBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	BuildDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5}
)

// Instruments creates instruments on one meter and remembers every failure,
// so a metrics set is declared as a flat list and checked once with Err.
//
//	in := telemetry.NewInstruments(meter)
//	hits := in.Counter("cache_hits_total", "Cache hits", "{hit}")
//	if err := in.Err(); err != nil { ... }
//
// Instruments returned after a failure are still safe to use.
type Instruments struct {
	meter metric.Meter
	errs  []error
}

func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

// Err reports every instrument that could not be created
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

func (in *Instruments) fail(kind, name string, err error) {
	in.errs = append(in.errs, fmt.Errorf("create %s %s: %w", kind, name, err))
}

// Counter is a monotonic int64 sum
type Counter struct {
	c metric.Int64Counter
}

func (in *Instruments) Counter(name, description, unit string) *Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail("counter", name, err)
	}
	return &Counter{c: c}
}

func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if c.c != nil {
		c.c.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// UpDownCounter tracks a value that rises and falls, such as in-flight requests
type UpDownCounter struct {
	c metric.Int64UpDownCounter
}

func (in *Instruments) UpDownCounter(name, description, unit string) *UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail("up-down counter", name, err)
	}
	return &UpDownCounter{c: c}
}

func (c *UpDownCounter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if c.c != nil {
		c.c.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

// Histogram is a float64 distribution; durations are recorded in seconds
type Histogram struct {
	h metric.Float64Histogram
}

// Histogram uses the SDK default buckets when no boundaries are given
func (in *Instruments) Histogram(name, description, unit string, boundaries ...float64) *Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	if err != nil {
		in.fail("histogram", name, err)
	}
	return &Histogram{h: h}
}

func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	if h.h != nil {
		h.h.Record(ctx, v, metric.WithAttributes(attrs...))
	}
}

func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// ObservableGauge is read by a callback registered with Observe
func (in *Instruments) ObservableGauge(name, description, unit string) metric.Int64ObservableGauge {
	g, err := in.meter.Int64ObservableGauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail("observable gauge", name, err)
	}
	return g
}

// ObservableCounter is a monotonic sum read by a callback registered with Observe
func (in *Instruments) ObservableCounter(name, description, unit string) metric.Int64ObservableCounter {
	c, err := in.meter.Int64ObservableCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail("observable counter", name, err)
	}
	return c
}

// Observe registers fn to run on every collection of the given instruments.
// It returns nil when an earlier instrument failed.
func (in *Instruments) Observe(fn metric.Callback, observables ...metric.Observable) metric.Registration {
	if len(in.errs) > 0 {
		return nil
	}
	reg, err := in.meter.RegisterCallback(fn, observables...)
	if err != nil {
		in.fail("callback", "observe", err)
		return nil
	}
	return reg
}
