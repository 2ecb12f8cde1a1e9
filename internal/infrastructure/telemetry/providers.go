// Package telemetry wires OpenTelemetry traces, metrics and logs plus Pyroscope profiles.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultMetricsInterval = time.Minute
	shutdownTimeout        = 10 * time.Second
)

// Settings selects which signals are exported and where
type Settings struct {
	ServiceName     string
	ServiceVersion  string
	Environment     string
	Endpoint        string
	Insecure        bool
	Traces          bool
	SamplingRatio   float64
	Metrics         bool
	MetricsInterval time.Duration
	Logs            bool
	Profiling       ProfilingSettings
}

// SettingsFromConfig maps the loaded configuration onto Settings
func SettingsFromConfig(app config.AppConfig, tc config.TelemetryConfig, version string) Settings {
	return Settings{
		ServiceName:     tc.ServiceName,
		ServiceVersion:  version,
		Environment:     app.Env,
		Endpoint:        tc.CollectorEndpoint,
		Insecure:        tc.Insecure,
		Traces:          tc.Enabled,
		SamplingRatio:   tc.SamplingRatio,
		Metrics:         tc.MetricsEnabled,
		MetricsInterval: tc.MetricsInterval,
		Logs:            tc.LogsEnabled,
		Profiling: ProfilingSettings{
			Enabled:       tc.ProfilingEnabled,
			ServerAddress: tc.ProfilerAddress,
			AuthUser:      tc.ProfilerAuthUser,
			AuthPassword:  tc.ProfilerAuthPassword,
			Types:         tc.ProfileTypes,
		},
	}
}

// Providers owns the SDK pipelines for every enabled signal and the profiler.
// A disabled signal leaves the global no-op provider in place.
type Providers struct {
	settings Settings
	logger   *zap.Logger
	tracer   *sdktrace.TracerProvider
	meter    *sdkmetric.MeterProvider
	logs     *sdklog.LoggerProvider
	profiler *pyroscope.Profiler
}

// Setup starts the exporters requested by s and registers them globally.
// Pipelines already started are shut down when a later one fails.
func Setup(ctx context.Context, s Settings, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Providers{settings: s, logger: logger}
	if !s.Traces && !s.Metrics && !s.Logs && !s.Profiling.Enabled {
		logger.Info("Telemetry export disabled")
		return p, nil
	}

	res, err := newResource(s)
	if err != nil {
		return nil, err
	}

	if s.Traces {
		if err := p.startTraces(ctx, res); err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
	}
	if s.Metrics {
		if err := p.startMetrics(ctx, res); err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
	}
	if s.Logs {
		if err := p.startLogs(ctx, res); err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
	}
	if s.Profiling.Enabled {
		if p.profiler, err = startProfiler(s, logger); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to start profiler: %w", err), p.Shutdown(ctx))
		}
		if p.tracer != nil {
			// CPU samples get a span_id label so profiles can be opened from a trace
			otel.SetTracerProvider(otelpyroscope.NewTracerProvider(p.tracer))
		}
	}

	logger.Info("Telemetry export enabled",
		zap.String("endpoint", s.Endpoint),
		zap.Bool("traces", p.tracer != nil),
		zap.Bool("metrics", p.meter != nil),
		zap.Bool("logs", p.logs != nil),
		zap.Bool("profiling", p.profiler != nil),
	)
	return p, nil
}

func (p *Providers) startTraces(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(p.settings.Endpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	p.tracer = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(samplerFor(p.settings.SamplingRatio))),
	)
	otel.SetTracerProvider(p.tracer)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func (p *Providers) startMetrics(ctx context.Context, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(p.settings.Endpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	interval := p.settings.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}
	p.meter = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(p.meter)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(p.settings.Endpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(p.logs)
	return nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1.0:
		return sdktrace.AlwaysSample()
	case ratio <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

func newResource(s Settings) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(s.ServiceName)}
	if s.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(s.ServiceVersion))
	}
	if s.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentName(s.Environment))
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// Meter returns a meter from the exporting provider, or the global one when metrics are off
func (p *Providers) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.meter == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return p.meter.Meter(name, opts...)
}

// TracesEnabled reports whether spans are exported
func (p *Providers) TracesEnabled() bool { return p.tracer != nil }

// MetricsEnabled reports whether metrics are exported
func (p *Providers) MetricsEnabled() bool { return p.meter != nil }

// LogsEnabled reports whether zap entries are bridged to the collector
func (p *Providers) LogsEnabled() bool { return p.logs != nil }

// ProfilingEnabled reports whether profiles are pushed to Pyroscope
func (p *Providers) ProfilingEnabled() bool { return p.profiler != nil }

// Logger tees base with the OTEL log bridge when logs are exported.
// Entries below level are kept out of the bridge.
func (p *Providers) Logger(base zapcore.Core, level zapcore.Level, opts ...zap.Option) *zap.Logger {
	if p.logs == nil {
		return zap.New(base, opts...)
	}
	return NewBridgedLogger(base, newBridgeCore(p.settings.ServiceName, p.logs, level), opts...)
}

// Shutdown flushes and stops every running pipeline, joining their errors
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
		p.tracer = nil
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
		p.meter = nil
	}
	if p.logs != nil {
		if err := p.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger provider: %w", err))
		}
		p.logs = nil
	}
	if p.profiler != nil {
		// pyroscope's Stop takes no context
		if err := p.profiler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("profiler: %w", err))
		}
		p.profiler = nil
	}
	if len(errs) > 0 {
		p.logger.Error("Telemetry shutdown incomplete", zap.Errors("errors", errs))
	}
	return errors.Join(errs...)
}
