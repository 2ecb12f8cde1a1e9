package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQuery  = 200 * time.Millisecond
	queryStartSetting = "bakery:query_start"
)

// DBTracingConfig controls query spans
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound variables in db.statement; development only
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	// DBSystem names the database in span attributes, "postgresql" or "sqlite"
	DBSystem string
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// DBTracingPlugin is a gorm.Plugin that installs otelgorm and tags read
// spans with row counts, the table and a slow_query marker. Reporting only
// reads, so writes get otelgorm spans without the extra attributes.
type DBTracingPlugin struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = defaultSlowQuery
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{cfg: cfg, logger: logger}
}

func (p *DBTracingPlugin) Name() string { return "bakery:db_tracing" }

// Register installs the plugin when tracing is enabled
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.cfg.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}
	return db.Use(p)
}

// Initialize is called by gorm.DB.Use
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(p.cfg.DBSystem)}
	if !p.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// annotations must land before otelgorm ends the span
	cb := db.Callback()
	err := errors.Join(
		cb.Query().Before("gorm:query").Register(p.Name()+":start_query", startQueryTimer),
		cb.Query().After("gorm:query").Before("otel:after:select").Register(p.Name()+":annotate_query", p.annotate),
		cb.Row().Before("gorm:row").Register(p.Name()+":start_row", startQueryTimer),
		cb.Row().After("gorm:row").Before("otel:after:row").Register(p.Name()+":annotate_row", p.annotate),
		cb.Raw().Before("gorm:raw").Register(p.Name()+":start_raw", startQueryTimer),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register(p.Name()+":annotate_raw", p.annotate),
	)
	if err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.cfg.DBSystem),
		zap.Bool("full_sql", p.cfg.LogFullSQL),
		zap.Duration("slow_query", p.cfg.SlowQueryThresh),
	)
	return nil
}

func startQueryTimer(db *gorm.DB) {
	db.InstanceSet(queryStartSetting, time.Now())
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Context == nil {
		return
	}
	span := trace.SpanFromContext(stmt.Context)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", stmt.RowsAffected)}
	if stmt.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", stmt.Table))
	}
	if v, ok := db.InstanceGet(queryStartSetting); ok {
		if elapsed := time.Since(v.(time.Time)); elapsed > p.cfg.SlowQueryThresh {
			attrs = append(attrs,
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("threshold_ms", p.cfg.SlowQueryThresh.Milliseconds()),
			))
		}
	}
	span.SetAttributes(attrs...)

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
