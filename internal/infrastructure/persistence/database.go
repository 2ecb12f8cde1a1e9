package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// Option configures how a Database is opened
type Option func(*dbOptions)

type dbOptions struct {
	logger        *zap.Logger
	logLevel      string
	slowThreshold time.Duration
	tracing       telemetry.DBTracingConfig
	prepareStmt   bool
}

// WithLogger routes GORM logs through zap at the given application log level
func WithLogger(l *zap.Logger, level string) Option {
	return func(o *dbOptions) {
		o.logger = l
		o.logLevel = level
	}
}

// WithSlowThreshold sets the duration above which queries are logged as slow
func WithSlowThreshold(d time.Duration) Option {
	return func(o *dbOptions) {
		o.slowThreshold = d
	}
}

// WithTracing installs otelgorm and slow query span annotations
func WithTracing(cfg telemetry.DBTracingConfig) Option {
	return func(o *dbOptions) {
		o.tracing = cfg
	}
}

// NewDatabase connects to the configured database and sizes its pool
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	var dialector gorm.Dialector
	prepare := false
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
		prepare = true
	}

	db, err := open(dialector, prepare, opts...)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.SQLDB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open wraps an already chosen dialector, such as an in-memory sqlite or a mocked connection
func Open(dialector gorm.Dialector, opts ...Option) (*Database, error) {
	return open(dialector, false, opts...)
}

func open(dialector gorm.Dialector, prepareStmt bool, opts ...Option) (*Database, error) {
	o := &dbOptions{
		logger:        zap.NewNop(),
		logLevel:      "silent",
		slowThreshold: 200 * time.Millisecond,
		prepareStmt:   prepareStmt,
	}
	for _, opt := range opts {
		opt(o)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(o.logger, o.logLevel, o.slowThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            o.prepareStmt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if o.tracing.DBSystem == "" {
		o.tracing.DBSystem = dialector.Name()
	}
	if err := telemetry.NewDBTracingPlugin(o.tracing, o.logger).Register(db); err != nil {
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the reporting tables from the models.
// Postgres deployments use the versioned migrations instead.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(models.All()...)
}

// SQLDB returns the underlying connection pool
func (d *Database) SQLDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithBakery returns a GORM DB scoped to one bakery's rows.
// Panics if bakeryID is empty to prevent reading across bakeries.
func (d *Database) WithBakery(ctx context.Context, bakeryID string) *gorm.DB {
	if bakeryID == "" {
		panic("WithBakery called with empty bakery ID - this is a programming error")
	}
	return d.DB.WithContext(ctx).Where("bakery_id = ?", bakeryID)
}
