package cache

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReportCache stores finished report documents keyed by request
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Close() error
}

// ReportCacheFactory creates report caches based on configuration
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory
func NewReportCacheFactory(cfg config.RedisConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the cache the report settings ask for, or nil when caching is off.
// A redis backend that cannot be reached falls back to memory when allowed.
func (f *ReportCacheFactory) Create(ctx context.Context, cfg config.ReportConfig) (ReportCache, error) {
	if !cfg.CacheEnabled || cfg.CacheTTL <= 0 {
		f.logger.Info("Report cache disabled")
		return nil, nil
	}

	if cfg.CacheBackend == "memory" {
		f.logger.Info("Using in-memory report cache", zap.Duration("ttl", cfg.CacheTTL))
		return NewInMemoryReportCache(cfg.CacheTTL), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis report cache",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Duration("ttl", cfg.CacheTTL),
		)
		return NewRedisReportCache(client, cfg.CacheTTL), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis report cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
		"Cached reports will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryReportCache(cfg.CacheTTL), nil
}
