package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	_ "github.com/bakery/backend/docs"
	reportapp "github.com/bakery/backend/internal/application/report"
	settingsapp "github.com/bakery/backend/internal/application/settings"
	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/infrastructure/cache"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/persistence"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/bakery/backend/internal/interfaces/http/handler"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/bakery/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Bakery Reporting API
//	@version		1.0
//	@description	Sales, product and income reports computed from bakery orders

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	baseCore, err := logger.NewCore(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	bootLog := zap.New(baseCore, logger.Options()...)

	providers, err := telemetry.Setup(ctx, telemetry.SettingsFromConfig(cfg.App, cfg.Telemetry, version), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := providers.Logger(baseCore, logger.ParseLevel(cfg.Log.Level), logger.Options()...)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting bakery reporting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, cfg.Log.Level),
		persistence.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		persistence.WithTracing(telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.DBTraceEnabled,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem(cfg.Database.Driver),
		}),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		// postgres schemas are owned by cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	meter := providers.Meter(cfg.Telemetry.ServiceName)
	if sqlDB, err := db.SQLDB(); err == nil {
		poolMetrics, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB)
		if err != nil {
			log.Warn("Database pool metrics disabled", zap.Error(err))
		} else if poolMetrics != nil {
			defer func() { _ = poolMetrics.Unregister() }()
		}
	}

	loc, err := cfg.Report.Location()
	if err != nil {
		log.Fatal("Invalid report timezone", zap.String("timezone", cfg.Report.Timezone), zap.Error(err))
	}
	lang, err := cfg.Report.LanguageTag()
	if err != nil {
		log.Fatal("Invalid report language", zap.String("language", cfg.Report.Language), zap.Error(err))
	}
	fallbackField := order.DateField(cfg.Report.DefaultDateField)

	orderRepo := persistence.NewGormOrderRepository(db, log)
	productRepo := persistence.NewGormProductRepository(db, log)
	clientRepo := persistence.NewGormClientRepository(db)
	settingsRepo := persistence.NewGormSettingsRepository(db, log)

	serviceOpts := []reportapp.ServiceOption{
		reportapp.WithLogger(log),
		reportapp.WithDefaultDateField(fallbackField),
	}
	reportCache, err := cache.NewReportCacheFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx, cfg.Report)
	if err != nil {
		log.Fatal("Failed to initialize report cache", zap.Error(err))
	}
	if reportCache != nil {
		defer reportCache.Close()
		serviceOpts = append(serviceOpts, reportapp.WithCache(reportCache))
	}
	reportMetrics, err := telemetry.NewReportMetrics(meter)
	if err != nil {
		log.Warn("Report metrics disabled", zap.Error(err))
	} else {
		serviceOpts = append(serviceOpts, reportapp.WithMetrics(reportMetrics))
	}

	engine := reportapp.NewEngine(reportapp.EngineConfig{
		TopN:     cfg.Report.TopN,
		Language: lang,
		Location: loc,
	})
	reportService := reportapp.NewReportService(orderRepo, clientRepo, productRepo, settingsRepo, engine, serviceOpts...)
	settingsService := settingsapp.NewSettingsService(settingsRepo, fallbackField, log)

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}

	var rateLimiter *limiter.Limiter
	if cfg.HTTP.RateLimitEnabled {
		var limiterRedis *redis.Client
		if cfg.HTTP.RateLimitBackend == "redis" {
			limiterRedis, err = cache.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				log.Fatal("Rate limit store unavailable", zap.Error(err))
			}
			defer limiterRedis.Close()
			checks = append(checks, handler.HealthCheck{
				Name:  "redis",
				Check: func(ctx context.Context) error { return limiterRedis.Ping(ctx).Err() },
			})
		}
		rateLimiter, err = middleware.NewRateLimiter(cfg.HTTP.RateLimitRate, cfg.HTTP.RateLimitBackend, limiterRedis)
		if err != nil {
			log.Fatal("Failed to initialize rate limiter", zap.Error(err))
		}
		log.Info("Rate limiting enabled",
			zap.String("rate", cfg.HTTP.RateLimitRate),
			zap.String("backend", cfg.HTTP.RateLimitBackend),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	httpEngine := router.NewEngine(router.EngineConfig{
		App:         cfg.App,
		HTTP:        cfg.HTTP,
		Tracing:     cfg.Telemetry,
		Logger:      log,
		Meter:       meter,
		RateLimiter: rateLimiter,
	}, router.Handlers{
		Report:   handler.NewReportHandler(reportService, loc),
		Settings: handler.NewSettingsHandler(settingsService),
		System:   handler.NewSystemHandler(cfg.App.Name, version, checks...),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        httpEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully", zap.Duration("grace", cfg.HTTP.ShutdownTimeout))
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
