package router

import (
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/handler"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers served by the API
type Handlers struct {
	Report   *handler.ReportHandler
	Settings *handler.SettingsHandler
	System   *handler.SystemHandler
}

// EngineConfig carries what the middleware chain needs besides the handlers
type EngineConfig struct {
	App     config.AppConfig
	HTTP    config.HTTPConfig
	Tracing config.TelemetryConfig
	Logger  *zap.Logger
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
	// RateLimiter throttles /api/v1; nil disables rate limiting
	RateLimiter *limiter.Limiter
}

// NewEngine builds the gin engine with the middleware stack and every API route.
//
// Middleware order:
//  1. Recovery, then RequestID so panics are reported with an id
//  2. Tracing (server span and status marker) around everything below
//  3. Request logging, security headers, CORS
//  4. Request timeout and body size limit
//  5. HTTP metrics
//
// Outside production the API document is served under /swagger.
//
// Routes under /api/v1 additionally resolve the bakery, tag the span and apply the rate limit.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Tracing.Enabled
	if cfg.Tracing.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Tracing.ServiceName
	}

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(logger.Recovery(log), middleware.RequestID())
	engine.Use(middleware.Tracing(tracingCfg)...)
	engine.Use(
		logger.GinMiddleware(log, logger.SkipPaths("/health", "/api/v1/health", "/api/v1/system/ping")),
		middleware.SecureWithConfig(securityCfg),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
		middleware.HTTPMetrics(cfg.Meter, log),
	)

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if cfg.App.Env != "production" {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	bakeryCfg := middleware.DefaultBakeryConfig()
	bakeryCfg.Logger = log
	api := NewAPI("v1").Use(middleware.BakeryMiddlewareWithConfig(bakeryCfg), middleware.TracingAttributeInjector())
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter, log))
	}
	addRoutes(api, h)
	api.Mount(engine)
	log.Debug("API routes registered", zap.String("base", api.BasePath()), zap.Int("routes", len(api.Routes())))

	return engine
}

// addRoutes lays out the /api/v1 endpoints for the handlers that are set
func addRoutes(api *API, h Handlers) {
	if h.System != nil {
		api.Area("health", "/health").GET("", h.System.Health)
		api.Area("system", "/system").
			GET("/info", h.System.GetSystemInfo).
			GET("/ping", h.System.Ping)
	}
	if h.Report != nil {
		api.Area("report", "/reports").
			GET("/sales", h.Report.GetSalesReport).
			GET("/sales/overview", h.Report.GetSalesOverview).
			GET("/products", h.Report.GetProductReport).
			GET("/income-statement", h.Report.GetIncomeStatement).
			GET("/bundle", h.Report.GetReportBundle)
	}
	if h.Settings != nil {
		api.Area("settings", "/settings").
			GET("/reports", h.Settings.GetReportSettings).
			PUT("/reports", h.Settings.UpdateReportSettings)
	}
}
