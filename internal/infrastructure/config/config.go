package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Report    ReportConfig    `mapstructure:"report"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig selects postgres or a local sqlite file
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig is shared by the report cache and the rate limit store
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port Redis listens on
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	MaxBodyBytes     int64         `mapstructure:"max_body_bytes"`
	RateLimitEnabled bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRate    string        `mapstructure:"rate_limit_rate"`    // ulule/limiter format, e.g. "120-M"
	RateLimitBackend string        `mapstructure:"rate_limit_backend"` // memory or redis
}

// ReportConfig holds report engine settings
type ReportConfig struct {
	DefaultDateField string        `mapstructure:"default_date_field"` // dueDate, paymentDate or preparationDate
	Timezone         string        `mapstructure:"timezone"`           // IANA zone period keys are computed in
	Language         string        `mapstructure:"language"`           // BCP 47 tag for name collation
	TopN             int           `mapstructure:"top_n"`              // length of best and lowest seller lists
	CacheEnabled     bool          `mapstructure:"cache_enabled"`
	CacheBackend     string        `mapstructure:"cache_backend"` // redis or memory
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

// Location loads the configured time zone
func (r ReportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// LanguageTag parses the configured collation language
func (r ReportConfig) LanguageTag() (language.Tag, error) {
	return language.Parse(r.Language)
}

// TelemetryConfig holds OpenTelemetry configuration.
// Enabled turns on trace export; metrics and logs have their own switches.
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"` // plaintext gRPC, development only
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"` // query variables in spans
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`

	ProfilingEnabled     bool     `mapstructure:"profiling_enabled"`
	ProfilerAddress      string   `mapstructure:"profiler_address"` // e.g. http://pyroscope:4040
	ProfilerAuthUser     string   `mapstructure:"profiler_auth_user"`
	ProfilerAuthPassword string   `mapstructure:"profiler_auth_password"`
	ProfileTypes         []string `mapstructure:"profile_types"`
}

// defaults doubles as the list of known keys, so every key that may come
// from the environment needs an entry here, even an empty one.
var defaults = map[string]any{
	"app.name": "bakery-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "bakery",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "bakery.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,

	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":     15 * time.Second,
	"http.write_timeout":    30 * time.Second,
	"http.idle_timeout":     time.Minute,
	"http.shutdown_timeout": 10 * time.Second,
	"http.max_header_bytes": 1 << 20,
	"http.request_timeout":  25 * time.Second,

	// cross-origin requests stay blocked until origins are configured
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "PUT", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "X-Bakery-ID"},
	"http.trusted_proxies":    []string{},
	"http.max_body_bytes":     64 << 10,
	"http.rate_limit_enabled": false,
	"http.rate_limit_rate":    "120-M",
	"http.rate_limit_backend": "memory",

	"report.default_date_field": "dueDate",
	"report.timezone":           "UTC",
	"report.language":           "es",
	"report.top_n":              10,
	"report.cache_enabled":      false,
	"report.cache_backend":      "redis",
	"report.cache_ttl":          5 * time.Minute,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "bakery-backend",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.profiling_enabled":       false,
	"telemetry.profiler_address":        "",
	"telemetry.profiler_auth_user":      "",
	"telemetry.profiler_auth_password":  "",
	"telemetry.profile_types":           []string{"cpu", "alloc_space", "inuse_space", "goroutines"},
}

// Load reads config.toml from the working directory or /app and overlays
// BAKERY_ prefixed environment variables (BAKERY_DATABASE_PASSWORD sets database.password).
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("BAKERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// oneOf reports whether v is among allowed
func oneOf(v string, allowed ...string) bool {
	return slices.Contains(allowed, v)
}

// validate reports every problem at once
func (c *Config) validate() error {
	production := c.App.Env == "production"
	return errors.Join(
		c.Database.validate(production),
		c.Report.validate(),
		c.HTTP.validate(production),
		c.Telemetry.validate(production),
	)
}

func (d DatabaseConfig) validate(production bool) error {
	var errs []error
	if !oneOf(d.Driver, "postgres", "sqlite") {
		errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", d.Driver))
	}
	switch {
	case d.MaxOpenConns <= 0:
		errs = append(errs, errors.New("database.max_open_conns must be positive"))
	case d.MaxIdleConns < 0:
		errs = append(errs, errors.New("database.max_idle_conns cannot be negative"))
	case d.MaxIdleConns > d.MaxOpenConns:
		errs = append(errs, fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns))
	}
	if production && d.Driver == "postgres" {
		if d.Password == "" {
			errs = append(errs, errors.New("database.password is required in production"))
		}
		if d.SSLMode == "disable" {
			errs = append(errs, errors.New("database.sslmode cannot be 'disable' in production"))
		}
	}
	return errors.Join(errs...)
}

func (r ReportConfig) validate() error {
	var errs []error
	if !oneOf(r.DefaultDateField, "dueDate", "paymentDate", "preparationDate") {
		errs = append(errs, fmt.Errorf("report.default_date_field must be dueDate, paymentDate or preparationDate, got %q", r.DefaultDateField))
	}
	if _, err := r.Location(); err != nil {
		errs = append(errs, fmt.Errorf("report.timezone is invalid: %w", err))
	}
	if _, err := r.LanguageTag(); err != nil {
		errs = append(errs, fmt.Errorf("report.language is invalid: %w", err))
	}
	if r.TopN < 0 {
		errs = append(errs, errors.New("report.top_n cannot be negative"))
	}
	if !oneOf(r.CacheBackend, "redis", "memory") {
		errs = append(errs, fmt.Errorf("report.cache_backend must be redis or memory, got %q", r.CacheBackend))
	}
	if r.CacheTTL < 0 {
		errs = append(errs, errors.New("report.cache_ttl cannot be negative"))
	}
	return errors.Join(errs...)
}

func (h HTTPConfig) validate(production bool) error {
	var errs []error
	if !oneOf(h.RateLimitBackend, "redis", "memory") {
		errs = append(errs, fmt.Errorf("http.rate_limit_backend must be redis or memory, got %q", h.RateLimitBackend))
	}
	for _, origin := range h.CORSAllowOrigins {
		switch {
		case origin == "*" && production:
			errs = append(errs, errors.New("http.cors_allow_origins cannot be '*' in production (use specific origins)"))
		case origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://"):
			errs = append(errs, fmt.Errorf("http.cors_allow_origins entry %q must start with http:// or https://", origin))
		}
	}
	if h.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("http.max_body_bytes cannot be negative"))
	}
	return errors.Join(errs...)
}

func (t TelemetryConfig) validate(production bool) error {
	var errs []error
	if production && t.DBLogFullSQL {
		errs = append(errs, errors.New("telemetry.db_log_full_sql must be false in production"))
	}
	if t.ProfilingEnabled && t.ProfilerAddress == "" {
		errs = append(errs, errors.New("telemetry.profiler_address is required when profiling is enabled"))
	}
	if t.SamplingRatio < 0 || t.SamplingRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", t.SamplingRatio))
	}
	return errors.Join(errs...)
}

// DSN is the sqlite file path, or an escaped postgres URL
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
