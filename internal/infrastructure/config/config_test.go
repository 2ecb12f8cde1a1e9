package config

import (
	"os"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var configEnvKeys = []string{
	"BAKERY_APP_NAME",
	"BAKERY_APP_ENV",
	"BAKERY_APP_PORT",
	"BAKERY_DATABASE_DRIVER",
	"BAKERY_DATABASE_HOST",
	"BAKERY_DATABASE_PORT",
	"BAKERY_DATABASE_USER",
	"BAKERY_DATABASE_PASSWORD",
	"BAKERY_DATABASE_DBNAME",
	"BAKERY_DATABASE_SSLMODE",
	"BAKERY_DATABASE_SQLITE_PATH",
	"BAKERY_DATABASE_MAX_OPEN_CONNS",
	"BAKERY_DATABASE_MAX_IDLE_CONNS",
	"BAKERY_DATABASE_CONN_MAX_LIFETIME",
	"BAKERY_HTTP_CORS_ALLOW_ORIGINS",
	"BAKERY_HTTP_RATE_LIMIT_BACKEND",
	"BAKERY_HTTP_MAX_BODY_BYTES",
	"BAKERY_REPORT_DEFAULT_DATE_FIELD",
	"BAKERY_REPORT_TIMEZONE",
	"BAKERY_REPORT_LANGUAGE",
	"BAKERY_REPORT_TOP_N",
	"BAKERY_REPORT_CACHE_BACKEND",
	"BAKERY_REPORT_CACHE_TTL",
	"BAKERY_TELEMETRY_SAMPLING_RATIO",
	"BAKERY_TELEMETRY_DB_LOG_FULL_SQL",
	"BAKERY_TELEMETRY_PROFILING_ENABLED",
}

// isolateEnv unsets every key the tests touch until t ends. The returned
// func unsets them again between subtests.
func isolateEnv(t *testing.T) func() {
	t.Helper()
	unset := func() {
		for _, k := range configEnvKeys {
			os.Unsetenv(k)
		}
	}
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
	unset()
	return unset
}

func TestLoad(t *testing.T) {
	clearEnv := isolateEnv(t)

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "bakery-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "bakery", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, "dueDate", cfg.Report.DefaultDateField)
		assert.Equal(t, "UTC", cfg.Report.Timezone)
		assert.Equal(t, "es", cfg.Report.Language)
		assert.Equal(t, 10, cfg.Report.TopN)
		assert.Equal(t, "redis", cfg.Report.CacheBackend)
		assert.Equal(t, 5*time.Minute, cfg.Report.CacheTTL)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Bakery-ID")
		assert.Equal(t, int64(64<<10), cfg.HTTP.MaxBodyBytes)
		assert.False(t, cfg.HTTP.RateLimitEnabled)
		assert.Equal(t, "120-M", cfg.HTTP.RateLimitRate)
		assert.Equal(t, "memory", cfg.HTTP.RateLimitBackend)
	})

	t.Run("loads values from environment variables with BAKERY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BAKERY_APP_NAME", "panaderia")
		os.Setenv("BAKERY_APP_PORT", "9000")
		os.Setenv("BAKERY_DATABASE_HOST", "db.local")
		os.Setenv("BAKERY_DATABASE_PORT", "5433")
		os.Setenv("BAKERY_DATABASE_PASSWORD", "secret")
		os.Setenv("BAKERY_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("BAKERY_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("BAKERY_REPORT_DEFAULT_DATE_FIELD", "paymentDate")
		os.Setenv("BAKERY_REPORT_TIMEZONE", "America/Bogota")
		os.Setenv("BAKERY_REPORT_LANGUAGE", "es-CO")
		os.Setenv("BAKERY_REPORT_TOP_N", "5")
		os.Setenv("BAKERY_REPORT_CACHE_BACKEND", "memory")
		os.Setenv("BAKERY_REPORT_CACHE_TTL", "90s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "panaderia", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "secret", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "paymentDate", cfg.Report.DefaultDateField)
		assert.Equal(t, 5, cfg.Report.TopN)
		assert.Equal(t, "memory", cfg.Report.CacheBackend)
		assert.Equal(t, 90*time.Second, cfg.Report.CacheTTL)

		loc, err := cfg.Report.Location()
		require.NoError(t, err)
		assert.Equal(t, "America/Bogota", loc.String())

		tag, err := cfg.Report.LanguageTag()
		require.NoError(t, err)
		base, _ := tag.Base()
		assert.Equal(t, language.MustParseBase("es"), base)
	})

	t.Run("environment overrides lists and durations", func(t *testing.T) {
		clearEnv()
		os.Setenv("BAKERY_HTTP_CORS_ALLOW_ORIGINS", "https://panaderia.cl,https://admin.panaderia.cl")
		os.Setenv("BAKERY_DATABASE_CONN_MAX_LIFETIME", "15m")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://panaderia.cl", "https://admin.panaderia.cl"}, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, 15*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxIdleTime)
	})

	t.Run("sqlite driver uses file path as DSN", func(t *testing.T) {
		clearEnv()
		os.Setenv("BAKERY_DATABASE_DRIVER", "sqlite")
		os.Setenv("BAKERY_DATABASE_SQLITE_PATH", "/tmp/bakery.db")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/bakery.db", cfg.Database.DSN())
	})
}

func TestLoad_Validation(t *testing.T) {
	clearEnv := isolateEnv(t)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown database driver",
			env:     map[string]string{"BAKERY_DATABASE_DRIVER": "mysql"},
			wantErr: "database.driver must be postgres or sqlite",
		},
		{
			name: "idle connections exceed open connections",
			env: map[string]string{
				"BAKERY_DATABASE_MAX_OPEN_CONNS": "10",
				"BAKERY_DATABASE_MAX_IDLE_CONNS": "20",
			},
			wantErr: "cannot exceed",
		},
		{
			name:    "zero open connections",
			env:     map[string]string{"BAKERY_DATABASE_MAX_OPEN_CONNS": "0"},
			wantErr: "max_open_conns must be positive",
		},
		{
			name:    "negative idle connections",
			env:     map[string]string{"BAKERY_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "unknown date field",
			env:     map[string]string{"BAKERY_REPORT_DEFAULT_DATE_FIELD": "createdAt"},
			wantErr: "report.default_date_field",
		},
		{
			name:    "unknown timezone",
			env:     map[string]string{"BAKERY_REPORT_TIMEZONE": "Mars/Olympus"},
			wantErr: "report.timezone is invalid",
		},
		{
			name:    "malformed language",
			env:     map[string]string{"BAKERY_REPORT_LANGUAGE": "abcdefghijk"},
			wantErr: "report.language is invalid",
		},
		{
			name:    "negative top n",
			env:     map[string]string{"BAKERY_REPORT_TOP_N": "-3"},
			wantErr: "report.top_n cannot be negative",
		},
		{
			name:    "unknown cache backend",
			env:     map[string]string{"BAKERY_REPORT_CACHE_BACKEND": "memcached"},
			wantErr: "report.cache_backend",
		},
		{
			name:    "unknown rate limit backend",
			env:     map[string]string{"BAKERY_HTTP_RATE_LIMIT_BACKEND": "etcd"},
			wantErr: "http.rate_limit_backend",
		},
		{
			name:    "origin without scheme",
			env:     map[string]string{"BAKERY_HTTP_CORS_ALLOW_ORIGINS": "panaderia.cl"},
			wantErr: "must start with http",
		},
		{
			name:    "negative body limit",
			env:     map[string]string{"BAKERY_HTTP_MAX_BODY_BYTES": "-1"},
			wantErr: "http.max_body_bytes cannot be negative",
		},
		{
			name:    "profiling without server",
			env:     map[string]string{"BAKERY_TELEMETRY_PROFILING_ENABLED": "true"},
			wantErr: "profiler_address is required",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"BAKERY_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	clearEnv := isolateEnv(t)
	clearEnv()
	os.Setenv("BAKERY_DATABASE_DRIVER", "mysql")
	os.Setenv("BAKERY_REPORT_TOP_N", "-1")
	os.Setenv("BAKERY_TELEMETRY_SAMPLING_RATIO", "2")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "database.driver must be postgres or sqlite")
	assert.Contains(t, err.Error(), "report.top_n cannot be negative")
	assert.Contains(t, err.Error(), "sampling_ratio must be between")
}

func TestLoad_ProductionValidation(t *testing.T) {
	clearEnv := isolateEnv(t)
	production := map[string]string{
		"BAKERY_APP_ENV":           "production",
		"BAKERY_DATABASE_PASSWORD": "secure-password",
		"BAKERY_DATABASE_SSLMODE":  "require",
	}

	tests := []struct {
		name     string
		override map[string]string
		wantErr  string
	}{
		{"valid production config", nil, ""},
		{"password required", map[string]string{"BAKERY_DATABASE_PASSWORD": ""}, "database.password is required in production"},
		{"tls required", map[string]string{"BAKERY_DATABASE_SSLMODE": "disable"}, "database.sslmode cannot be 'disable' in production"},
		{"no wildcard origin", map[string]string{"BAKERY_HTTP_CORS_ALLOW_ORIGINS": "*"}, "cors_allow_origins cannot be '*'"},
		{"no query variables in spans", map[string]string{"BAKERY_TELEMETRY_DB_LOG_FULL_SQL": "true"}, "db_log_full_sql must be false"},
		{"sqlite needs no password", map[string]string{"BAKERY_DATABASE_DRIVER": "sqlite", "BAKERY_DATABASE_PASSWORD": ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for k, v := range production {
				os.Setenv(k, v)
			}
			for k, v := range tt.override {
				if v == "" {
					os.Unsetenv(k)
					continue
				}
				os.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "production", cfg.App.Env)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "baker",
			Password: "testpass",
			DBName:   "bakery",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "baker")
		assert.Contains(t, dsn, "/bakery")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
