package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm output to zap with request correlation.
// Statements log at debug, slow statements at warn and failures at error.
// ErrRecordNotFound is not a failure: settings lookups miss on purpose.
type GormLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewGormLogger maps the application log level onto gorm's; slow of zero turns off slow statement warnings
func NewGormLogger(log *zap.Logger, level string, slow time.Duration) *GormLogger {
	return &GormLogger{log: log.Named("gorm"), level: gormLevel(level), slow: slow}
}

func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	if ce := l.with(ctx).Check(lvl, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write()
	}
}

// Trace logs one executed statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl   zapcore.Level
		msg   string
		extra zap.Field
	)
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound):
		if l.level < gormlogger.Error {
			return
		}
		lvl, msg, extra = zapcore.ErrorLevel, "SQL failed", zap.Error(err)
	case l.slow > 0 && elapsed > l.slow:
		if l.level < gormlogger.Warn {
			return
		}
		lvl, msg, extra = zapcore.WarnLevel, "Slow SQL", zap.Duration("threshold", l.slow)
	default:
		if l.level < gormlogger.Info {
			return
		}
		lvl, msg, extra = zapcore.DebugLevel, "SQL", zap.Skip()
	}

	ce := l.with(ctx).Check(lvl, msg)
	if ce == nil {
		return
	}
	sql, rows := fc()
	ce.Write(zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed), extra)
}

// with adds the request, bakery and trace identifiers carried by ctx
func (l *GormLogger) with(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.log
	}
	log := WithTraceContext(ctx, l.log)
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetBakeryID(ctx); id != "" {
		fields = append(fields, zap.String("bakery_id", id))
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}
