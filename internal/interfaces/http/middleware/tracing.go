package middleware

import (
	"net/http"
	"slices"

	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig controls the server span handlers.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	SkipPaths   []string
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "bakery-backend",
		Enabled:     true,
		SkipPaths:   []string{"/health", "/api/v1/health"},
	}
}

// Tracing returns the otelgin span handler followed by markSpanStatus, or no
// handlers when tracing is off. Spans use the global provider and propagator.
func Tracing(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return nil
	}
	traced := func(r *http.Request) bool { return !slices.Contains(cfg.SkipPaths, r.URL.Path) }
	return gin.HandlersChain{
		otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(traced)),
		markSpanStatus,
	}
}

// markSpanStatus records the status of failed requests and fails the span on 5xx.
func markSpanStatus(c *gin.Context) {
	c.Next()

	status := c.Writer.Status()
	span := trace.SpanFromContext(c.Request.Context())
	if status < http.StatusBadRequest || !span.IsRecording() {
		return
	}
	span.SetAttributes(telemetry.AttrHTTPStatusCode.Int(status))
	if len(c.Errors) > 0 {
		span.SetAttributes(attribute.StringSlice("gin.errors", c.Errors.Errors()))
	}
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

// TracingAttributeInjector tags the server span with request_id and bakery_id.
// Mount it after RequestID and the bakery middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			var attrs []attribute.KeyValue
			if id := GetRequestID(c); id != "" {
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if id := GetBakeryID(c); id != "" {
				attrs = append(attrs, telemetry.AttrBakeryID.String(id))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}
