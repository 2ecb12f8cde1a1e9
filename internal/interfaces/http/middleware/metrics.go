package middleware

import (
	"time"

	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// report documents run from a few hundred bytes to a few megabytes
var responseSizeBuckets = []float64{500, 1e3, 5e3, 1e4, 5e4, 1e5, 5e5, 1e6, 5e6}

type httpInstruments struct {
	requests *telemetry.Counter
	latency  *telemetry.Histogram
	size     *telemetry.Histogram
	inFlight *telemetry.UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	in := telemetry.NewInstruments(meter)
	h := &httpInstruments{
		requests: in.Counter("http_server_request_total", "HTTP requests served", "{request}"),
		latency:  in.Histogram("http_server_request_duration_seconds", "HTTP request latency", "s", telemetry.HTTPDurationBuckets...),
		size:     in.Histogram("http_server_response_size_bytes", "HTTP response body size", "By", responseSizeBuckets...),
		inFlight: in.UpDownCounter("http_server_active_requests", "HTTP requests in flight", "{request}"),
	}
	return h, in.Err()
}

// HTTPMetrics counts requests by method, route, status and bakery and
// records latency and response size by method and route.
// A nil meter disables collection.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	passthrough := func(c *gin.Context) { c.Next() }
	if meter == nil {
		return passthrough
	}
	m, err := newHTTPInstruments(meter)
	if err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passthrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.inFlight.Add(ctx, 1)
		defer m.inFlight.Add(ctx, -1)

		c.Next()

		// the route pattern bounds cardinality; unmatched paths share one series
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}
		m.latency.RecordDuration(ctx, time.Since(start), attrs...)
		if n := c.Writer.Size(); n > 0 {
			m.size.Record(ctx, float64(n), attrs...)
		}

		attrs = append(attrs, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
		if id := GetBakeryID(c); id != "" {
			attrs = append(attrs, telemetry.AttrBakeryID.String(id))
		}
		m.requests.Inc(ctx, attrs...)
	}
}
