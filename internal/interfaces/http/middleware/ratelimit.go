package middleware

import (
	"fmt"
	"net/http"

	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const rateLimitPrefix = "bakery:ratelimit"

// NewRateLimiter builds a limiter from a formatted rate such as "120-M".
// The redis backend shares counters between instances; memory counts per process.
func NewRateLimiter(rate, backend string, client *redis.Client) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	var store limiter.Store
	switch backend {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis rate limit backend needs a redis client")
		}
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
	case "memory", "":
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", backend)
	}

	return limiter.New(store, parsed), nil
}

// RateLimit limits requests per bakery, falling back to the client IP for
// routes that run without a bakery. Store failures let the request through.
func RateLimit(lim *limiter.Limiter, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return mgin.NewMiddleware(lim,
		mgin.WithKeyGetter(rateLimitKey),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
		}),
	)
}

func rateLimitKey(c *gin.Context) string {
	if bakeryID := GetBakeryID(c); bakeryID != "" {
		return "bakery:" + bakeryID
	}
	return "ip:" + c.ClientIP()
}
