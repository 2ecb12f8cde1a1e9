package middleware

import (
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keys used to carry the bakery a request reports on
const (
	BakeryIDKey     = "bakery_id"
	BakeryHeaderKey = "X-Bakery-ID"
)

// bakeryIDPattern accepts document-style ids: letters, digits, dash and underscore
var bakeryIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// BakeryMiddlewareConfig holds configuration for bakery middleware
type BakeryMiddlewareConfig struct {
	// SkipPaths are paths that don't report on a bakery (e.g., health check)
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultBakeryConfig returns default bakery middleware configuration
func DefaultBakeryConfig() BakeryMiddlewareConfig {
	return BakeryMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health", "/api/v1/system"},
	}
}

// BakeryMiddleware requires the X-Bakery-ID header on every non-skipped request
func BakeryMiddleware() gin.HandlerFunc {
	return BakeryMiddlewareWithConfig(DefaultBakeryConfig())
}

// BakeryMiddlewareWithConfig stores the bakery id in the gin context and
// attaches it to the request logger. Requests without a usable id get a 400.
func BakeryMiddlewareWithConfig(cfg BakeryMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		bakeryID, problem := readBakeryID(c)
		if problem != "" {
			if cfg.Logger != nil && bakeryID != "" {
				cfg.Logger.Debug("Rejected bakery id", zap.String("bakery_id", bakeryID))
			}
			respondMissingBakery(c, problem)
			return
		}

		c.Set(BakeryIDKey, bakeryID)
		ctx, enriched := logger.WithBakeryID(c.Request.Context(), logger.FromContext(c.Request.Context()), bakeryID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinLoggerKey, enriched)
		c.Next()
	}
}

func (cfg BakeryMiddlewareConfig) skips(path string) bool {
	return slices.ContainsFunc(cfg.SkipPaths, func(p string) bool {
		return path == p || strings.HasPrefix(path, p+"/")
	})
}

// readBakeryID returns the header value and, when it is unusable, why
func readBakeryID(c *gin.Context) (string, string) {
	id := strings.TrimSpace(c.GetHeader(BakeryHeaderKey))
	switch {
	case id == "":
		return "", "Bakery identification required"
	case !bakeryIDPattern.MatchString(id):
		return id, "Invalid bakery ID format"
	}
	return id, ""
}

func respondMissingBakery(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeMissingBakery, message, GetRequestID(c)))
}

// GetBakeryID retrieves the bakery ID from gin.Context
func GetBakeryID(c *gin.Context) string {
	return c.GetString(BakeryIDKey)
}
