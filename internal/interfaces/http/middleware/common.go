package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out of the API
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(logger.GinRequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or the raw header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// SecurityConfig controls the response hardening headers
type SecurityConfig struct {
	HSTSEnabled           bool
	HSTSMaxAge            time.Duration
	HSTSIncludeSubdomains bool

	// CSPDirective is sent as Content-Security-Policy; empty disables it
	CSPDirective string
	// CSPExemptPrefixes skip the policy, for pages that load scripts such as the API docs
	CSPExemptPrefixes []string
}

// DefaultSecurityConfig suits a JSON API. HSTS stays off until TLS terminates in front of it.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:            365 * 24 * time.Hour,
		HSTSIncludeSubdomains: true,
		CSPDirective:          "default-src 'none'; frame-ancestors 'none'",
		CSPExemptPrefixes:     []string{"/swagger/"},
	}
}

// SecureWithConfig sets the hardening headers before the handler runs
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	static := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}
	if cfg.HSTSEnabled {
		v := fmt.Sprintf("max-age=%d", int64(cfg.HSTSMaxAge.Seconds()))
		if cfg.HSTSIncludeSubdomains {
			v += "; includeSubDomains"
		}
		static["Strict-Transport-Security"] = v
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range static {
			h.Set(k, v)
		}
		if cfg.CSPDirective != "" && !hasAnyPrefix(c.Request.URL.Path, cfg.CSPExemptPrefixes) {
			h.Set("Content-Security-Policy", cfg.CSPDirective)
		}
		c.Next()
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Timeout bounds the request context so repository calls and report builds
// stop once the deadline passes. Handlers map context.DeadlineExceeded to 504.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
