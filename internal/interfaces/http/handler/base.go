package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getBakeryID returns the bakery set by the bakery middleware, or the raw header
// for routes mounted without it
func getBakeryID(c *gin.Context) string {
	if id := middleware.GetBakeryID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.BakeryHeaderKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// ValidationError answers 400 with per-field details when err came from binding
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError answers with the status of a domain error, 504 for an expired
// deadline and 500 otherwise. Only the 500 case is logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var (
		code    = dto.ErrCodeInternal
		message = "An unexpected error occurred"
	)
	if domainErr, ok := shared.AsDomainError(err); ok {
		code, message = domainErr.Code, domainErr.Message
	} else if errors.Is(err, context.DeadlineExceeded) {
		code, message = dto.ErrCodeTimeout, "The report took too long to build"
	} else {
		logger.FromContext(c.Request.Context()).Error("Request failed", zap.Error(err))
	}
	h.ErrorWithCode(c, dto.NormalizeErrorCode(code), message)
}
