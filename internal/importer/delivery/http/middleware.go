package http

import (
	"net/http"
	"time"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// NewImportLimiter returns a token bucket allowing perMinute imports with
// an equal burst, or nil when perMinute is not positive.
func NewImportLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// RateLimit rejects requests with 429 once limiter is exhausted. A nil
// limiter lets everything through.
func RateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests,
					dto.Fail(dto.CodeTooManyRequests, "too many import requests, try again later"))
			}
			return next(c)
		}
	}
}

// RequestContext copies the request id set by echo's RequestID middleware
// into the request context for logger.*Context calls.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}
