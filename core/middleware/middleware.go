package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"smart-schedule/core/cache"
	"smart-schedule/core/constants"
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RateLimitConfig struct {
	Limit    int
	Window   time.Duration
	FailOpen bool
}

type Middleware struct {
	cache     cache.Cache
	rateLimit RateLimitConfig
}

// NewMiddleware builds the shared middleware set. cache may be nil, in which
// case rate limiting is disabled.
func NewMiddleware(c cache.Cache, rl RateLimitConfig) *Middleware {
	if rl.Limit <= 0 {
		rl.Limit = 60
	}
	if rl.Window <= 0 {
		rl.Window = time.Minute
	}
	return &Middleware{cache: c, rateLimit: rl}
}

// AuthMiddleware validates the bearer token and stores *utils.TokenData under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}

			data, appErr := utils.ValidateAndParseToken(strings.TrimSpace(token))
			if appErr != nil {
				logger.Warn("Middleware:AuthMiddleware:Invalid", "code", appErr.Code, "error", appErr.Err)
				return controller.NewErrorResponse(http.StatusUnauthorized, appErr.Code, appErr.Message)
			}
			if data.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "token scope not allowed")
			}

			c.Set(constants.ContextTokenData, data)
			return next(c)
		}
	}
}

// RateLimit is a fixed-window limiter keyed by client IP.
func (m *Middleware) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.cache == nil {
				return next(c)
			}

			key := constants.RedisKeyRateLimit + ":" + c.RealIP()
			count, err := m.cache.Incr(c.Request().Context(), key, m.rateLimit.Window)
			if err != nil {
				logger.Error("Middleware:RateLimit:Error", "key", key, "error", err)
				if m.rateLimit.FailOpen {
					return next(c)
				}
				return controller.NewErrorResponse(http.StatusServiceUnavailable, errors.ErrInternalServer, "rate limiter unavailable")
			}

			remaining := int64(m.rateLimit.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(m.rateLimit.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(m.rateLimit.Limit) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(m.rateLimit.Window.Seconds())))
				return controller.NewErrorResponse(http.StatusTooManyRequests, errors.ErrRateLimited, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// RequestLogger tags each request with an id and logs its outcome.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(constants.HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(constants.ContextRequestID, rid)
			c.Response().Header().Set(constants.HeaderRequestID, rid)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("HTTP:Request",
				"request_id", rid,
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

// TokenData returns the authenticated caller set by AuthMiddleware.
func TokenData(c echo.Context) (*utils.TokenData, bool) {
	data, ok := c.Get(constants.ContextTokenData).(*utils.TokenData)
	return data, ok && data != nil
}
