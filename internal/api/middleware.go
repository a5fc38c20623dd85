package api

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/hackathon-teams/internal/auth"
	"github.com/yakoovad/hackathon-teams/internal/service"
	"github.com/yakoovad/hackathon-teams/pkg/logger"
	"go.uber.org/zap"
)

const actorContextKey = "actor_id"

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// AuthMiddleware requires a bearer token and stores its subject as the actor
// of the request.
func AuthMiddleware(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return transportError(c, service.NewError(service.ErrorCodeUnauthorized, "missing bearer token"))
			}

			subject, ok := tokens.Subject(token)
			if !ok {
				return transportError(c, service.NewError(service.ErrorCodeUnauthorized, "invalid bearer token"))
			}

			c.Set(actorContextKey, subject)
			return next(c)
		}
	}
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// RateLimitMiddleware allows requests fixed-window hits per client IP. A
// limiter failure lets the request through.
func RateLimitMiddleware(limiter Limiter, requests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			allowed, count, err := limiter.Allow(ctx, c.RealIP(), requests, window)
			if err != nil {
				logger.FromContext(ctx).Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(requests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(requests-count, 0)))

			if !allowed {
				h.Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return transportError(c, service.NewError(service.ErrorCodeRateLimited, "too many requests"))
			}
			return next(c)
		}
	}
}
