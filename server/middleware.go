package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const recordTimeout = 2 * time.Second

// recordLatency times the rest of the chain. The deferred write runs on
// success, on error and while a panic unwinds toward the recover middleware.
func (s *Server) recordLatency(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		defer func() {
			// The client may already be gone; the sample is still wanted.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), recordTimeout)
			defer cancel()
			if err := s.window.Observe(ctx, start); err != nil {
				s.log.Warn("record latency", zap.Error(err), zap.String("path", c.Request().URL.Path))
			}
		}()
		return next(c)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			if v.Status >= http.StatusInternalServerError {
				s.log.Error("request", fields...)
			} else {
				s.log.Info("request", fields...)
			}
			return nil
		},
	})
}
