package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/utils/log"
)

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	logger := log.WithCtx(c.Request().Context())
	if code >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", code), zap.String("error", message), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ChatResponse{Error: message})
	}
	if err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// RequestContext copies the request ID assigned by middleware.RequestID into
// the request context so log.WithCtx can attach it.
func RequestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			ctx := log.WithValue(c.Request().Context(), log.RequestIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

// RequestLogger writes one access log line per request through zap.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String(string(log.RequestIDKey), v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.With(fields...).Info("request")
			return nil
		},
	})
}
