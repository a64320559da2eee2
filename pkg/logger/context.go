package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	echoKey              = "logger"
)

// FromContext returns the request logger or the process logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return L()
}

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromEcho returns the logger set by Middleware.
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get(echoKey).(*zap.Logger); ok {
		return l
	}
	return L()
}
