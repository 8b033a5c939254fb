package log

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	SessionIDKey ctxKey = "session_id"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

func init() {
	if os.Getenv("DEBUG") == "true" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
}

// Replace swaps the process-wide logger. The previous logger is flushed.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = l
}

// ToFile sends every log line to path instead of stderr. An empty path
// silences the logger, which the terminal UI relies on.
func ToFile(path string, debug bool) error {
	if path == "" {
		Replace(zap.NewNop())
		return nil
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Replace(l)
	return nil
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithValue stores a log field in ctx so WithCtx picks it up.
func WithValue(ctx context.Context, key ctxKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func WithCtx(ctx context.Context) *zap.Logger {
	fields := []zap.Field{}

	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		fields = append(fields, zap.String(string(RequestIDKey), v))
	}
	if v, ok := ctx.Value(SessionIDKey).(string); ok && v != "" {
		fields = append(fields, zap.String(string(SessionIDKey), v))
	}

	return current().With(fields...)
}

func With(fields ...zap.Field) *zap.Logger {
	return current().With(fields...)
}

func Sync() {
	_ = current().Sync()
}
