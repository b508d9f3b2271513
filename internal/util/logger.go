package util

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// InitLogger builds the process logger. Every entry carries the service name.
func InitLogger(env, service string) error {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		config = zap.NewProductionConfig()
	}

	base, err := config.Build()
	if err != nil {
		return err
	}
	logger = base.With(zap.String("service", service))
	zap.ReplaceGlobals(logger)
	return nil
}

// GetLogger returns the global logger
func GetLogger() *zap.Logger {
	if logger == nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}

// LoggerFrom returns the global logger tagged with the trace of ctx, if any
func LoggerFrom(ctx context.Context) *zap.Logger {
	if id := TraceID(ctx); id != "" {
		return GetLogger().With(zap.String("trace_id", id))
	}
	return GetLogger()
}

// SyncLogger flushes buffered entries
func SyncLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}
