package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. Init must run before anything logs.
var Log *zap.Logger

// Init builds the global logger. Level comes from FUADBOT_LOG_LEVEL
// (debug/info/warn/error), defaulting to info.
func Init(level string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn", "warning":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = built
	return nil
}

// Sync flushes buffered entries; safe to defer from main.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func init() {
	// Keep Log usable in tests that never call Init.
	Log = zap.NewNop()
}
