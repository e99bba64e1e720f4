// pkg/logger/logger.go
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around zap's sugared logger so callers don't
// depend on zap directly.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a production logger at the given level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func New(level string) *Logger {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Config acima é estática; Build só falha com sink inválido.
		panic(err)
	}
	return &Logger{log.Sugar()}
}

// NewDevelopment creates a human-readable logger for local runs.
func NewDevelopment() *Logger {
	log, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return &Logger{log.Sugar()}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// Info logs an informational message.
func (l *Logger) Info(args ...interface{}) { l.SugaredLogger.Info(args...) }

// Warn logs a warning message.
func (l *Logger) Warn(args ...interface{}) { l.SugaredLogger.Warn(args...) }

// Error logs an error message.
func (l *Logger) Error(args ...interface{}) { l.SugaredLogger.Error(args...) }
