package logger

import (
	"fmt"
	"os"

	"github.com/user/grainfx/pkg/ports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger emits JSON lines through zap. Messages are formatted
// but not translated so that log processors see stable text.
type StructuredLogger struct {
	log *zap.SugaredLogger
}

// NewStructured creates a JSON logger. Errors go to stderr, everything else
// at or above level goes to stdout.
func NewStructured(level ports.LogLevel) *StructuredLogger {
	return NewStructuredTo(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr), level)
}

// NewStructuredTo creates a JSON logger writing to the given syncers.
func NewStructuredTo(stdout, stderr zapcore.WriteSyncer, level ports.LogLevel) *StructuredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	minLevel := zapLevel(level)
	stderrLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= minLevel && lvl >= zapcore.ErrorLevel
	})
	stdoutLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= minLevel && lvl < zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, stderr, stderrLevel),
		zapcore.NewCore(encoder, stdout, stdoutLevel),
	)
	return &StructuredLogger{log: zap.New(core).Sugar()}
}

func zapLevel(level ports.LogLevel) zapcore.Level {
	switch level {
	case ports.LevelDebug:
		return zapcore.DebugLevel
	case ports.LevelWarn:
		return zapcore.WarnLevel
	case ports.LevelError:
		return zapcore.ErrorLevel
	case ports.LevelQuiet:
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}

func (l *StructuredLogger) Debug(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

func (l *StructuredLogger) Info(msg string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(msg, args...))
}

func (l *StructuredLogger) Warn(msg string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(msg, args...))
}

func (l *StructuredLogger) Error(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// WithComponent returns a logger that adds a "component" field.
func (l *StructuredLogger) WithComponent(component string) ports.Logger {
	return &StructuredLogger{log: l.log.With("component", component)}
}

// Sync flushes buffered entries.
func (l *StructuredLogger) Sync() error {
	return l.log.Sync()
}

var _ ports.Logger = (*StructuredLogger)(nil)
