package logger

import (
	"fmt"
	"strings"

	"github.com/ruixianxue/trading-simulator/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is an interface that wraps the Logger methods.
//
//go:generate mockgen -source log.go -destination=mock/log_mock.go -package=logger_mock
type Interface interface {
	Debug(message string, fields ...Field)
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(err error, fields ...Field)
	WithFields(fields ...Field) *Logger
	GetZap() *zap.Logger
	Sync() error
}

// Logger is a wrapper around zap.Logger to provide structured logging.
type Logger struct {
	logger *zap.Logger
}

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// Level represents the severity level of the log.
type Level string

var (
	// DebugLevel is used for debug messages.
	DebugLevel Level = "debug"
	// InfoLevel is used for informational messages.
	InfoLevel Level = "info"
	// WarnLevel is used for warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel is used for error messages.
	ErrorLevel Level = "error"
)

func (level Level) getZapLevel() zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Options holds configuration options for the logger.
type Options struct {
	level       Level
	outputPaths []string
}

// WithLoggingLevel sets the minimum log level written to the outputs.
// Defaults to info level, same as zap's production config.
func WithLoggingLevel(level Level) Options {
	return Options{level: level}
}

// WithOutputPaths sets the output paths logs are written to. The special
// paths "stdout" and "stderr" are interpreted as os.Stdout and os.Stderr.
func WithOutputPaths(paths []string) Options {
	return Options{outputPaths: paths}
}

// NewLogger creates new Logger instance with configuration options.
func NewLogger(opts ...Options) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.MessageKey = "message"

	for _, opt := range opts {
		if opt.level != "" {
			cfg.Level = zap.NewAtomicLevelAt(opt.level.getZapLevel())
		}
		if opt.outputPaths != nil {
			cfg.OutputPaths = opt.outputPaths
		}
	}

	logger, err := cfg.Build()
	return &Logger{logger: logger}, err
}

// NewNop returns a Logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// NewField returns Field with given key and value.
func NewField(key string, value any) Field {
	return Field{key, value}
}

// Debug writes log with severity level debug.
func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, convertFields(fields...)...)
}

// Info writes log with severity level info.
func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, convertFields(fields...)...)
}

// Warn writes log with severity level warn.
func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, convertFields(fields...)...)
}

// Error writes log with severity level error. If err carries a stack trace
// from pkg/errors it replaces zap's own trace.
func (l *Logger) Error(err error, fields ...Field) {
	stacktrace := ""
	if errTracer, ok := err.(errors.StackTracer); ok {
		stacktrace = strings.TrimSpace(fmt.Sprintf("%+v", errTracer.StackTrace()))
	}

	if ce := l.logger.Check(zapcore.ErrorLevel, err.Error()); ce != nil {
		if stacktrace != "" {
			ce.Stack = stacktrace
		}
		ce.Write(convertFields(fields...)...)
	}
}

// WithFields returns a child logger with additional fields.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{logger: l.logger.With(convertFields(fields...)...)}
}

// GetZap returns zap.Logger instance used by log.Logger.
func (l *Logger) GetZap() *zap.Logger {
	return l.logger
}

// Sync flushes the buffered log entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func convertFields(fields ...Field) []zapcore.Field {
	var zapFields []zapcore.Field
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}
	return zapFields
}
