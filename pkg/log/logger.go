// Package log provides the structured logger used by signcfg commands and libraries.
package log

import (
	"context"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Well-known field keys.
const (
	ComponentKey = "component"
	FileKey      = "file"
	KeyKey       = "key"
)

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
}

// Logger defines the logging interface shared by all signcfg components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every entry.
	With(fields ...Field) Logger

	// WithError returns a logger carrying err in the "error" field.
	WithError(err error) Logger

	// WithComponent tags entries with a component name.
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// Hook is called for every entry at one of its levels before formatting.
type Hook interface {
	Levels() []Level
	Fire(entry *Entry) error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return defaultLogger
	}
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return defaultLogger
}

var defaultLogger = newDefaultLogger()

// newDefaultLogger redacts DefaultRedactedFields like loggers built by ApplyConfig.
func newDefaultLogger(options ...LoggerOption) Logger {
	options = append([]LoggerOption{WithLevel(InfoLevel), WithHook(NewRedactionHook(DefaultRedactedFields))}, options...)
	return NewLogger(options...)
}

// SetDefaultLogger sets the global default logger.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the global default logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// NewLogger creates a new logger with the given options.
// Without options it writes text to stderr at info level.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:     InfoLevel,
		fields:    Fields{},
		formatter: NewTextFormatter(),
	}

	for _, option := range options {
		option(logger)
	}

	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}

	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.level = level
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		l.formatter = formatter
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) {
		l.outputs = append(l.outputs, output)
	}
}

// WithHook adds a hook to the logger.
func WithHook(hook Hook) LoggerOption {
	return func(l *BaseLogger) {
		l.hooks = append(l.hooks, hook)
	}
}
