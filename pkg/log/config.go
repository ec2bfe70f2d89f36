package log

import (
	"fmt"
	"io"
	"strings"
)

// DefaultRedactedFields are masked by loggers built from DefaultConfig.
var DefaultRedactedFields = []string{"storePassword", "keyPassword", "password"}

// Config defines logging configuration.
type Config struct {
	// Level sets the minimum log level
	Level string `json:"level" yaml:"level"`

	// Format sets the output format (json, text)
	Format string `json:"format" yaml:"format"`

	// DisableColors turns off ANSI colors in the text format
	DisableColors bool `json:"disable_colors" yaml:"disable_colors"`

	// RedactedFields lists fields that should be redacted (e.g. passwords)
	RedactedFields []string `json:"redacted_fields" yaml:"redacted_fields"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:          "info",
		Format:         "text",
		RedactedFields: DefaultRedactedFields,
	}
}

// ApplyConfig creates a logger from a configuration. Entries go to w,
// or to stderr when w is nil.
func ApplyConfig(config *Config, w io.Writer) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	options := []LoggerOption{WithLevel(level)}

	switch strings.ToLower(config.Format) {
	case "json":
		options = append(options, WithFormatter(&JSONFormatter{}))
	case "text", "":
		options = append(options, WithFormatter(&TextFormatter{
			TimestampFormat: "15:04:05.000",
			DisableColors:   config.DisableColors,
		}))
	default:
		return nil, fmt.Errorf("invalid log format: %s", config.Format)
	}

	if w != nil {
		options = append(options, WithOutput(NewConsoleOutput(WithCustomWriter(w))))
	}

	if len(config.RedactedFields) > 0 {
		options = append(options, WithHook(NewRedactionHook(config.RedactedFields)))
	}

	return NewLogger(options...), nil
}

// ParseLevel parses a level string into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}
