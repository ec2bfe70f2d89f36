package log

import (
	"fmt"
	"strings"
	"sync"
)

// TestEntry represents a captured log entry for testing
type TestEntry struct {
	Level   Level
	Message string
	Fields  []Field
}

type testSink struct {
	mu      sync.Mutex
	entries []TestEntry
}

// TestLogger is a Logger implementation for testing that captures logs
// without producing output. Loggers derived through With share the same
// captured entries.
type TestLogger struct {
	sink   *testSink
	fields []Field
	level  Level
}

// NewTestLogger creates a new TestLogger for use in unit tests
func NewTestLogger() *TestLogger {
	return &TestLogger{
		sink:  &testSink{},
		level: DebugLevel,
	}
}

// GetEntries returns all captured log entries
func (l *TestLogger) GetEntries() []TestEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	result := make([]TestEntry, len(l.sink.entries))
	copy(result, l.sink.entries)
	return result
}

func (l *TestLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields)
}

func (l *TestLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields)
}

func (l *TestLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields)
}

func (l *TestLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields)
}

func (l *TestLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	allFields := make([]Field, 0, len(l.fields)+len(fields))
	allFields = append(allFields, l.fields...)
	allFields = append(allFields, fields...)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, TestEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
	})
}

// With returns a new logger with the provided fields added to the context
func (l *TestLogger) With(fields ...Field) Logger {
	child := &TestLogger{
		sink:   l.sink,
		level:  l.level,
		fields: make([]Field, 0, len(l.fields)+len(fields)),
	}
	child.fields = append(child.fields, l.fields...)
	child.fields = append(child.fields, fields...)
	return child
}

// WithError returns a new logger with an error field
func (l *TestLogger) WithError(err error) Logger {
	return l.With(Err(err))
}

// WithComponent returns a new logger with a component field
func (l *TestLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel sets the minimum log level
func (l *TestLogger) SetLevel(level Level) {
	l.level = level
}

// GetLevel returns the current minimum log level
func (l *TestLogger) GetLevel() Level {
	return l.level
}

// AssertLogged returns true if a log entry with the given level and message was captured
func (l *TestLogger) AssertLogged(level Level, containsMessage string) bool {
	for _, entry := range l.GetEntries() {
		if entry.Level == level && strings.Contains(entry.Message, containsMessage) {
			return true
		}
	}
	return false
}

// AssertLoggedWithField returns true if a log entry with the given level, message,
// and field key/value was captured
func (l *TestLogger) AssertLoggedWithField(level Level, containsMessage string, key string, value interface{}) bool {
	want := fmt.Sprintf("%v", value)
	for _, entry := range l.GetEntries() {
		if entry.Level != level || !strings.Contains(entry.Message, containsMessage) {
			continue
		}
		for _, field := range entry.Fields {
			if field.Key == key && fmt.Sprintf("%v", field.Value) == want {
				return true
			}
		}
	}
	return false
}
