package log

import "strings"

// Redacted replaces the value of every redacted field.
const Redacted = "[REDACTED]"

// RedactionHook redacts sensitive values from log entries.
// Field names are matched case-insensitively.
type RedactionHook struct {
	fields map[string]struct{}
}

// NewRedactionHook creates a new redaction hook.
func NewRedactionHook(fields []string) *RedactionHook {
	h := &RedactionHook{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		h.fields[strings.ToLower(f)] = struct{}{}
	}
	return h
}

// Levels returns the levels this hook should be called for.
func (h *RedactionHook) Levels() []Level {
	return []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
}

// Fire executes the hook's logic for a log entry.
func (h *RedactionHook) Fire(entry *Entry) error {
	for k, v := range entry.Fields {
		if v == nil {
			continue
		}
		if _, ok := h.fields[strings.ToLower(k)]; ok {
			entry.Fields[k] = Redacted
		}
	}
	return nil
}
