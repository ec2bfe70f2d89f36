package log

import (
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes log entries to stderr or a custom writer.
// Log lines stay off stdout so command output can be piped.
type ConsoleOutput struct {
	mu     sync.Mutex
	writer io.Writer
}

// Write writes the log entry to the console.
func (o *ConsoleOutput) Write(entry *Entry, formattedEntry []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	writer := o.writer
	if writer == nil {
		writer = os.Stderr
	}
	_, err := writer.Write(formattedEntry)
	return err
}

// Close implements the Output interface but does nothing for console output.
func (o *ConsoleOutput) Close() error {
	return nil
}

// ConsoleOutputOption is a function that configures a ConsoleOutput.
type ConsoleOutputOption func(*ConsoleOutput)

// WithCustomWriter configures the ConsoleOutput to use a custom writer.
func WithCustomWriter(writer io.Writer) ConsoleOutputOption {
	return func(o *ConsoleOutput) {
		o.writer = writer
	}
}

// NewConsoleOutput creates a new ConsoleOutput with the given options.
func NewConsoleOutput(options ...ConsoleOutputOption) *ConsoleOutput {
	o := &ConsoleOutput{}
	for _, option := range options {
		option(o)
	}
	return o
}
