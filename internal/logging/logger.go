// Package logging provides a logging abstraction layer that decouples the
// extraction pipeline from specific logging frameworks. Components receive a
// Logger and are silent by default, which keeps tests quiet and lets the
// embedding application choose the backend.
package logging

// Logger defines the interface for structured logging throughout the application.
// Implementations should provide structured logging with support for fields and error context.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger

	// Fatal logs a fatal-level message and exits the program
	Fatal(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
// Fields provide context to log messages without cluttering the message text.
type Field struct {
	Key   string
	Value interface{}
}

// Nop discards everything. It is the fallback for components constructed
// without an explicit logger.
type Nop struct{}

func (Nop) Debug(string, ...Field)                 {}
func (Nop) Info(string, ...Field)                  {}
func (Nop) Warn(string, ...Field)                  {}
func (Nop) Error(string, ...Field)                 {}
func (n Nop) WithError(error) Logger               { return n }
func (n Nop) WithField(string, interface{}) Logger { return n }
func (n Nop) WithFields(...Field) Logger           { return n }
func (Nop) Fatal(string, ...Field)                 {}
