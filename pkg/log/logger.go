// SPDX-License-Identifier: Apache-2.0

package log

// Logger is the structured logger used across the adapter. Implementations
// must be safe for concurrent use.
type Logger interface {
	Trace(msg string, fields ...Fields)
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(err error, msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	Panic(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type Fields map[string]any

// Common field keys.
const (
	ModuleField     = "module"
	IndexField      = "index"
	CollectionField = "collection"
)

// NewLogger returns the logger on input, or a noop logger if nil.
func NewLogger(l Logger) Logger {
	if l == nil {
		return NewNoopLogger()
	}
	return l
}

// MergeFields returns a new set of fields with the content of all the field
// sets on input. Later sets win on key conflicts.
func MergeFields(fieldSets ...Fields) Fields {
	size := 0
	for _, f := range fieldSets {
		size += len(f)
	}
	merged := make(Fields, size)
	for _, f := range fieldSets {
		for k, v := range f {
			merged[k] = v
		}
	}
	return merged
}

type NoopLogger struct{}

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Trace(string, ...Fields)        {}
func (l *NoopLogger) Debug(string, ...Fields)        {}
func (l *NoopLogger) Info(string, ...Fields)         {}
func (l *NoopLogger) Warn(error, string, ...Fields)  {}
func (l *NoopLogger) Error(error, string, ...Fields) {}
func (l *NoopLogger) Panic(string, ...Fields)        {}
func (l *NoopLogger) WithFields(Fields) Logger       { return l }
