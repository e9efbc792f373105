package logger

import (
	"context"
	"sync"
)

// LogEntry is one entry captured by TestLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  Fields
}

type sink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// TestLogger captures entries in memory. Loggers derived with WithField share
// the parent's captured entries.
type TestLogger struct {
	sink   *sink
	fields Fields
}

// NewTestLogger creates an empty TestLogger.
func NewTestLogger() *TestLogger {
	return &TestLogger{sink: &sink{}, fields: Fields{}}
}

func (l *TestLogger) Debug(_ context.Context, msg string, fields Fields) { l.log("debug", msg, fields) }
func (l *TestLogger) Info(_ context.Context, msg string, fields Fields)  { l.log("info", msg, fields) }
func (l *TestLogger) Warn(_ context.Context, msg string, fields Fields)  { l.log("warn", msg, fields) }
func (l *TestLogger) Error(_ context.Context, msg string, fields Fields) { l.log("error", msg, fields) }

// WithField returns a logger sharing this one's entries with key added.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a logger sharing this one's entries with fields added.
func (l *TestLogger) WithFields(fields Fields) Logger {
	return &TestLogger{sink: l.sink, fields: merge(l.fields, fields)}
}

func (l *TestLogger) log(level, msg string, fields Fields) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  merge(l.fields, fields),
	})
}

// Entries returns a copy of everything captured so far.
func (l *TestLogger) Entries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	out := make([]LogEntry, len(l.sink.entries))
	copy(out, l.sink.entries)
	return out
}

// Messages returns the captured messages at level, in order.
func (l *TestLogger) Messages(level string) []string {
	var out []string
	for _, e := range l.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset drops all captured entries.
func (l *TestLogger) Reset() {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = nil
}

func merge(a, b Fields) Fields {
	out := make(Fields, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
