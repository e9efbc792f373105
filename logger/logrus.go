package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format selects how entries are encoded.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Option configures a LogrusLogger.
type Option func(*logrus.Logger)

// WithOutput sends entries to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithFormat switches between text and JSON entries.
func WithFormat(f Format) Option {
	return func(l *logrus.Logger) {
		if strings.EqualFold(string(f), string(FormatJSON)) {
			l.SetFormatter(&logrus.JSONFormatter{})
			return
		}
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
}

// LogrusLogger implements Logger on top of logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a logger writing text entries to stderr at the given
// level. Unknown levels fall back to warn so the CLI stays quiet by default.
func NewLogrusLogger(level string, opts ...Option) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)

	for _, opt := range opts {
		opt(l)
	}

	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func (l *LogrusLogger) with(ctx context.Context, fields Fields) *logrus.Entry {
	e := l.entry.WithContext(ctx)
	if len(fields) > 0 {
		e = e.WithFields(fields)
	}
	return e
}

// Debug logs at debug level.
func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Debug(msg)
}

// Info logs at info level.
func (l *LogrusLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Info(msg)
}

// Warn logs at warn level.
func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Warn(msg)
}

// Error logs at error level.
func (l *LogrusLogger) Error(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Error(msg)
}

// WithField returns a new logger with key added to every entry.
func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new logger with fields added to every entry.
func (l *LogrusLogger) WithFields(fields Fields) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}
