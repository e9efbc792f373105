package logger

import "context"

// Fields are structured key/value pairs attached to a log entry.
type Fields = map[string]interface{}

// Logger is the structured logger used across runnerconf.
type Logger interface {
	Debug(ctx context.Context, msg string, fields Fields)
	Info(ctx context.Context, msg string, fields Fields)
	Warn(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, msg string, fields Fields)

	// WithField returns a logger that adds key to every entry.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that adds fields to every entry.
	WithFields(fields Fields) Logger
}

type discard struct{}

// Discard returns a Logger that drops everything.
func Discard() Logger { return discard{} }

func (discard) Debug(context.Context, string, Fields) {}
func (discard) Info(context.Context, string, Fields)  {}
func (discard) Warn(context.Context, string, Fields)  {}
func (discard) Error(context.Context, string, Fields) {}

func (d discard) WithField(string, interface{}) Logger { return d }
func (d discard) WithFields(Fields) Logger             { return d }
