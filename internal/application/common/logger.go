// Package common holds the ports shared by every application handler:
// the logger carried through context and the metrics recorder the step
// pipeline reports into.
package common

import "context"

// Logger is the logging port handlers write through. The concrete
// implementation lives in infrastructure; handlers only ever see this.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger attaches the logger the request will log through.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the attached logger, falling back to a
// no-op logger when none was attached.
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is the fallback when no logger travels with the context
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
}
