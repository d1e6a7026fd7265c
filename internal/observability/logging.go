// Package observability provides structured logging for the client. The
// terminal is owned by the UI, so logs go to a file rather than stdout.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application. It
// discards output until Init points it at a file.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// Init opens (or creates) the log file and rebinds the global logger to it.
// The returned closer flushes the file on shutdown.
func Init(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
	return f, nil
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// RequestID correlates one API call's log records with its X-Request-ID header.
const RequestID LogContextKey = "request_id"

// WithRequestID returns a new context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestID, id)
}

// ExtractRequestID retrieves the request ID from the context.
func ExtractRequestID(ctx context.Context) string {
	if id := ctx.Value(RequestID); id != nil {
		return id.(string)
	}
	return ""
}

// APICall logs one outbound API call with its correlation ID.
func (l *Logger) APICall(ctx context.Context, method, path string, status int, err error) {
	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("request_id", ExtractRequestID(ctx)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.ErrorContext(ctx, "api call failed", attrs...)
		return
	}
	l.DebugContext(ctx, "api call", attrs...)
}
