package log

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultContextProvider returns the context used by logging functions and
// methods that take none.
var DefaultContextProvider = context.TODO

var (
	defaultMu  sync.RWMutex
	defaultLog = Make(DefaultOutput)
)

// Config reconfigures the package-level logger with opts.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// Default returns the package-level logger, for injection into components
// that take a [Logger].
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// With returns the package-level logger with attrs bound.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// TraceContext logs a message at Trace level with the package-level logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, skipFunc, LevelTrace, msg, attrs...)
}

// Trace logs a message at Trace level with the package-level logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().logSkip(DefaultContextProvider(), skipFunc, LevelTrace, msg, attrs...)
}

// DebugContext logs a message at Debug level with the package-level logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, skipFunc, LevelDebug, msg, attrs...)
}

// Debug logs a message at Debug level with the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().logSkip(DefaultContextProvider(), skipFunc, LevelDebug, msg, attrs...)
}

// InfoContext logs a message at Info level with the package-level logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, skipFunc, LevelInfo, msg, attrs...)
}

// Info logs a message at Info level with the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().logSkip(DefaultContextProvider(), skipFunc, LevelInfo, msg, attrs...)
}

// WarnContext logs a message at Warn level with the package-level logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, skipFunc, LevelWarn, msg, attrs...)
}

// Warn logs a message at Warn level with the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().logSkip(DefaultContextProvider(), skipFunc, LevelWarn, msg, attrs...)
}

// ErrorContext logs a message at Error level with the package-level logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, skipFunc, LevelError, msg, attrs...)
}

// Error logs a message at Error level with the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().logSkip(DefaultContextProvider(), skipFunc, LevelError, msg, attrs...)
}
