package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sync"
)

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

type LogLevel string

const (
	// LogLevelDebug is used for debug messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is used for informational messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is used for warning messages
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is used for error messages
	LogLevelError LogLevel = "error"
)

// maskingWriter replaces configured secrets with "***" before the
// log line reaches the underlying writer. Telegram credentials must
// never end up in log output, not even inside error messages coming
// back from the transport.
type maskingWriter struct {
	out     io.Writer
	secrets [][]byte
	mu      sync.Mutex
}

func newMaskingWriter(out io.Writer, secrets []string) *maskingWriter {
	w := &maskingWriter{out: out}
	for _, s := range secrets {
		// Masking very short strings would mangle unrelated output.
		if len(s) > 4 {
			w.secrets = append(w.secrets, []byte(s))
		}
	}
	return w
}

// Write implements the io.Writer interface.
func (w *maskingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	masked := p
	for _, secret := range w.secrets {
		masked = bytes.ReplaceAll(masked, secret, []byte("***"))
	}
	if _, err := w.out.Write(masked); err != nil {
		return 0, err
	}
	// Report the original length so slog does not treat the
	// shortened output as a partial write.
	return len(p), nil
}

// CreateLogger creates a JSON logger writing to stdout. Any of the
// given secrets appearing in a log line is replaced with "***".
func CreateLogger(logLevel LogLevel, secrets ...string) Logger {
	var level slog.Level
	switch logLevel {
	case LogLevelDebug:
		level = slog.LevelDebug
	case LogLevelInfo:
		level = slog.LevelInfo
	case LogLevelWarn:
		level = slog.LevelWarn
	case LogLevelError:
		level = slog.LevelError
	default:
		// Default to Info if unknown level
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(newMaskingWriter(os.Stdout, secrets), &slog.HandlerOptions{
		Level: level,
	}))
}

// nopLogger is a no-operation logger that implements the Logger interface.
type nopLogger struct{}

// NopLogger is a singleton Logger that performs no operations.
// Use this when no logging is desired or when a logger is required but no output is needed.
var NopLogger Logger = &nopLogger{}

// Info implements the Logger interface for nopLogger.
func (l *nopLogger) Info(msg string, args ...any) {}

// Warn implements the Logger interface for nopLogger.
func (l *nopLogger) Warn(msg string, args ...any) {}

// Error implements the Logger interface for nopLogger.
func (l *nopLogger) Error(msg string, args ...any) {}

// Debug implements the Logger interface for nopLogger.
func (l *nopLogger) Debug(msg string, args ...any) {}
