// Package log provides structured logging for model-selection runs.
//
// The package wraps Go's log/slog with a JSON handler whose attribute names
// follow the severity/message convention, and with a wrapping handler that
// extracts stacktraces from cockroachdb/errors values passed via ErrAttr.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs the default slog logger used by the example binaries.
func SetupLogger(loglevel string) {
	SetupLoggerWithWriter(loglevel, os.Stdout)
}

// SetupLoggerWithWriter installs a logger writing to w. Tests use this to
// capture output.
func SetupLoggerWithWriter(loglevel string, w io.Writer) {
	ops := slog.HandlerOptions{
		Level: ToLogLevel(loglevel),
		// Replace attributes to the severity/message naming convention.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WithStacktraces(handler)))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
