package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// stacktraceHandler decorates log records carrying an error attribute with the
// stacktrace recorded by cockroachdb/errors.
type stacktraceHandler struct {
	next slog.Handler
}

// WithStacktraces wraps a slog handler so that records logged with ErrAttr
// gain a stacktrace attribute when the error carries one.
func WithStacktraces(next slog.Handler) slog.Handler {
	return &stacktraceHandler{next: next}
}

func (h *stacktraceHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *stacktraceHandler) Handle(ctx context.Context, r slog.Record) error {
	var loggedErr error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		loggedErr, _ = attr.Value.Any().(error)
		return false
	})

	if loggedErr != nil {
		if trace := stacktraceOf(loggedErr); trace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, trace))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *stacktraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stacktraceHandler{next: h.next.WithAttrs(attrs)}
}

func (h *stacktraceHandler) WithGroup(g string) slog.Handler {
	return &stacktraceHandler{next: h.next.WithGroup(g)}
}

// stacktraceOf returns the first safe detail of err, which for errors built
// with WithStack is the formatted stacktrace. Plain errors yield "".
func stacktraceOf(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) == 0 {
		return ""
	}
	return details[0]
}
