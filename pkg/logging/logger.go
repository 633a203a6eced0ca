// Package logging provides the slog-based structured logger used across
// gridkit. A TUI owns stdout while it runs, so loggers write to a file or
// are discarded.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel accepts debug, info, warn/warning and error, case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return "", gkerrors.Newf(gkerrors.ErrCodeConfigInvalid, "unknown log level %q", s)
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Format selects the handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Logger is a structured logger for gridkit components
type Logger struct {
	*slog.Logger
	session string
}

// NewLogger creates a logger writing to w. Every record carries the component
// name and a per-logger ULID session id.
func NewLogger(component string, level Level, format Format, w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	opts := &slog.HandlerOptions{Level: level.slog()}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	session := ulid.Make().String()
	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("session", session),
	)
	return &Logger{Logger: logger, session: session}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// OpenFile opens (creating parent directories) an append-only log file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "create log directory").
			WithContext("path", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "open log file").
			WithContext("path", path)
	}
	return f, nil
}

// Session returns the session id attached to every record.
func (l *Logger) Session() string { return l.session }

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), session: l.session}
}

// WithFrame returns a logger tagged with a frame number.
func (l *Logger) WithFrame(frame uint64) *Logger {
	return l.with(slog.Uint64("frame", frame))
}

// WithWidget returns a logger tagged with a widget name.
func (l *Logger) WithWidget(name string) *Logger {
	return l.with(slog.String("widget", name))
}

// WithError returns a logger carrying err and, for structured errors, its code.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	args := []any{slog.String("error", err.Error())}
	if code := gkerrors.GetCode(err); code != "" {
		args = append(args, slog.String("code", string(code)))
	}
	return l.with(args...)
}

// WithContext adds trace and span ids when ctx carries a span.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.with(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}
