package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured event sink handed to every pipeline component.
type Logger struct {
	internal *slog.Logger
	closer   io.Closer
}

// Options configures where and how verbosely events are written.
type Options struct {
	LogPath    string
	LogLevel   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger builds a JSON logger. With an empty LogPath events go to stderr,
// otherwise to a size-rotated file.
func NewLogger(opts Options) *Logger {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)

	if opts.LogPath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = rotator
		closer = rotator
	}

	l := NewWriterLogger(w, opts.LogLevel)
	l.closer = closer
	return l
}

// NewWriterLogger writes JSON events to w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{internal: slog.New(handler)}
}

// NewNop returns a logger that drops everything.
func NewNop() *Logger {
	return NewWriterLogger(io.Discard, "error")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.internal.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.internal.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.internal.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.internal.Error(msg, fields...)
}

// With returns a child logger that adds fields to every event.
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{internal: l.internal.With(fields...), closer: l.closer}
}

// Close flushes and closes the rotated log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
