package observability

import (
	"context"
	"log/slog"
)

// SlogLogger implements [Logger] using Go's standard library slog.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlog creates a slog-backed Logger. A nil logger falls back to
// slog.Default().
func NewSlog(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

var _ Logger = (*SlogLogger)(nil)

func (l *SlogLogger) Debug(ctx context.Context, msg string, attrs ...Attribute) {
	l.log(ctx, slog.LevelDebug, msg, attrs...)
}

func (l *SlogLogger) Info(ctx context.Context, msg string, attrs ...Attribute) {
	l.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (l *SlogLogger) Warn(ctx context.Context, msg string, attrs ...Attribute) {
	l.log(ctx, slog.LevelWarn, msg, attrs...)
}

func (l *SlogLogger) Error(ctx context.Context, msg string, attrs ...Attribute) {
	l.log(ctx, slog.LevelError, msg, attrs...)
}

func (l *SlogLogger) log(ctx context.Context, level slog.Level, msg string, attrs ...Attribute) {
	logAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	l.logger.LogAttrs(ctx, level, msg, logAttrs...)
}
