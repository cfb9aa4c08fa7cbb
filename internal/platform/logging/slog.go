package logging

import (
	"context"
	"log/slog"
)

// NewSlog wraps l in a *slog.Logger so packages written against the
// standard structured logger share the same zap core, level gate and
// mirror as the rest of the process.
func NewSlog(l *Logger) *slog.Logger {
	if l == nil {
		l = Default()
	}
	return slog.New(&slogHandler{logger: l})
}

type slogHandler struct {
	logger *Logger
	prefix string
	attrs  []any
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Zap().Core().Enabled(toZapLevel(level))
}

func (h *slogHandler) Handle(ctx context.Context, record slog.Record) error {
	args := make([]any, 0, len(h.attrs)+2*record.NumAttrs())
	args = append(args, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		args = appendAttr(args, h.prefix, attr)
		return true
	})

	h.logger.logContext(ctx, toZapLevel(record.Level), record.Message, args...)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]any, 0, len(h.attrs)+2*len(attrs))
	merged = append(merged, h.attrs...)
	for _, attr := range attrs {
		merged = appendAttr(merged, h.prefix, attr)
	}
	return &slogHandler{logger: h.logger, prefix: h.prefix, attrs: merged}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogHandler{logger: h.logger, prefix: h.prefix + name + ".", attrs: h.attrs}
}

func appendAttr(args []any, prefix string, attr slog.Attr) []any {
	value := attr.Value.Resolve()
	if attr.Key == "" && value.Kind() != slog.KindGroup {
		return args
	}
	if value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix = prefix + attr.Key + "."
		}
		for _, nested := range value.Group() {
			args = appendAttr(args, groupPrefix, nested)
		}
		return args
	}
	return append(args, prefix+attr.Key, value.Any())
}

func toZapLevel(level slog.Level) Level {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarn
	case level >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}
