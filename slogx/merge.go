package slogx

import (
	"context"
	"errors"
	"log/slog"
)

var _ slog.Handler = (*fanoutHandler)(nil)

type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, impl := range h.handlers {
		if impl.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, impl := range h.handlers {
		if !impl.Enabled(ctx, record.Level) {
			continue
		}
		errs = append(errs, impl.Handle(ctx, record.Clone()))
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(impl slog.Handler) slog.Handler {
		return impl.WithAttrs(attrs)
	})
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.each(func(impl slog.Handler) slog.Handler {
		return impl.WithGroup(name)
	})
}

func (h *fanoutHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := &fanoutHandler{handlers: make([]slog.Handler, len(h.handlers))}
	for i, impl := range h.handlers {
		next.handlers[i] = fn(impl)
	}
	return next
}

// MergeHandlers will merge many [slog.Handler] into one, so a single logger can write to several sinks.
// Nil handlers are ignored, and a single remaining handler is returned as-is.
func MergeHandlers(a slog.Handler, others ...slog.Handler) slog.Handler {
	var handlers []slog.Handler
	for _, impl := range append([]slog.Handler{a}, others...) {
		if impl != nil {
			handlers = append(handlers, impl)
		}
	}
	switch len(handlers) {
	case 0:
		panic("no handlers to merge")
	case 1:
		return handlers[0]
	}
	return &fanoutHandler{handlers: handlers}
}
