package slogx

import (
	"context"
	"log/slog"
)

var _ slog.Handler = (*DedupeHandler)(nil)

// DedupeHandler keeps a single value for each attribute key, where the most recently added value wins.
// This is useful for loggers that are re-annotated at each level of a hierarchy, like a child bus
// re-annotating the "bus" key that it inherited from its parent.
type DedupeHandler struct {
	group string
	keys  map[string]int
	attrs []slog.Attr
	impl  slog.Handler
}

func NewDedupeHandler(impl slog.Handler) slog.Handler {
	if impl == nil {
		panic("nil implementing handler")
	}
	if dh, ok := impl.(*DedupeHandler); ok {
		return dh
	}
	return &DedupeHandler{
		impl: impl,
	}
}

func (h *DedupeHandler) qualify(key string) string {
	if len(h.group) == 0 {
		return key
	}
	return h.group + "." + key
}

func (h *DedupeHandler) clone() *DedupeHandler {
	keys := make(map[string]int, len(h.keys))
	for k, v := range h.keys {
		keys[k] = v
	}
	attrs := make([]slog.Attr, len(h.attrs))
	copy(attrs, h.attrs)
	return &DedupeHandler{
		group: h.group,
		keys:  keys,
		attrs: attrs,
		impl:  h.impl,
	}
}

func (h *DedupeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.impl.Enabled(ctx, level)
}

func (h *DedupeHandler) Handle(ctx context.Context, record slog.Record) error {
	merged := h
	if record.NumAttrs() > 0 {
		recAttrs := make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			recAttrs = append(recAttrs, attr)
			return true
		})
		merged = h.withAttrs(recAttrs)
		record = slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	}
	return merged.impl.WithAttrs(merged.attrs).Handle(ctx, record)
}

func (h *DedupeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.withAttrs(attrs)
}

func (h *DedupeHandler) withAttrs(attrs []slog.Attr) *DedupeHandler {
	cp := h.clone()
	for _, attr := range attrs {
		attr.Key = cp.qualify(attr.Key)
		if idx, ok := cp.keys[attr.Key]; ok {
			cp.attrs[idx] = attr
			continue
		}
		cp.keys[attr.Key] = len(cp.attrs)
		cp.attrs = append(cp.attrs, attr)
	}
	return cp
}

func (h *DedupeHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}
	cp := h.clone()
	cp.group = cp.qualify(name)
	return cp
}
