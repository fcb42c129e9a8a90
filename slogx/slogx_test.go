package slogx

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"log/slog"
	"strings"
	"testing"
)

func TestDedupeHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewDedupeHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	log = log.With("bus", "root")
	log = log.With("bus", "child")
	log = log.With("bus", "grandchild", "label", "leaf")
	log.Info("Test")
	assert.Equal(t, 1, strings.Count(buf.String(), "bus="))
	assert.Contains(t, buf.String(), "bus=grandchild")
	assert.Contains(t, buf.String(), "label=leaf")

	handler := log.Handler().(*DedupeHandler)
	assert.Len(t, handler.attrs, 2)
}

func TestDedupeHandler_RecordAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewDedupeHandler(slog.NewTextHandler(&buf, nil)))
	log = log.With("signal", "a")
	log.Info("Test", "signal", "b")
	assert.Equal(t, 1, strings.Count(buf.String(), "signal="))
	assert.Contains(t, buf.String(), "signal=b")
}

func TestDedupeHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewDedupeHandler(slog.NewTextHandler(&buf, nil)))
	log = log.With("key", 1).With("key", 2)
	log = log.WithGroup("group")
	log = log.With("key", 1).With("key", 2)
	log.Info("Test")
	assert.Equal(t, 1, strings.Count(buf.String(), " key="))
	assert.Equal(t, 1, strings.Count(buf.String(), "group.key="))
}

func TestDedupeHandler_NoDoubleWrap(t *testing.T) {
	inner := NewDedupeHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, inner, NewDedupeHandler(inner))
}

func TestDedupeHandler_NilImpl(t *testing.T) {
	assert.Panics(t, func() {
		NewDedupeHandler(nil)
	})
}

func TestMergeHandlers(t *testing.T) {
	var bufA, bufB strings.Builder
	log := slog.New(MergeHandlers(
		slog.NewTextHandler(&bufA, nil),
		nil,
		slog.NewTextHandler(&bufB, nil),
	))
	log.With("bus", "root").Info("A message")
	assert.Contains(t, bufA.String(), "bus=root")
	assert.Equal(t, bufA.String(), bufB.String())
}

func TestMergeHandlers_Single(t *testing.T) {
	impl := slog.NewTextHandler(&bytes.Buffer{}, nil)
	assert.Same(t, impl, MergeHandlers(impl, nil))
	assert.Panics(t, func() {
		MergeHandlers(nil)
	})
}
