package main

import (
	"fmt"
	"github.com/saylorsolutions/signalbus/slogx"
	"golang.org/x/term"
	"io"
	"log/slog"
	"os"
	"strings"
)

func parseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return lvl, fmt.Errorf("invalid log level '%s': %w", level, err)
	}
	return lvl, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newLogger logs text to a terminal and JSON otherwise.
// If logFile isn't nil, JSON output is also written there.
func newLogger(out io.Writer, logFile io.Writer, level slog.Level, forceJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var primary slog.Handler
	if forceJSON || !isTerminal(out) {
		primary = slog.NewJSONHandler(out, opts)
	} else {
		primary = slog.NewTextHandler(out, opts)
	}
	var secondary slog.Handler
	if logFile != nil {
		secondary = slog.NewJSONHandler(logFile, opts)
	}
	return slog.New(slogx.NewDedupeHandler(slogx.MergeHandlers(primary, secondary)))
}
