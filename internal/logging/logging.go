// Package logging builds the slog logger used across procflow.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, pretty
	// File receives log output. Empty means Writer.
	File string
	// Writer is used when File is empty. Nil discards output, which keeps
	// the terminal clean while the editor owns it.
	Writer io.Writer
}

// New returns a logger and a close func for any file it opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }

	w := opts.Writer
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f.Close
	}
	if w == nil {
		w = io.Discard
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, closer, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	case "pretty":
		h = NewPrettyHandler(w, PrettyHandlerOptions{SlogOpts: *hopts})
	default:
		return nil, closer, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return slog.New(h), closer, nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
