// Package log builds the daemon's slog.Logger and the raw CEC frame log.
//
// Without a log file, records below error go to stdout and errors go to
// stderr, which keeps journald priorities meaningful under systemd.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below Debug and enables the raw frame dump on stdout.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok && l <= LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// fanout sends every record to each handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// levelRange passes records with min <= level < max to h.
type levelRange struct {
	min, max slog.Level
	h        slog.Handler
}

func (r levelRange) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= r.min && level < r.max && r.h.Enabled(ctx, level)
}

func (r levelRange) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level < r.min || rec.Level >= r.max {
		return nil
	}
	return r.h.Handle(ctx, rec)
}

func (r levelRange) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelRange{min: r.min, max: r.max, h: r.h.WithAttrs(attrs)}
}

func (r levelRange) WithGroup(name string) slog.Handler {
	return levelRange{min: r.min, max: r.max, h: r.h.WithGroup(name)}
}

// NewHandler splits records between out (below error) and errOut (error and
// above), both filtered at level.
func NewHandler(out, errOut io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	errLevel := max(level, slog.LevelError)
	return fanout{
		levelRange{min: level, max: slog.LevelError, h: slog.NewTextHandler(out, opts)},
		levelRange{min: errLevel, max: slog.Level(1 << 30), h: slog.NewTextHandler(errOut, opts)},
	}
}

// SetupLogger builds the process logger. With logFile set, records are
// written to stderr and appended to the file.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)
	if logFile == "" {
		return slog.New(NewHandler(os.Stdout, os.Stderr, level)), nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	h := fanout{
		slog.NewTextHandler(os.Stderr, opts),
		slog.NewTextHandler(f, opts),
	}
	return slog.New(h), []io.Closer{f}, nil
}
