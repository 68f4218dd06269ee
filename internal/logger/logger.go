// Package logger builds the slog loggers used for allocator diagnostics.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// EnvLogAlloc enables verbose allocator logging when set to a non-empty value.
const EnvLogAlloc = "HEAP_LOG_ALLOC"

// Discard is a logger that drops every record.
var Discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures a diagnostic logger.
type Options struct {
	Enabled bool      // If false, all logging is discarded
	Output  io.Writer // Target stream. Default: os.Stderr
	JSON    bool      // Emit JSON records instead of key=value text
}

// New returns a logger for opts. Enabled loggers log at Debug level and drop
// the timestamp so heap traces are reproducible across runs.
func New(opts Options) *slog.Logger {
	if !opts.Enabled {
		return Discard
	}

	w := opts.Output
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// EnvEnabled reports whether HEAP_LOG_ALLOC requests verbose logging.
func EnvEnabled() bool {
	return os.Getenv(EnvLogAlloc) != ""
}
