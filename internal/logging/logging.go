// Package logging configures structured logging using log/slog.
//
// The reconciler writes one text log per run. When verbose mode is on the
// same records are mirrored to stderr so operators can watch a run live.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Setup installs the default slog logger. Records go to logFile (created,
// truncated) and additionally to stderr when verbose is set. Returns a
// closer for the log file; a nil path logs to stderr only.
func Setup(level, logFile string, verbose bool) (func() error, error) {
	var out io.Writer = os.Stderr
	closer := func() error { return nil }

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, err
		}
		f, err := os.Create(logFile)
		if err != nil {
			return nil, err
		}
		closer = f.Close
		if verbose {
			out = io.MultiWriter(f, os.Stderr)
		} else {
			out = f
		}
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// parseLevel converts a string log level to slog.Level.
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
